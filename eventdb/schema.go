// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// seq is the global emission order, assigned by sqlite.
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	txID BLOB(32) NOT NULL,
	time INTEGER NOT NULL,
	address BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(address, seq);
CREATE INDEX IF NOT EXISTS event_i1 ON event(name, seq);`
