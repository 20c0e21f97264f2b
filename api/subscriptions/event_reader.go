// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/thor"
)

const readBatchSize = 100

// eventReader reads matching events after a position, advancing it on every read.
type eventReader struct {
	db      *eventdb.EventDB
	address *thor.Address
	name    string
	pos     uint64
}

func newEventReader(db *eventdb.EventDB, pos uint64, address *thor.Address, name string) *eventReader {
	return &eventReader{
		db:      db,
		address: address,
		name:    name,
		pos:     pos,
	}
}

// Read returns the next events, and whether more may be read without waiting.
func (er *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	events, err := er.db.FilterEvents(ctx, &eventdb.EventFilter{
		Address: er.address,
		Name:    er.name,
		Range:   &eventdb.Range{From: er.pos + 1},
		Options: &eventdb.Options{Limit: readBatchSize},
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, convertEvent(ev))
		er.pos = ev.Seq
	}
	return msgs, len(events) == readBatchSize, nil
}
