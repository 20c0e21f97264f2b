// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package teststate provides in-memory state for tests.
package teststate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/bounty/lvldb"
	"github.com/vechain/bounty/state"
)

// NewStater returns a stater over an in-memory leveldb closed at test cleanup.
func NewStater(t testing.TB) *state.Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.NewStater(db, 0)
}

// New returns a fresh in-memory state.
func New(t testing.TB) *state.State {
	return NewStater(t).NewState()
}
