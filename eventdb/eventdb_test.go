// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/bounty/thor"
)

func seed(t *testing.T, db *EventDB) {
	ctx := context.Background()
	b1, b2 := thor.Address{1}, thor.Address{2}

	batch := db.NewBatch(thor.Bytes32{0xa}, 100).
		Add(b1, "Created", []byte(`{"n":1}`)).
		Add(b1, "Deposited", []byte(`{"n":2}`))
	require.Equal(t, 2, batch.Len())
	require.NoError(t, batch.Commit(ctx))

	require.NoError(t, db.NewBatch(thor.Bytes32{0xb}, 200).
		Add(b2, "Created", []byte(`{"n":3}`)).
		Add(b1, "Deposited", []byte(`{"n":4}`)).
		Commit(ctx))
}

func TestEventDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	seq, err := db.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)

	seed(t, db)

	seq, err = db.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), seq)

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, thor.Bytes32{0xa}, all[0].TxID)
	assert.Equal(t, uint64(100), all[0].Time)
	assert.Equal(t, "Created", all[0].Name)
	assert.JSONEq(t, `{"n":1}`, string(all[0].Data))

	b1 := thor.Address{1}
	tests := []struct {
		name   string
		filter *EventFilter
		seqs   []uint64
	}{
		{"by address", &EventFilter{Address: &b1}, []uint64{1, 2, 4}},
		{"by name", &EventFilter{Name: "Created"}, []uint64{1, 3}},
		{"by address and name", &EventFilter{Address: &b1, Name: "Deposited"}, []uint64{2, 4}},
		{"open range", &EventFilter{Range: &Range{From: 3}}, []uint64{3, 4}},
		{"closed range", &EventFilter{Range: &Range{From: 2, To: 3}}, []uint64{2, 3}},
		{"desc", &EventFilter{Order: DESC}, []uint64{4, 3, 2, 1}},
		{"paged", &EventFilter{Options: &Options{Offset: 1, Limit: 2}}, []uint64{2, 3}},
		{"paged desc", &EventFilter{Order: DESC, Options: &Options{Offset: 0, Limit: 1}}, []uint64{4}},
		{"no match", &EventFilter{Name: "PaidOut"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			var seqs []uint64
			for _, ev := range events {
				seqs = append(seqs, ev.Seq)
			}
			assert.Equal(t, tt.seqs, seqs)
		})
	}
}

func TestEventDB_EmptyBatch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.NewBatch(thor.Bytes32{}, 0).Commit(context.Background()))
	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := New(path)
	require.NoError(t, err)
	seed(t, db)
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	seq, err := db.LastSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), seq)
}
