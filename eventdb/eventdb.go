// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/bounty/thor"
)

// EventDB persists bounty events in sqlite.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives and dies with its connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// LastSeq returns the sequence number of the latest event, 0 if empty.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func (db *EventDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT seq, txID, time, address, name, data FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT seq, txID, time, address, name, data FROM event WHERE 1"
	if filter.Address != nil {
		args = append(args, filter.Address.Bytes())
		stmt += " AND address = ?"
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ?"
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND seq >= ?"
		if filter.Range.To > 0 {
			args = append(args, filter.Range.To)
			stmt += " AND seq <= ?"
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     uint64
			txID    []byte
			time    uint64
			address []byte
			name    string
			data    []byte
		)
		if err := rows.Scan(&seq, &txID, &time, &address, &name, &data); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:     seq,
			TxID:    thor.BytesToBytes32(txID),
			Time:    time,
			Address: thor.BytesToAddress(address),
			Name:    name,
			Data:    data,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Batch collects the events of one transaction.
type Batch struct {
	db     *sql.DB
	txID   thor.Bytes32
	time   uint64
	events []*Event
}

func (db *EventDB) NewBatch(txID thor.Bytes32, time uint64) *Batch {
	return &Batch{db: db.db, txID: txID, time: time}
}

// Add appends an event emitted by address.
func (b *Batch) Add(address thor.Address, name string, data []byte) *Batch {
	b.events = append(b.events, &Event{
		TxID:    b.txID,
		Time:    b.time,
		Address: address,
		Name:    name,
		Data:    data,
	})
	return b
}

func (b *Batch) Len() int {
	return len(b.events)
}

// Commit writes all events in one sql transaction.
func (b *Batch) Commit(ctx context.Context) error {
	if len(b.events) == 0 {
		return nil
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, ev := range b.events {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event(txID, time, address, name, data) VALUES (?, ?, ?, ?, ?)",
			ev.TxID.Bytes(),
			ev.Time,
			ev.Address.Bytes(),
			ev.Name,
			[]byte(ev.Data),
		); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
	}
	return tx.Commit()
}
