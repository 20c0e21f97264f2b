// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the byte oriented store committed state is written to.
package kv

// Store reads, writes and ranges over keys. Get fails with an error that
// IsNotFound recognises when the key is absent.
type Store interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool

	Put(key, value []byte) error
	Delete(key []byte) error

	// NewBatch starts a set of writes applied atomically by Batch.Write.
	NewBatch() Batch
	// Iterate walks keys in r in ascending order.
	Iterate(r Range) Iterator
}

// StoreCloser is a Store owning underlying resources.
type StoreCloser interface {
	Store
	Close() error
}

type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Len() int
	Write() error
}

// Range selects keys in [From, To). A nil bound is open.
type Range struct {
	From []byte
	To   []byte
}

type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}
