// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"

	"github.com/vechain/bounty/thor"
)

var ErrIndexOutOfRange = errors.New("array index out of range")

// Array is an append-only dynamic array. The length lives at pos and
// elements are keyed by their index under the same base.
type Array[V any] struct {
	length   *Uint64
	elements *Mapping[Uint64Key, V]
}

func NewArray[V any](context *Context, pos thor.Bytes32) *Array[V] {
	return &Array[V]{
		length:   NewUint64(context, pos),
		elements: NewMapping[Uint64Key, V](context, pos),
	}
}

func (a *Array[V]) Len() (uint64, error) {
	return a.length.Get()
}

func (a *Array[V]) Get(index uint64) (value V, err error) {
	n, err := a.length.Get()
	if err != nil {
		return value, err
	}
	if index >= n {
		return value, ErrIndexOutOfRange
	}
	return a.elements.Get(Uint64Key(index))
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	n, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	if err := a.elements.Set(Uint64Key(n), value); err != nil {
		return 0, err
	}
	a.length.Set(n + 1)
	return n, nil
}
