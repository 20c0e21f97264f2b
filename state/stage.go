// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/bounty/cache"
	"github.com/vechain/bounty/kv"
)

// Stage abstracts changes to be written into the store.
type Stage struct {
	store   kv.Store
	cache   *cache.LRU
	changes map[string][]byte
	order   []string
}

// Len returns the number of distinct entries changed.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes into the store in one batch.
func (s *Stage) Commit() error {
	if len(s.order) == 0 {
		return nil
	}
	batch := s.store.NewBatch()
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	for _, k := range s.order {
		s.cache.Add(k, s.changes[k])
	}
	return nil
}
