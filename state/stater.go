// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/bounty/cache"
	"github.com/vechain/bounty/kv"
)

const defaultCacheSize = 4096

// Stater is the state creator.
// States created by the same stater share a read cache of committed entries.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater. cacheSize <= 0 selects the default size.
func NewStater(store kv.Store, cacheSize int) *Stater {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	c, _ := cache.NewLRU("state", cacheSize)
	return &Stater{store, c}
}

// NewState create a new state object on top of committed data.
func (s *Stater) NewState() *State {
	return newState(s.store, s.cache)
}
