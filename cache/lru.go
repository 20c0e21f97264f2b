// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/bounty/metrics"
)

var metricCacheLookups = metrics.LazyLoadCounterVec("cache_lookup_count", []string{"cache", "result"})

// LRU is a named golang-lru cache which counts its hits and misses.
type LRU struct {
	*lru.Cache
	name         string
	hits, misses atomic.Uint64
}

// NewLRU creates a cache holding up to maxSize entries. maxSize must be positive.
func NewLRU(name string, maxSize int) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: c, name: name}, nil
}

// GetOrLoad returns the cached value of key, calling load on a miss.
// Values are cached only when load succeeds.
func (l *LRU) GetOrLoad(key any, load func() (any, error)) (any, error) {
	if v, ok := l.Get(key); ok {
		l.hits.Add(1)
		metricCacheLookups().AddWithLabel(1, map[string]string{"cache": l.name, "result": "hit"})
		return v, nil
	}
	l.misses.Add(1)
	metricCacheLookups().AddWithLabel(1, map[string]string{"cache": l.name, "result": "miss"})

	v, err := load()
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

// Stats returns the lookups served from the cache and those that had to load.
func (l *LRU) Stats() (hits, misses uint64) {
	return l.hits.Load(), l.misses.Load()
}
