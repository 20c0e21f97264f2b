// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb stores committed state in goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/bounty/kv"
	"github.com/vechain/bounty/metrics"
)

const minCacheMB = 16

var (
	metricBatchWrites = metrics.LazyLoadHistogram("leveldb_batch_size", []int64{1, 2, 5, 10, 20, 50, 100, 500})
	metricWriteErrors = metrics.LazyLoadCounterVec("leveldb_error_count", []string{"op"})
)

var _ kv.StoreCloser = (*LevelDB)(nil)

// Options tunes a persistent database. Values below the minimum are raised to it.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cacheMB := max(o.CacheSize, minCacheMB)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, 16),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		// two write buffers are kept in memory at a time
		WriteBuffer: cacheMB / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	}
}

type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it if missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	return open(stg, opts)
}

// NewMem opens a database that lives only as long as the process.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db}, nil
}

func (l *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) { return l.db.Get(key, nil) }
func (l *LevelDB) Has(key []byte) (bool, error)   { return l.db.Has(key, nil) }

func (l *LevelDB) Put(key, value []byte) error {
	return countFailure("put", l.db.Put(key, value, nil))
}

func (l *LevelDB) Delete(key []byte) error {
	return countFailure("delete", l.db.Delete(key, nil))
}

// Close releases the database, later calls fail.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

func (l *LevelDB) NewBatch() kv.Batch {
	return &batch{db: l.db}
}

func (l *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return l.db.NewIterator(&util.Range{Start: r.From, Limit: r.To}, nil)
}

type batch struct {
	db *leveldb.DB
	b  leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

func (b *batch) Write() error {
	metricBatchWrites().Observe(int64(b.b.Len()))
	return countFailure("batch", b.db.Write(&b.b, nil))
}

func countFailure(op string, err error) error {
	if err != nil {
		metricWriteErrors().AddWithLabel(1, map[string]string{"op": op})
	}
	return err
}
