// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/bounty/cache"
	"github.com/vechain/bounty/kv"
	"github.com/vechain/bounty/stackedmap"
	"github.com/vechain/bounty/thor"
)

const (
	accountBucket kv.Bucket = "a"
	storageBucket kv.Bucket = "s"
)

// ErrInsufficientBalance is returned when a debit exceeds the account balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	return storageBucket.Key(append(k.addr.Bytes(), k.key.Bytes()...))
}

func accountDBKey(addr thor.Address) []byte {
	return accountBucket.Key(addr.Bytes())
}

// State manages balances and contract storage.
type State struct {
	store kv.Store
	cache *cache.LRU
	sm    *stackedmap.StackedMap[any, any] // keeps revisions of accounts and storage
}

func newState(store kv.Store, c *cache.LRU) *State {
	s := &State{store: store, cache: c}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case thor.Address:
		data, err := s.load(accountDBKey(k))
		if err != nil {
			return nil, false, err
		}
		acc, err := decodeAccount(data)
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	case storageKey:
		data, err := s.load(k.dbKey())
		if err != nil {
			return nil, false, err
		}
		return rlp.RawValue(data), true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// load reads committed value, missing keys read as nil.
func (s *State) load(dbKey []byte) ([]byte, error) {
	v, err := s.cache.GetOrLoad(string(dbKey), func() (any, error) {
		data, err := s.store.Get(dbKey)
		if err != nil {
			if s.store.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *State) getAccount(addr thor.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(acc.Balance), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{errors.New("negative balance")}
	}
	s.sm.Put(addr, &Account{Balance: new(big.Int).Set(balance)})
	return nil
}

// AddBalance credits amount to the given address.
func (s *State) AddBalance(addr thor.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// SubBalance debits amount from the given address.
func (s *State) SubBalance(addr thor.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	return s.SetBalance(addr, bal.Sub(bal, amount))
}

// Transfer moves amount from one account to another.
func (s *State) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return &Error{errors.New("negative transfer")}
	}
	if err := s.SubBalance(from, amount); err != nil {
		return err
	}
	return s.AddBalance(to, amount)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit all changes.
func (s *State) Stage() (*Stage, error) {
	changes := make(map[string][]byte)
	var order []string

	var jerr error
	s.sm.Journal(func(k, v any) bool {
		var (
			dbKey []byte
			data  []byte
		)
		switch key := k.(type) {
		case thor.Address:
			dbKey = accountDBKey(key)
			if data, jerr = encodeAccount(v.(*Account)); jerr != nil {
				return false
			}
		case storageKey:
			dbKey = key.dbKey()
			data = v.(rlp.RawValue)
		}
		if _, ok := changes[string(dbKey)]; !ok {
			order = append(order, string(dbKey))
		}
		changes[string(dbKey)] = data
		return true
	})
	if jerr != nil {
		return nil, &Error{jerr}
	}

	return &Stage{
		store:   s.store,
		cache:   s.cache,
		changes: changes,
		order:   order,
	}, nil
}
