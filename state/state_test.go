// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/bounty/lvldb"
	"github.com/vechain/bounty/thor"
)

func newStater(t *testing.T) (*Stater, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db, 0), db
}

func TestStateBalances(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()

	alice := thor.BytesToAddress([]byte("alice"))
	bob := thor.BytesToAddress([]byte("bob"))

	bal, err := st.GetBalance(alice)
	assert.NoError(t, err)
	assert.Equal(t, 0, bal.Sign())

	assert.NoError(t, st.SetBalance(alice, big.NewInt(100)))
	assert.NoError(t, st.Transfer(alice, bob, big.NewInt(40)))

	bal, _ = st.GetBalance(alice)
	assert.Equal(t, big.NewInt(60), bal)
	bal, _ = st.GetBalance(bob)
	assert.Equal(t, big.NewInt(40), bal)

	assert.ErrorIs(t, st.Transfer(bob, alice, big.NewInt(41)), ErrInsufficientBalance)
	assert.Error(t, st.SetBalance(bob, big.NewInt(-1)))

	// returned balances are copies
	bal.SetInt64(1000)
	bal, _ = st.GetBalance(bob)
	assert.Equal(t, big.NewInt(40), bal)
}

func TestStateStorage(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()

	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("key"))
	value := thor.BytesToBytes32([]byte("value"))

	st.SetStorage(addr, key, value)
	got, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	st.SetStorage(addr, key, thor.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Empty(t, raw)

	listKey := thor.BytesToBytes32([]byte("list"))
	assert.NoError(t, st.EncodeStorage(addr, listKey, func() ([]byte, error) {
		return rlp.EncodeToBytes([]string{"a", "b"})
	}))
	var decoded []string
	assert.NoError(t, st.DecodeStorage(addr, listKey, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	}))
	assert.Equal(t, []string{"a", "b"}, decoded)
}

func TestStateCheckpoint(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()

	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("k"))

	assert.NoError(t, st.SetBalance(addr, big.NewInt(10)))
	cp := st.NewCheckpoint()
	assert.NoError(t, st.SetBalance(addr, big.NewInt(20)))
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte("v")))

	nested := st.NewCheckpoint()
	assert.NoError(t, st.SetBalance(addr, big.NewInt(30)))
	st.RevertTo(nested)

	bal, _ := st.GetBalance(addr)
	assert.Equal(t, big.NewInt(20), bal)

	st.RevertTo(cp)
	bal, _ = st.GetBalance(addr)
	assert.Equal(t, big.NewInt(10), bal)
	v, _ := st.GetStorage(addr, key)
	assert.True(t, v.IsZero())
}

func TestStageCommit(t *testing.T) {
	stater, db := newStater(t)
	st := stater.NewState()

	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("k"))
	value := thor.BytesToBytes32([]byte("v"))

	assert.NoError(t, st.SetBalance(addr, big.NewInt(7)))
	st.SetStorage(addr, key, value)

	// not visible to other states until committed
	bal, _ := stater.NewState().GetBalance(addr)
	assert.Equal(t, 0, bal.Sign())

	stage, err := st.Stage()
	require.NoError(t, err)
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit())

	fresh := stater.NewState()
	bal, _ = fresh.GetBalance(addr)
	assert.Equal(t, big.NewInt(7), bal)
	v, _ := fresh.GetStorage(addr, key)
	assert.Equal(t, value, v)

	// a stater without the warm cache reads the same data from disk
	cold := NewStater(db, 16).NewState()
	bal, _ = cold.GetBalance(addr)
	assert.Equal(t, big.NewInt(7), bal)

	// draining an account deletes it
	assert.NoError(t, fresh.SetBalance(addr, big.NewInt(0)))
	stage, err = fresh.Stage()
	require.NoError(t, err)
	require.NoError(t, stage.Commit())
	has, err := db.Has(accountDBKey(addr))
	assert.NoError(t, err)
	assert.False(t, has)
}
