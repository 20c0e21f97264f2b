// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/bounty/builtin/bounty"
	"github.com/vechain/bounty/builtin/bounty/reverts"
	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/runtime"
	"github.com/vechain/bounty/state"
	"github.com/vechain/bounty/test/teststate"
	"github.com/vechain/bounty/thor"
	"github.com/vechain/bounty/xenv"
)

var (
	factoryAddr = thor.BytesToAddress([]byte("factory"))
	issuer      = thor.BytesToAddress([]byte("issuer"))
	alice       = thor.BytesToAddress([]byte("alice"))
	bob         = thor.BytesToAddress([]byte("bob"))
	worker      = thor.BytesToAddress([]byte("worker"))
)

var genesisTime = time.Unix(1_700_000_000, 0)

type testNode struct {
	t      *testing.T
	rt     *runtime.Runtime
	clock  *clockwork.FakeClock
	stater *state.Stater
	events *eventdb.EventDB
}

func newTestNode(t *testing.T) *testNode {
	stater := teststate.NewStater(t)
	st := stater.NewState()
	for _, acc := range []thor.Address{issuer, alice, bob, worker} {
		require.NoError(t, st.SetBalance(acc, thor.Units(100)))
	}
	stage, err := st.Stage()
	require.NoError(t, err)
	require.NoError(t, stage.Commit())

	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	clock := clockwork.NewFakeClockAt(genesisTime)
	return &testNode{
		t:      t,
		clock:  clock,
		stater: stater,
		events: events,
		rt: runtime.New(runtime.Config{
			Stater:  stater,
			EventDB: events,
			Factory: factoryAddr,
			Clock:   clock,
		}),
	}
}

func (n *testNode) exec(caller, to thor.Address, value *big.Int, proc func(*xenv.Environment) error) error {
	_, err := n.rt.Exec(context.Background(), caller, to, value, proc)
	return err
}

func (n *testNode) balance(addr thor.Address) *big.Int {
	var bal *big.Int
	require.NoError(n.t, n.rt.View(func(env *xenv.Environment) (err error) {
		bal, err = env.State().GetBalance(addr)
		return
	}))
	return bal
}

// create instantiates a joinable bounty with a nominated claim by worker.
func (n *testNode) create(funding *big.Int) thor.Address {
	var addr thor.Address
	require.NoError(n.t, n.exec(issuer, factoryAddr, funding, func(env *xenv.Environment) (err error) {
		addr, err = env.Factory().Instantiate(env.Caller(), thor.Address{}, "ipfs://meta", true, env.Value())
		return
	}))
	return addr
}

func (n *testNode) deposit(from, addr thor.Address, amount *big.Int) error {
	return n.exec(from, addr, amount, func(env *xenv.Environment) error {
		return env.Bounty(env.To()).Deposit(env.Caller(), env.Value())
	})
}

func (n *testNode) submitAndNominate(addr thor.Address) {
	require.NoError(n.t, n.exec(worker, addr, nil, func(env *xenv.Environment) error {
		_, err := env.Bounty(env.To()).Submit(env.Caller(), "fix", "ipfs://proof")
		return err
	}))
	require.NoError(n.t, n.exec(issuer, addr, nil, func(env *xenv.Environment) error {
		return env.Bounty(env.To()).Nominate(env.Caller(), 0, env.Time())
	}))
}

func resolve(env *xenv.Environment) error {
	return env.Bounty(env.To()).Resolve(env.Caller(), env.Time())
}

func TestRuntime_CommitAndRevert(t *testing.T) {
	n := newTestNode(t)
	addr := n.create(thor.Units(1))

	assert.Zero(t, n.balance(addr).Cmp(thor.Units(1)))
	assert.Zero(t, n.balance(issuer).Cmp(thor.Units(99)))

	require.NoError(t, n.deposit(alice, addr, thor.Units(2)))
	assert.Zero(t, n.balance(addr).Cmp(thor.Units(3)))

	// the attached value goes back with a rejected call
	err := n.deposit(bob, addr, big.NewInt(0))
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)
	err = n.exec(bob, addr, thor.Units(5), func(env *xenv.Environment) error {
		if err := env.Bounty(env.To()).Deposit(env.Caller(), env.Value()); err != nil {
			return err
		}
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Zero(t, n.balance(bob).Cmp(thor.Units(100)))
	assert.Zero(t, n.balance(addr).Cmp(thor.Units(3)))

	// insufficient funds for the attached value
	err = n.deposit(bob, addr, thor.Units(101))
	assert.ErrorIs(t, err, state.ErrInsufficientBalance)

	events, err := n.events.FilterEvents(context.Background(), &eventdb.EventFilter{Address: &addr})
	require.NoError(t, err)
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
		assert.Equal(t, uint64(genesisTime.Unix()), ev.Time)
	}
	assert.Equal(t, []string{"Created", "Deposited", "Deposited"}, names)
}

func TestRuntime_PersistsAcrossStates(t *testing.T) {
	n := newTestNode(t)
	addr := n.create(thor.Units(1))

	b := bounty.New(addr, n.stater.NewState(), nil)
	total, err := b.TotalStaked()
	require.NoError(t, err)
	assert.Zero(t, total.Cmp(thor.Units(1)))
}

func TestRuntime_Deadline(t *testing.T) {
	n := newTestNode(t)
	addr := n.create(big.NewInt(0))
	require.NoError(t, n.deposit(alice, addr, thor.Units(1)))
	require.NoError(t, n.deposit(bob, addr, thor.Units(1)))
	n.submitAndNominate(addr)

	require.NoError(t, n.exec(alice, addr, nil, func(env *xenv.Environment) error {
		return env.Bounty(env.To()).CastVote(env.Caller(), true, env.Time())
	}))
	assert.ErrorIs(t, n.exec(bob, addr, nil, resolve), reverts.ErrVotingNotEnded)

	n.clock.Advance(time.Duration(thor.VotingWindow) * time.Second)
	assert.ErrorIs(t, n.exec(bob, addr, nil, func(env *xenv.Environment) error {
		return env.Bounty(env.To()).CastVote(env.Caller(), false, env.Time())
	}), reverts.ErrVotingEnded)
	require.NoError(t, n.exec(bob, addr, nil, resolve))

	assert.Zero(t, n.balance(worker).Cmp(thor.Units(102)))
	assert.Zero(t, n.balance(addr).Sign())
}

func TestRuntime_ConcurrentResolvers(t *testing.T) {
	n := newTestNode(t)
	addr := n.create(thor.Units(1))
	n.submitAndNominate(addr)
	n.clock.Advance(time.Duration(thor.VotingWindow+1) * time.Second)

	var (
		g      errgroup.Group
		ok     atomic.Int32
		failed atomic.Int32
	)
	for _, caller := range []thor.Address{alice, bob, issuer, worker, alice, bob} {
		g.Go(func() error {
			err := n.exec(caller, addr, nil, resolve)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, reverts.ErrNotVoting):
				failed.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(5), failed.Load())
	assert.Zero(t, n.balance(worker).Cmp(thor.Units(101)))
}

func TestRuntime_ReentrantReceiver(t *testing.T) {
	n := newTestNode(t)
	addr := n.create(big.NewInt(0))
	require.NoError(t, n.deposit(alice, addr, thor.Units(1)))
	n.submitAndNominate(addr)
	require.NoError(t, n.exec(alice, addr, nil, func(env *xenv.Environment) error {
		return env.Bounty(env.To()).CastVote(env.Caller(), true, env.Time())
	}))

	var nested error
	n.rt.SetReceiver(worker, func(env *xenv.Environment, from thor.Address, _ *big.Int) error {
		assert.Equal(t, addr, from)
		assert.Equal(t, worker, env.To())
		nested = env.Call(from, nil, resolve)
		return nil
	})
	require.NoError(t, n.exec(bob, addr, nil, resolve))
	assert.ErrorIs(t, nested, reverts.ErrReentrantCall)
	assert.Zero(t, n.balance(worker).Cmp(thor.Units(101)))

	// a receiver that refuses the funds fails the whole call
	addr2 := n.create(big.NewInt(0))
	require.NoError(t, n.deposit(alice, addr2, thor.Units(1)))
	n.rt.SetReceiver(alice, func(*xenv.Environment, thor.Address, *big.Int) error {
		return errors.New("not accepting")
	})
	err := n.exec(alice, addr2, nil, func(env *xenv.Environment) error {
		return env.Bounty(env.To()).WithdrawSelf(env.Caller())
	})
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)
	assert.Zero(t, n.balance(addr2).Cmp(thor.Units(1)))

	n.rt.SetReceiver(alice, nil)
	require.NoError(t, n.exec(alice, addr2, nil, func(env *xenv.Environment) error {
		return env.Bounty(env.To()).WithdrawSelf(env.Caller())
	}))
}

type rewindClock struct {
	clockwork.Clock
	times []time.Time
}

func (c *rewindClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func TestRuntime_MonotonicTime(t *testing.T) {
	clock := &rewindClock{
		Clock: clockwork.NewRealClock(),
		times: []time.Time{genesisTime.Add(time.Hour), genesisTime, genesisTime.Add(2 * time.Hour)},
	}
	rt := runtime.New(runtime.Config{Stater: teststate.NewStater(t), Clock: clock})

	first := rt.Now()
	assert.Equal(t, uint64(genesisTime.Add(time.Hour).Unix()), first)
	assert.Equal(t, first, rt.Now(), "clock going backwards is ignored")
	assert.Equal(t, uint64(genesisTime.Add(2*time.Hour).Unix()), rt.Now())
}

func TestRuntime_CommittedSignal(t *testing.T) {
	n := newTestNode(t)
	wait := n.rt.Committed()
	n.create(nil)
	select {
	case <-wait:
	default:
		t.Fatal("commit must broadcast")
	}
}

func TestRuntime_IndexesEventsOfCancelledCaller(t *testing.T) {
	n := newTestNode(t)
	addr := n.create(thor.Units(1))
	n.submitAndNominate(addr)
	n.clock.Advance(time.Duration(thor.VotingWindow) * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	receipt, err := n.rt.Exec(ctx, bob, addr, nil, resolve)
	require.NoError(t, err)
	assert.Len(t, receipt.Logs, 2)

	events, err := n.events.FilterEvents(context.Background(), &eventdb.EventFilter{
		Address: &addr,
		Order:   eventdb.DESC,
		Options: &eventdb.Options{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "PaidOut", events[0].Name)
	assert.Equal(t, "Resolved", events[1].Name)
	assert.Equal(t, receipt.TxID, events[0].TxID)
}
