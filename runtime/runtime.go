// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math/big"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/vechain/bounty/builtin/bounty"
	"github.com/vechain/bounty/co"
	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/log"
	"github.com/vechain/bounty/state"
	"github.com/vechain/bounty/thor"
	"github.com/vechain/bounty/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// Receiver is run when funds are transferred to the account it is registered for.
// A returned error fails the transfer. env is a call from the sender to the account.
type Receiver func(env *xenv.Environment, from thor.Address, amount *big.Int) error

// Config configures a Runtime.
type Config struct {
	Stater  *state.Stater
	EventDB *eventdb.EventDB
	Factory thor.Address
	Clock   clockwork.Clock
}

// Receipt is the outcome of a committed transaction.
type Receipt struct {
	TxID thor.Bytes32
	Time uint64
	Logs []*xenv.Log
}

// Runtime is the single-writer host executing transactions one after another.
type Runtime struct {
	stater  *state.Stater
	eventDB *eventdb.EventDB
	factory thor.Address
	clock   clockwork.Clock

	lock     sync.RWMutex // held for writing by transactions, for reading by views
	lastTime uint64
	nonce    uint64

	receiversLock sync.RWMutex
	receivers     map[thor.Address]Receiver

	committed co.Signal
}

// New create a Runtime object.
func New(cfg Config) *Runtime {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Runtime{
		stater:    cfg.Stater,
		eventDB:   cfg.EventDB,
		factory:   cfg.Factory,
		clock:     cfg.Clock,
		receivers: make(map[thor.Address]Receiver),
	}
}

func (rt *Runtime) Factory() thor.Address       { return rt.factory }
func (rt *Runtime) EventDB() *eventdb.EventDB   { return rt.eventDB }
func (rt *Runtime) Clock() clockwork.Clock      { return rt.clock }
func (rt *Runtime) Committed() <-chan struct{} { return rt.committed.Wait() }

// SetReceiver registers r for addr, a nil r removes it.
func (rt *Runtime) SetReceiver(addr thor.Address, r Receiver) {
	rt.receiversLock.Lock()
	defer rt.receiversLock.Unlock()

	if r == nil {
		delete(rt.receivers, addr)
		return
	}
	rt.receivers[addr] = r
}

func (rt *Runtime) receiver(addr thor.Address) Receiver {
	rt.receiversLock.RLock()
	defer rt.receiversLock.RUnlock()

	return rt.receivers[addr]
}

// now returns the clock time, never earlier than a time handed out before.
// Must be called with lock held.
func (rt *Runtime) now() uint64 {
	t := rt.clock.Now().Unix()
	if t < 0 {
		t = 0
	}
	if uint64(t) > rt.lastTime {
		rt.lastTime = uint64(t)
	}
	return rt.lastTime
}

func (rt *Runtime) newTxID(caller, to thor.Address, now uint64) thor.Bytes32 {
	rt.nonce++
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], rt.nonce)
	binary.BigEndian.PutUint64(b[8:], now)
	return thor.Blake2b(caller.Bytes(), to.Bytes(), b[:])
}

// Exec runs proc as one transaction from caller to to, with value moved from
// caller to to beforehand. All effects are committed if proc succeeds and
// none otherwise.
func (rt *Runtime) Exec(ctx context.Context, caller, to thor.Address, value *big.Int, proc func(*xenv.Environment) error) (*Receipt, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	start := time.Now()
	now := rt.now()
	txCtx := &xenv.TransactionContext{
		ID:     rt.newTxID(caller, to, now),
		Origin: caller,
		Time:   now,
	}
	st := rt.stater.NewState()
	var logs []*xenv.Log
	root := xenv.New(st, txCtx, caller, to, value, &logs, rt, rt.factory)

	if err := rt.Call(root, caller, to, value, proc); err != nil {
		metricTxCount().AddWithLabel(1, map[string]string{"outcome": "reverted"})
		return nil, err
	}
	if err := rt.commit(ctx, st, txCtx, logs); err != nil {
		metricTxCount().AddWithLabel(1, map[string]string{"outcome": "fault"})
		return nil, err
	}
	metricTxCount().AddWithLabel(1, map[string]string{"outcome": "committed"})
	metricTxDuration().Observe(time.Since(start).Milliseconds())

	rt.committed.Broadcast()
	logger.Trace("transaction committed", "id", txCtx.ID, "caller", caller, "to", to, "logs", len(logs))
	return &Receipt{TxID: txCtx.ID, Time: now, Logs: logs}, nil
}

func (rt *Runtime) commit(ctx context.Context, st *state.State, txCtx *xenv.TransactionContext, logs []*xenv.Log) error {
	var batch *eventdb.Batch
	if rt.eventDB != nil {
		batch = rt.eventDB.NewBatch(txCtx.ID, txCtx.Time)
		for _, l := range logs {
			data, err := json.Marshal(l.Event)
			if err != nil {
				return errors.Wrap(err, "encode event")
			}
			batch.Add(l.Address, l.Event.EventName(), data)
		}
	}

	stage, err := st.Stage()
	if err != nil {
		return errors.Wrap(err, "stage state")
	}
	if err := stage.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	events := make([]bounty.Event, 0, len(logs))
	for _, l := range logs {
		events = append(events, l.Event)
	}
	bounty.RecordCommitted(events)

	if batch == nil {
		return nil
	}
	// state is committed, so the index must follow it even if the caller went away
	if err := batch.Commit(context.WithoutCancel(ctx)); err != nil {
		logger.Error("failed to index events", "id", txCtx.ID, "err", err)
		return errors.Wrap(err, "commit events")
	}
	return nil
}

// View runs proc against the latest committed state and discards any writes.
func (rt *Runtime) View(proc func(*xenv.Environment) error) error {
	rt.lock.RLock()
	defer rt.lock.RUnlock()

	var logs []*xenv.Log
	txCtx := &xenv.TransactionContext{Time: rt.lastTime}
	env := xenv.New(rt.stater.NewState(), txCtx, thor.Address{}, thor.Address{}, nil, &logs, rt, rt.factory)
	return proc(env)
}

// Now returns the time the next transaction would observe.
func (rt *Runtime) Now() uint64 {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return rt.now()
}

// Transfer implements xenv.Host.
func (rt *Runtime) Transfer(env *xenv.Environment, from, to thor.Address, amount *big.Int) error {
	st := env.State()
	checkpoint := st.NewCheckpoint()
	if err := st.Transfer(from, to, amount); err != nil {
		st.RevertTo(checkpoint)
		return err
	}
	r := rt.receiver(to)
	if r == nil {
		return nil
	}
	logs := len(env.Logs())
	if err := r(env.Fork(from, to, amount), from, amount); err != nil {
		st.RevertTo(checkpoint)
		env.TruncateLogs(logs)
		return errors.WithMessage(err, "receiver rejected")
	}
	return nil
}

// Call implements xenv.Host.
func (rt *Runtime) Call(env *xenv.Environment, caller, to thor.Address, value *big.Int, proc func(*xenv.Environment) error) error {
	st := env.State()
	checkpoint := st.NewCheckpoint()
	logs := len(env.Logs())

	child := env.Fork(caller, to, value)
	if v := child.Value(); v.Sign() > 0 {
		if err := st.Transfer(caller, to, v); err != nil {
			st.RevertTo(checkpoint)
			return err
		}
	}
	if err := proc(child); err != nil {
		st.RevertTo(checkpoint)
		env.TruncateLogs(logs)
		return err
	}
	return nil
}
