// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/vechain/bounty/builtin/bounty"
	"github.com/vechain/bounty/builtin/factory"
	"github.com/vechain/bounty/state"
	"github.com/vechain/bounty/thor"
)

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
	Time   uint64
}

// Log is an event emitted by a bounty during a transaction.
type Log struct {
	Address thor.Address
	Event   bounty.Event
}

// Host executes transfers and nested calls on behalf of an environment.
type Host interface {
	Transfer(env *Environment, from, to thor.Address, amount *big.Int) error
	Call(env *Environment, caller, to thor.Address, value *big.Int, proc func(*Environment) error) error
}

// Environment an env to execute one call of a transaction.
type Environment struct {
	state   *state.State
	txCtx   *TransactionContext
	caller  thor.Address
	to      thor.Address
	value   *big.Int
	logs    *[]*Log
	host    Host
	factory thor.Address
}

// New create a new env. Environments of one transaction share logs.
func New(
	state *state.State,
	txCtx *TransactionContext,
	caller thor.Address,
	to thor.Address,
	value *big.Int,
	logs *[]*Log,
	host Host,
	factory thor.Address,
) *Environment {
	if value == nil {
		value = new(big.Int)
	}
	return &Environment{
		state:   state,
		txCtx:   txCtx,
		caller:  caller,
		to:      to,
		value:   value,
		logs:    logs,
		host:    host,
		factory: factory,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) Caller() thor.Address                    { return env.caller }
func (env *Environment) To() thor.Address                        { return env.to }
func (env *Environment) Time() uint64                            { return env.txCtx.Time }

// Value returns a copy of the attached value.
func (env *Environment) Value() *big.Int { return new(big.Int).Set(env.value) }

// Logs returns events emitted so far in the transaction.
func (env *Environment) Logs() []*Log { return *env.logs }

// Fork creates an environment for a nested call within the same transaction.
func (env *Environment) Fork(caller, to thor.Address, value *big.Int) *Environment {
	return New(env.state, env.txCtx, caller, to, value, env.logs, env.host, env.factory)
}

// TruncateLogs drops logs emitted after the first n.
func (env *Environment) TruncateLogs(n int) {
	if n < len(*env.logs) {
		*env.logs = (*env.logs)[:n]
	}
}

// Transfer moves amount and runs the receiver of the recipient, if any.
func (env *Environment) Transfer(from, to thor.Address, amount *big.Int) error {
	return env.host.Transfer(env, from, to, amount)
}

// Emit implements bounty.Host.
func (env *Environment) Emit(address thor.Address, ev bounty.Event) {
	*env.logs = append(*env.logs, &Log{Address: address, Event: ev})
}

// Call runs proc as a nested call from the current callee to the given address.
// A failing proc reverts its own writes and logs only.
func (env *Environment) Call(to thor.Address, value *big.Int, proc func(*Environment) error) error {
	return env.host.Call(env, env.to, to, value, proc)
}

// Bounty binds the bounty instance at addr.
func (env *Environment) Bounty(addr thor.Address) *bounty.Bounty {
	return bounty.New(addr, env.state, env)
}

// Factory binds the bounty factory.
func (env *Environment) Factory() *factory.Factory {
	return factory.New(env.factory, env.state, env)
}
