// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package factory creates bounty instances and keeps the registry of them.
package factory

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/bounty/builtin/bounty"
	"github.com/vechain/bounty/builtin/solidity"
	"github.com/vechain/bounty/log"
	"github.com/vechain/bounty/state"
	"github.com/vechain/bounty/thor"
)

var logger = log.WithContext("pkg", "factory")

var (
	slotInstances           = thor.BytesToBytes32([]byte("instances"))
	slotDefaultFeeRecipient = thor.BytesToBytes32([]byte("default-fee-recipient"))
	slotConfigured          = thor.BytesToBytes32([]byte("configured"))
)

// MaxListLimit caps a page of the registry.
const MaxListLimit = 1000

// Factory is bound to the factory account. Value paid to Instantiate is held
// by the factory account and forwarded to the new instance.
type Factory struct {
	addr  thor.Address
	state *state.State
	host  bounty.Host

	instances           *solidity.Array[thor.Address]
	defaultFeeRecipient *solidity.Address
	configured          *solidity.Bool
}

func New(addr thor.Address, st *state.State, host bounty.Host) *Factory {
	sctx := solidity.NewContext(addr, st)
	return &Factory{
		addr:                addr,
		state:               st,
		host:                host,
		instances:           solidity.NewArray[thor.Address](sctx, slotInstances),
		defaultFeeRecipient: solidity.NewAddress(sctx, slotDefaultFeeRecipient),
		configured:          solidity.NewBool(sctx, slotConfigured),
	}
}

func (f *Factory) Address() thor.Address {
	return f.addr
}

// Instantiate creates and initializes a bounty, crediting value to the issuer's stake.
func (f *Factory) Instantiate(issuer, feeRecipient thor.Address, metadataRef string, joinable bool, value *big.Int) (thor.Address, error) {
	nonce, err := f.instances.Len()
	if err != nil {
		return thor.Address{}, err
	}
	addr := thor.CreateInstanceAddress(f.addr, issuer, nonce)

	checkpoint := f.state.NewCheckpoint()
	if value != nil && value.Sign() > 0 {
		if err := f.state.Transfer(f.addr, addr, value); err != nil {
			f.state.RevertTo(checkpoint)
			return thor.Address{}, errors.Wrap(err, "forward value")
		}
	}
	if err := bounty.New(addr, f.state, f.host).Initialize(issuer, feeRecipient, metadataRef, joinable, value); err != nil {
		f.state.RevertTo(checkpoint)
		return thor.Address{}, err
	}
	if _, err := f.instances.Push(addr); err != nil {
		f.state.RevertTo(checkpoint)
		return thor.Address{}, err
	}
	logger.Debug("bounty instantiated", "address", addr, "issuer", issuer, "joinable", joinable, "nonce", nonce)
	return addr, nil
}

// Count returns the number of instances created.
func (f *Factory) Count() (uint64, error) {
	return f.instances.Len()
}

// List returns up to limit instance addresses in creation order, starting at offset.
func (f *Factory) List(offset, limit uint64) ([]thor.Address, error) {
	count, err := f.instances.Len()
	if err != nil {
		return nil, err
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset >= count {
		return []thor.Address{}, nil
	}
	end := count
	if offset+limit < count {
		end = offset + limit
	}
	list := make([]thor.Address, 0, end-offset)
	for i := offset; i < end; i++ {
		addr, err := f.instances.Get(i)
		if err != nil {
			return nil, err
		}
		list = append(list, addr)
	}
	return list, nil
}

func (f *Factory) DefaultFeeRecipient() (thor.Address, error) {
	return f.defaultFeeRecipient.Get()
}

// Configure sets the default fee recipient. It takes effect only once, at genesis.
func (f *Factory) Configure(defaultFeeRecipient thor.Address) (bool, error) {
	done, err := f.configured.Get()
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}
	f.configured.Set(true)
	f.defaultFeeRecipient.Set(defaultFeeRecipient)
	return true, nil
}

// Configured reports whether genesis configuration was applied.
func (f *Factory) Configured() (bool, error) {
	return f.configured.Get()
}
