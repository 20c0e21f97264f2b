// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/bounty/thor"
)

var (
	ErrOverflow  = errors.New("uint256 overflow")
	ErrUnderflow = errors.New("uint256 underflow")
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// Arithmetic is checked, a result outside [0, 2^256) is rejected and storage is left untouched.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) error {
	v, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 {
		return ErrOverflow
	}
	u.context.state.SetStorage(u.context.address, u.pos, v.Bytes32())
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	cur, delta, err := u.operands(value)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(cur, delta)
	if overflow {
		return ErrOverflow
	}
	u.context.state.SetStorage(u.context.address, u.pos, sum.Bytes32())
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	cur, delta, err := u.operands(value)
	if err != nil {
		return err
	}
	diff, underflow := new(uint256.Int).SubOverflow(cur, delta)
	if underflow {
		return ErrUnderflow
	}
	u.context.state.SetStorage(u.context.address, u.pos, diff.Bytes32())
	return nil
}

func (u *Uint256) operands(value *big.Int) (*uint256.Int, *uint256.Int, error) {
	delta, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 {
		return nil, nil, ErrOverflow
	}
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, nil, err
	}
	return new(uint256.Int).SetBytes32(storage.Bytes()), delta, nil
}
