// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"errors"
	"math/big"

	"github.com/vechain/bounty/builtin/bounty/reverts"
	"github.com/vechain/bounty/builtin/solidity"
	"github.com/vechain/bounty/thor"
)

var (
	slotBalances    = thor.BytesToBytes32([]byte("stake-balances"))
	slotTotalStaked = thor.BytesToBytes32([]byte("total-staked"))
)

// Service is the stake ledger of one bounty instance.
// The sum of all balances equals the total until the pool is swept.
type Service struct {
	balances *solidity.Mapping[thor.Address, *big.Int]
	total    *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		balances: solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		total:    solidity.NewUint256(sctx, slotTotalStaked),
	}
}

// Balance returns the stake of account, zero if none.
func (s *Service) Balance(account thor.Address) (*big.Int, error) {
	bal, err := s.balances.Get(account)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

func (s *Service) Total() (*big.Int, error) {
	return s.total.Get()
}

// Add credits amount to account.
func (s *Service) Add(account thor.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrZeroAmount
	}
	// balance <= total, so a total that fits means the balance fits too
	if err := s.total.Add(amount); err != nil {
		if errors.Is(err, solidity.ErrOverflow) {
			return reverts.ErrAmountOverflow
		}
		return err
	}
	bal, err := s.Balance(account)
	if err != nil {
		return err
	}
	return s.balances.Set(account, bal.Add(bal, amount))
}

// Remove zeroes the stake of account and returns the removed amount.
func (s *Service) Remove(account thor.Address) (*big.Int, error) {
	bal, err := s.Balance(account)
	if err != nil {
		return nil, err
	}
	if bal.Sign() == 0 {
		return nil, reverts.ErrNoBalance
	}
	s.balances.Delete(account)
	if err := s.total.Sub(bal); err != nil {
		return nil, err
	}
	return bal, nil
}

// Sweep zeroes the total and returns what it held. Per-account entries are kept as record.
func (s *Service) Sweep() (*big.Int, error) {
	amount, err := s.total.Get()
	if err != nil {
		return nil, err
	}
	if err := s.total.Set(new(big.Int)); err != nil {
		return nil, err
	}
	return amount, nil
}
