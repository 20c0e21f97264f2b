// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"fmt"
	"math/big"

	"github.com/vechain/bounty/builtin/bounty/claims"
	"github.com/vechain/bounty/builtin/bounty/voting"
	"github.com/vechain/bounty/thor"
)

// Status is the lifecycle state of a bounty.
type Status uint8

const (
	StatusOpen Status = iota
	StatusVoting
	StatusClosed
	StatusCancelled
)

var statusNames = [...]string{"open", "voting", "closed", "cancelled"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// Summary aggregates the readable fields of a bounty.
type Summary struct {
	Address      thor.Address
	Status       Status
	Issuer       thor.Address
	FeeRecipient thor.Address
	MetadataRef  string
	Joinable     bool
	TotalStaked  *big.Int
	ClaimCount   uint64
	Round        *voting.Round
}

// Initialized reports whether an instance lives at the address.
func (b *Bounty) Initialized() (bool, error) {
	return b.initialized.Get()
}

func (b *Bounty) State() (Status, error) {
	v, err := b.status.Get()
	if err != nil {
		return 0, err
	}
	return Status(v), nil
}

func (b *Bounty) Issuer() (thor.Address, error) {
	return b.issuer.Get()
}

// FeeRecipient returns the fee recipient, the zero address when fees are disabled.
func (b *Bounty) FeeRecipient() (thor.Address, error) {
	return b.feeRecipient.Get()
}

func (b *Bounty) MetadataRef() (string, error) {
	return b.metadataRef.Get()
}

func (b *Bounty) Joinable() (bool, error) {
	return b.joinable.Get()
}

func (b *Bounty) BalanceOf(account thor.Address) (*big.Int, error) {
	return b.stakes.Balance(account)
}

func (b *Bounty) TotalStaked() (*big.Int, error) {
	return b.stakes.Total()
}

func (b *Bounty) ClaimCount() (uint64, error) {
	return b.claims.Count()
}

func (b *Bounty) ClaimAt(index uint64) (*claims.Claim, error) {
	return b.claims.Get(index)
}

func (b *Bounty) CurrentRound() (*voting.Round, error) {
	return b.voting.Current()
}

func (b *Bounty) HasVoted(account thor.Address, round uint64) (bool, error) {
	return b.voting.HasVoted(account, round)
}

func (b *Bounty) Summary() (*Summary, error) {
	var (
		sum = &Summary{Address: b.addr}
		err error
	)
	if sum.Status, err = b.State(); err != nil {
		return nil, err
	}
	if sum.Issuer, err = b.Issuer(); err != nil {
		return nil, err
	}
	if sum.FeeRecipient, err = b.FeeRecipient(); err != nil {
		return nil, err
	}
	if sum.MetadataRef, err = b.MetadataRef(); err != nil {
		return nil, err
	}
	if sum.Joinable, err = b.Joinable(); err != nil {
		return nil, err
	}
	if sum.TotalStaked, err = b.TotalStaked(); err != nil {
		return nil, err
	}
	if sum.ClaimCount, err = b.ClaimCount(); err != nil {
		return nil, err
	}
	if sum.Round, err = b.CurrentRound(); err != nil {
		return nil, err
	}
	return sum, nil
}
