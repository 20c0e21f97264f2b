// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voting

import (
	"encoding/binary"
	"errors"
	"math"
	"math/big"

	"github.com/vechain/bounty/builtin/bounty/reverts"
	"github.com/vechain/bounty/builtin/solidity"
	"github.com/vechain/bounty/thor"
)

var (
	slotNominated = thor.BytesToBytes32([]byte("nominated-claim"))
	slotYesWeight = thor.BytesToBytes32([]byte("yes-weight"))
	slotNoWeight  = thor.BytesToBytes32([]byte("no-weight"))
	slotDeadline  = thor.BytesToBytes32([]byte("voting-deadline"))
	slotRound     = thor.BytesToBytes32([]byte("round-number"))
	slotHasVoted  = thor.BytesToBytes32([]byte("has-voted"))
)

// Round is a snapshot of the active voting round.
type Round struct {
	NominatedClaim uint64
	YesWeight      *big.Int
	NoWeight       *big.Int
	Deadline       uint64
	Number         uint64
}

// voteKey identifies participation of an account in one round.
type voteKey struct {
	account thor.Address
	round   uint64
}

func (k voteKey) Bytes() []byte {
	b := make([]byte, 0, thor.AddressLength+8)
	b = append(b, k.account.Bytes()...)
	return binary.BigEndian.AppendUint64(b, k.round)
}

// Service tracks the voting round of one bounty instance.
// Votes are keyed by (account, round), advancing the round invalidates them without clearing.
type Service struct {
	nominated *solidity.Uint64
	yes       *solidity.Uint256
	no        *solidity.Uint256
	deadline  *solidity.Uint64
	round     *solidity.Uint64
	hasVoted  *solidity.Mapping[voteKey, bool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		nominated: solidity.NewUint64(sctx, slotNominated),
		yes:       solidity.NewUint256(sctx, slotYesWeight),
		no:        solidity.NewUint256(sctx, slotNoWeight),
		deadline:  solidity.NewUint64(sctx, slotDeadline),
		round:     solidity.NewUint64(sctx, slotRound),
		hasVoted:  solidity.NewMapping[voteKey, bool](sctx, slotHasVoted),
	}
}

// Init sets the first round number. Called once at instance creation.
func (s *Service) Init() {
	s.round.Set(1)
}

// Open starts the round for claimIndex with a deadline one voting window after now.
func (s *Service) Open(claimIndex uint64, now uint64) error {
	if err := s.resetWeights(); err != nil {
		return err
	}
	s.nominated.Set(claimIndex)

	deadline := uint64(math.MaxUint64)
	if now <= math.MaxUint64-thor.VotingWindow {
		deadline = now + thor.VotingWindow
	}
	s.deadline.Set(deadline)
	return nil
}

// Cast records the vote of account in the current round.
func (s *Service) Cast(account thor.Address, support bool, weight *big.Int) error {
	round, err := s.round.Get()
	if err != nil {
		return err
	}
	key := voteKey{account, round}
	voted, err := s.hasVoted.Get(key)
	if err != nil {
		return err
	}
	if voted {
		return reverts.ErrAlreadyVoted
	}
	if err := s.hasVoted.Set(key, true); err != nil {
		return err
	}

	acc := s.no
	if support {
		acc = s.yes
	}
	if err := acc.Add(weight); err != nil {
		if errors.Is(err, solidity.ErrOverflow) {
			return reverts.ErrAmountOverflow
		}
		return err
	}
	return nil
}

// Advance moves to the next round after a failed ratification.
func (s *Service) Advance() error {
	round, err := s.round.Get()
	if err != nil {
		return err
	}
	s.round.Set(round + 1)
	return s.resetWeights()
}

func (s *Service) Current() (*Round, error) {
	nominated, err := s.nominated.Get()
	if err != nil {
		return nil, err
	}
	yes, err := s.yes.Get()
	if err != nil {
		return nil, err
	}
	no, err := s.no.Get()
	if err != nil {
		return nil, err
	}
	deadline, err := s.deadline.Get()
	if err != nil {
		return nil, err
	}
	number, err := s.round.Get()
	if err != nil {
		return nil, err
	}
	return &Round{
		NominatedClaim: nominated,
		YesWeight:      yes,
		NoWeight:       no,
		Deadline:       deadline,
		Number:         number,
	}, nil
}

func (s *Service) HasVoted(account thor.Address, round uint64) (bool, error) {
	return s.hasVoted.Get(voteKey{account, round})
}

// Passed reports whether the nomination is ratified. Ties and zero turnout pass.
func (r *Round) Passed() bool {
	return r.YesWeight.Cmp(r.NoWeight) >= 0
}

// Concluded reports whether the round may be resolved, either by full turnout or by deadline.
func (r *Round) Concluded(total *big.Int, now uint64) bool {
	if now >= r.Deadline {
		return true
	}
	turnout := new(big.Int).Add(r.YesWeight, r.NoWeight)
	return turnout.Cmp(total) == 0
}

func (s *Service) resetWeights() error {
	if err := s.yes.Set(new(big.Int)); err != nil {
		return err
	}
	return s.no.Set(new(big.Int))
}
