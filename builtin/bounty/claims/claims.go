// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"errors"

	"github.com/vechain/bounty/builtin/bounty/reverts"
	"github.com/vechain/bounty/builtin/solidity"
	"github.com/vechain/bounty/thor"
)

var slotClaims = thor.BytesToBytes32([]byte("claims"))

// Claim is a submitted candidate solution. Title and ProofRef are opaque.
type Claim struct {
	Claimant thor.Address
	Title    string
	ProofRef string
}

// Service is the append-only claim registry of one bounty instance.
type Service struct {
	claims *solidity.Array[*Claim]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		claims: solidity.NewArray[*Claim](sctx, slotClaims),
	}
}

// Submit appends a claim and returns its index.
func (s *Service) Submit(claimant thor.Address, title, proofRef string) (uint64, error) {
	return s.claims.Push(&Claim{
		Claimant: claimant,
		Title:    title,
		ProofRef: proofRef,
	})
}

func (s *Service) Get(index uint64) (*Claim, error) {
	c, err := s.claims.Get(index)
	if err != nil {
		if errors.Is(err, solidity.ErrIndexOutOfRange) {
			return nil, reverts.ErrInvalidIndex
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Count() (uint64, error) {
	return s.claims.Len()
}
