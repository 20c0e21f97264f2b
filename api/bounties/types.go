// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounties

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/bounty/api/utils"
	"github.com/vechain/bounty/builtin/bounty"
	"github.com/vechain/bounty/builtin/bounty/claims"
	"github.com/vechain/bounty/builtin/bounty/voting"
	"github.com/vechain/bounty/thor"
)

// CreateRequest instantiates a bounty. FeeRecipient defaults to the one configured at genesis.
type CreateRequest struct {
	Caller       *thor.Address         `json:"caller"`
	FeeRecipient *thor.Address         `json:"feeRecipient,omitempty"`
	MetadataRef  string                `json:"metadataRef"`
	Joinable     bool                  `json:"joinable"`
	Value        *math.HexOrDecimal256 `json:"value,omitempty"`
}

// CallRequest is the body of operations which take no argument.
type CallRequest struct {
	Caller *thor.Address `json:"caller"`
}

type DepositRequest struct {
	Caller *thor.Address         `json:"caller"`
	Value  *math.HexOrDecimal256 `json:"value"`
}

type RefundRequest struct {
	Caller  *thor.Address `json:"caller"`
	Account *thor.Address `json:"account"`
}

type SubmitRequest struct {
	Caller   *thor.Address `json:"caller"`
	Title    string        `json:"title"`
	ProofRef string        `json:"proofRef"`
}

type NominateRequest struct {
	Caller *thor.Address `json:"caller"`
	Index  *uint64       `json:"index"`
}

type VoteRequest struct {
	Caller  *thor.Address `json:"caller"`
	Support *bool         `json:"support"`
}

// Created is the response to an instantiation.
type Created struct {
	Address thor.Address `json:"address"`
	*utils.Receipt
}

// Submitted is the response to a claim submission.
type Submitted struct {
	Index uint64 `json:"index"`
	*utils.Receipt
}

type Registry struct {
	Count     uint64         `json:"count"`
	Addresses []thor.Address `json:"addresses"`
}

type Round struct {
	Number         uint64                `json:"number"`
	NominatedClaim uint64                `json:"nominatedClaim"`
	YesWeight      *math.HexOrDecimal256 `json:"yesWeight"`
	NoWeight       *math.HexOrDecimal256 `json:"noWeight"`
	Deadline       uint64                `json:"deadline"`
}

func convertRound(r *voting.Round) *Round {
	return &Round{
		Number:         r.Number,
		NominatedClaim: r.NominatedClaim,
		YesWeight:      (*math.HexOrDecimal256)(r.YesWeight),
		NoWeight:       (*math.HexOrDecimal256)(r.NoWeight),
		Deadline:       r.Deadline,
	}
}

type Bounty struct {
	Address      thor.Address          `json:"address"`
	Status       bounty.Status         `json:"status"`
	Issuer       thor.Address          `json:"issuer"`
	FeeRecipient thor.Address          `json:"feeRecipient"`
	MetadataRef  string                `json:"metadataRef"`
	Joinable     bool                  `json:"joinable"`
	TotalStaked  *math.HexOrDecimal256 `json:"totalStaked"`
	ClaimCount   uint64                `json:"claimCount"`
	Round        *Round                `json:"round"`
}

func convertSummary(s *bounty.Summary) *Bounty {
	return &Bounty{
		Address:      s.Address,
		Status:       s.Status,
		Issuer:       s.Issuer,
		FeeRecipient: s.FeeRecipient,
		MetadataRef:  s.MetadataRef,
		Joinable:     s.Joinable,
		TotalStaked:  (*math.HexOrDecimal256)(s.TotalStaked),
		ClaimCount:   s.ClaimCount,
		Round:        convertRound(s.Round),
	}
}

type Claim struct {
	Index    uint64       `json:"index"`
	Claimant thor.Address `json:"claimant"`
	Title    string       `json:"title"`
	ProofRef string       `json:"proofRef"`
}

func convertClaim(index uint64, c *claims.Claim) *Claim {
	return &Claim{
		Index:    index,
		Claimant: c.Claimant,
		Title:    c.Title,
		ProofRef: c.ProofRef,
	}
}

type Stake struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Vote struct {
	Voted bool `json:"voted"`
}
