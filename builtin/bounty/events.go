// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"math/big"

	"github.com/vechain/bounty/thor"
)

// Event is emitted by a bounty when an operation succeeds.
type Event interface {
	EventName() string
}

type Created struct {
	Issuer       thor.Address `json:"issuer"`
	FeeRecipient thor.Address `json:"feeRecipient"`
	MetadataRef  string       `json:"metadataRef"`
	Joinable     bool         `json:"joinable"`
	Amount       *big.Int     `json:"amount"`
}

type Deposited struct {
	Account thor.Address `json:"account"`
	Amount  *big.Int     `json:"amount"`
}

type Withdrawn struct {
	Account thor.Address `json:"account"`
	Amount  *big.Int     `json:"amount"`
}

type ClaimSubmitted struct {
	Index    uint64       `json:"index"`
	Claimant thor.Address `json:"claimant"`
	Title    string       `json:"title"`
	ProofRef string       `json:"proofRef"`
}

type Nominated struct {
	Index    uint64 `json:"index"`
	Round    uint64 `json:"round"`
	Deadline uint64 `json:"deadline"`
}

type VoteCast struct {
	Voter   thor.Address `json:"voter"`
	Support bool         `json:"support"`
	Weight  *big.Int     `json:"weight"`
	Round   uint64       `json:"round"`
}

type Resolved struct {
	Passed bool   `json:"passed"`
	Round  uint64 `json:"round"`
}

type PaidOut struct {
	Claimant     thor.Address `json:"claimant"`
	Reward       *big.Int     `json:"reward"`
	FeeRecipient thor.Address `json:"feeRecipient"`
	Fee          *big.Int     `json:"fee"`
}

type Cancelled struct {
	Issuer thor.Address `json:"issuer"`
}

type Refunded struct {
	Account thor.Address `json:"account"`
	Caller  thor.Address `json:"caller"`
	Amount  *big.Int     `json:"amount"`
}

func (*Created) EventName() string        { return "Created" }
func (*Deposited) EventName() string      { return "Deposited" }
func (*Withdrawn) EventName() string      { return "Withdrawn" }
func (*ClaimSubmitted) EventName() string { return "ClaimSubmitted" }
func (*Nominated) EventName() string      { return "Nominated" }
func (*VoteCast) EventName() string       { return "VoteCast" }
func (*Resolved) EventName() string       { return "Resolved" }
func (*PaidOut) EventName() string        { return "PaidOut" }
func (*Cancelled) EventName() string      { return "Cancelled" }
func (*Refunded) EventName() string       { return "Refunded" }
