// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAuthorization
	KindState
	KindValidation
	KindTiming
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindValidation:
		return "validation"
	case KindTiming:
		return "timing"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

type ErrRevert struct {
	message string
	kind    Kind
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		message: message,
		kind:    kind,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, KindUnknown if none.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return KindUnknown
}

var (
	ErrOnlyIssuer           = New(KindAuthorization, "only issuer")
	ErrIssuerCannotWithdraw = New(KindAuthorization, "issuer cannot withdraw")
	ErrIssuerCannotVote     = New(KindAuthorization, "issuer cannot vote")

	ErrAlreadyInitialized = New(KindState, "already initialized")
	ErrNotInitialized     = New(KindState, "not initialized")
	ErrNotOpen            = New(KindState, "bounty not open")
	ErrNotJoinable        = New(KindState, "bounty not joinable")
	ErrLockedDuringVoting = New(KindState, "stake locked during voting")
	ErrNotCancelled       = New(KindState, "bounty not cancelled")
	ErrNotVoting          = New(KindState, "bounty not voting")
	ErrReentrantCall      = New(KindState, "reentrant call")

	ErrZeroAmount     = New(KindValidation, "zero amount")
	ErrAmountOverflow = New(KindValidation, "amount overflow")
	ErrNoBalance      = New(KindValidation, "no balance")
	ErrInvalidIndex   = New(KindValidation, "invalid claim index")
	ErrAlreadyVoted   = New(KindValidation, "already voted")
	ErrNoStake        = New(KindValidation, "no stake")

	ErrVotingEnded    = New(KindTiming, "voting ended")
	ErrVotingNotEnded = New(KindTiming, "voting not ended")

	ErrTransferFailed = New(KindTransfer, "transfer failed")
)
