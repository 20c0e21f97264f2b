// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(KindState, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, KindState, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_KindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{ErrOnlyIssuer, KindAuthorization},
		{ErrIssuerCannotVote, KindAuthorization},
		{ErrNotOpen, KindState},
		{ErrReentrantCall, KindState},
		{ErrZeroAmount, KindValidation},
		{ErrAlreadyVoted, KindValidation},
		{ErrVotingEnded, KindTiming},
		{ErrVotingNotEnded, KindTiming},
		{ErrTransferFailed, KindTransfer},
		{errors.WithMessage(ErrTransferFailed, "fee"), KindTransfer},
		{errors.New("disk full"), KindUnknown},
		{nil, KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.err), "%v", tt.err)
	}
}

func Test_Sentinels(t *testing.T) {
	wrapped := errors.Wrap(ErrNoBalance, "withdraw")
	assert.ErrorIs(t, wrapped, ErrNoBalance)
	assert.NotErrorIs(t, wrapped, ErrNoStake)
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
