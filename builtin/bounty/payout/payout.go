// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package payout

import (
	"math/big"

	"github.com/vechain/bounty/thor"
)

var (
	feeNumerator   = new(big.Int).SetUint64(thor.FeeRateNumerator)
	feeDenominator = new(big.Int).SetUint64(thor.FeeRateDenominator)
)

// Split divides amount into the protocol fee and the claimant reward.
// The fee truncates toward zero and is zero when no fee recipient is set.
func Split(amount *big.Int, hasFeeRecipient bool) (fee, reward *big.Int) {
	fee = new(big.Int)
	if hasFeeRecipient {
		fee.Mul(amount, feeNumerator)
		fee.Quo(fee, feeDenominator)
	}
	reward = new(big.Int).Sub(amount, fee)
	return fee, reward
}
