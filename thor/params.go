// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Constants of bounty protocol. They are fixed at build time and shared by all instances.
const (
	// VotingWindow is the length of a ratification round in seconds.
	VotingWindow uint64 = 2 * 24 * 60 * 60

	FeeRateNumerator   uint64 = 25
	FeeRateDenominator uint64 = 1000
)

// Unit is the amount of one whole token in base units.
var Unit = big.NewInt(1e18)

// Units returns n whole tokens in base units.
func Units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Unit)
}
