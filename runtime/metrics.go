// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/bounty/metrics"
)

var (
	metricTxCount    = metrics.LazyLoadCounterVec("tx_count", []string{"outcome"})
	metricTxDuration = metrics.LazyLoadHistogram("tx_duration_ms", metrics.BucketHTTPReqs)
)
