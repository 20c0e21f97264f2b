// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"math/big"

	"github.com/vechain/bounty/builtin/bounty/reverts"
	"github.com/vechain/bounty/metrics"
	"github.com/vechain/bounty/thor"
)

var (
	metricOperations = metrics.LazyLoadCounterVec("operations_count", []string{"op", "outcome"})
	metricBounties   = metrics.LazyLoadGaugeVec("bounties_by_state", []string{"state"})
	metricPayouts    = metrics.LazyLoadHistogram("payout_units", metrics.BucketUnits)
)

func recordOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "fault"
		if kind := reverts.KindOf(err); kind != reverts.KindUnknown {
			outcome = kind.String()
		}
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
}

// Transition returns the state change ev records. ok is false for events
// which leave the state as it is. from is nil for a new bounty.
func Transition(ev Event) (from *Status, to Status, ok bool) {
	open, voting := StatusOpen, StatusVoting
	switch ev := ev.(type) {
	case *Created:
		return nil, StatusOpen, true
	case *Nominated:
		return &open, StatusVoting, true
	case *Resolved:
		if ev.Passed {
			return &voting, StatusClosed, true
		}
		return &voting, StatusOpen, true
	case *Cancelled:
		return &open, StatusCancelled, true
	}
	return nil, 0, false
}

// RecordCommitted updates the state gauge and payout histogram from the
// events of a committed transaction. Events of reverted calls never reach it.
func RecordCommitted(events []Event) {
	for _, ev := range events {
		if from, to, ok := Transition(ev); ok {
			if from != nil {
				metricBounties().AddWithLabel(-1, map[string]string{"state": from.String()})
			}
			metricBounties().AddWithLabel(1, map[string]string{"state": to.String()})
		}
		if p, ok := ev.(*PaidOut); ok {
			amount := new(big.Int).Add(p.Reward, p.Fee)
			metricPayouts().Observe(new(big.Int).Quo(amount, thor.Unit).Int64())
		}
	}
}
