// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"encoding/json"

	"github.com/vechain/bounty/thor"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Event is a persisted bounty event. Data is the json encoded event body.
type Event struct {
	Seq     uint64
	TxID    thor.Bytes32
	Time    uint64
	Address thor.Address
	Name    string
	Data    json.RawMessage
}

// Range selects events by sequence number, both ends inclusive. To = 0 means unbounded.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Nil fields match everything.
type EventFilter struct {
	Address *thor.Address
	Name    string
	Range   *Range
	Options *Options
	Order   Order // default asc
}
