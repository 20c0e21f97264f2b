// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/thor"
)

// EventMessage is pushed to subscribers for every matching event.
type EventMessage struct {
	Seq     uint64          `json:"seq"`
	TxID    thor.Bytes32    `json:"txID"`
	Time    uint64          `json:"time"`
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
}

func convertEvent(e *eventdb.Event) *EventMessage {
	return &EventMessage{
		Seq:     e.Seq,
		TxID:    e.TxID,
		Time:    e.Time,
		Address: e.Address,
		Name:    e.Name,
		Data:    e.Data,
	}
}
