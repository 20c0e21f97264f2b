// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vechain/bounty/runtime"
	"github.com/vechain/bounty/thor"
)

// Event is an event emitted by a committed transaction. Data has the same
// encoding as the data of events served by the event index.
type Event struct {
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
}

// Receipt is the response to a state changing request.
type Receipt struct {
	TxID   thor.Bytes32 `json:"txID"`
	Time   uint64       `json:"time"`
	Events []*Event     `json:"events"`
}

// ConvertReceipt converts a runtime receipt.
func ConvertReceipt(r *runtime.Receipt) (*Receipt, error) {
	events := make([]*Event, 0, len(r.Logs))
	for _, l := range r.Logs {
		data, err := json.Marshal(l.Event)
		if err != nil {
			return nil, errors.Wrapf(err, "encode event %v", l.Event.EventName())
		}
		events = append(events, &Event{
			Address: l.Address,
			Name:    l.Event.EventName(),
			Data:    data,
		})
	}
	return &Receipt{
		TxID:   r.TxID,
		Time:   r.Time,
		Events: events,
	}, nil
}
