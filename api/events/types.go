// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"

	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/thor"
)

type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64  `json:"offset"`
	Limit  *uint64 `json:"limit,omitempty"`
}

// EventFilter is the body of an event query. Absent fields match everything.
type EventFilter struct {
	Address *thor.Address `json:"address,omitempty"`
	Name    string        `json:"name,omitempty"`
	Range   *Range        `json:"range,omitempty"`
	Options *Options      `json:"options,omitempty"`
	Order   eventdb.Order `json:"order,omitempty"`
}

// Event is an indexed event.
type Event struct {
	Seq     uint64          `json:"seq"`
	TxID    thor.Bytes32    `json:"txID"`
	Time    uint64          `json:"time"`
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
}

func convertEvent(e *eventdb.Event) *Event {
	return &Event{
		Seq:     e.Seq,
		TxID:    e.TxID,
		Time:    e.Time,
		Address: e.Address,
		Name:    e.Name,
		Data:    e.Data,
	}
}

// convertFilter validates a query and caps its page at limit.
func convertFilter(filter *EventFilter, limit uint64) (*eventdb.EventFilter, error) {
	f := &eventdb.EventFilter{
		Address: filter.Address,
		Name:    filter.Name,
		Order:   filter.Order,
		Options: &eventdb.Options{Limit: limit},
	}
	switch filter.Order {
	case "", eventdb.ASC, eventdb.DESC:
	default:
		return nil, errInvalidOrder
	}
	if filter.Range != nil {
		f.Range = &eventdb.Range{}
		if filter.Range.From != nil {
			f.Range.From = *filter.Range.From
		}
		if filter.Range.To != nil {
			if *filter.Range.To < f.Range.From {
				return nil, errInvalidRange
			}
			f.Range.To = *filter.Range.To
		}
	}
	if filter.Options != nil {
		f.Options.Offset = filter.Options.Offset
		if filter.Options.Limit != nil {
			if *filter.Options.Limit > limit {
				return nil, errLimitExceeded
			}
			f.Options.Limit = *filter.Options.Limit
		}
	}
	return f, nil
}
