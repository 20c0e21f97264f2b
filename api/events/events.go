// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/bounty/api/utils"
	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/thor"
)

var (
	errInvalidOrder  = errors.New("order: must be asc or desc")
	errInvalidRange  = errors.New("range: to is before from")
	errLimitExceeded = errors.New("options: limit exceeds the maximum allowed value")
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) filter(w http.ResponseWriter, req *http.Request, filter *EventFilter) error {
	f, err := convertFilter(filter, e.limit)
	if err != nil {
		return utils.BadRequest(err)
	}
	events, err := e.db.FilterEvents(req.Context(), f)
	if err != nil {
		return err
	}
	res := make([]*Event, 0, len(events))
	for _, ev := range events {
		res = append(res, convertEvent(ev))
	}
	return utils.WriteJSON(w, res)
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.filter(w, req, &filter)
}

// handleBountyEvents serves events of one bounty, filtered by query parameters.
func (e *Events) handleBountyEvents(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	query := req.URL.Query()
	filter := EventFilter{
		Address: &addr,
		Name:    query.Get("name"),
		Order:   eventdb.Order(query.Get("order")),
		Options: &Options{},
	}
	if filter.Options.Offset, err = utils.StringToUint64(query.Get("offset"), 0); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if s := query.Get("limit"); s != "" {
		limit, err := utils.StringToUint64(s, 0)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "limit"))
		}
		filter.Options.Limit = &limit
	}
	if from := query.Get("from"); from != "" {
		n, err := utils.StringToUint64(from, 0)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "from"))
		}
		filter.Range = &Range{From: &n}
	}
	if to := query.Get("to"); to != "" {
		n, err := utils.StringToUint64(to, 0)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "to"))
		}
		if filter.Range == nil {
			filter.Range = &Range{}
		}
		filter.Range.To = &n
	}
	return e.filter(w, req, &filter)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	root.PathPrefix(pathPrefix).Subrouter().
		Path("").
		Methods(http.MethodPost).
		Name("POST " + pathPrefix).
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	root.Path("/bounties/{address}/events").
		Methods(http.MethodGet).
		Name("GET /bounties/{address}/events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleBountyEvents))
}
