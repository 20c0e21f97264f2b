// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/bounty/api/utils"
	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/log"
	"github.com/vechain/bounty/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

// Committer announces committed transactions.
type Committer interface {
	Committed() <-chan struct{}
}

type Subscriptions struct {
	committer      Committer
	db             *eventdb.EventDB
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
	closeOnce      sync.Once
}

func New(committer Committer, db *eventdb.EventDB, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		committer:      committer,
		db:             db,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parsePosition returns the sequence number after which events are pushed.
// By default only events committed after subscribing are pushed.
func (s *Subscriptions) parsePosition(ctx context.Context, pos string) (uint64, error) {
	last, err := s.db.LastSeq(ctx)
	if err != nil {
		return 0, err
	}
	if pos == "" {
		return last, nil
	}
	n, err := utils.StringToUint64(pos, 0)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if n > last {
		return 0, utils.BadRequest(errors.New("pos: beyond the latest event"))
	}
	if last-n > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return n, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	var address *thor.Address
	if str := query.Get("address"); str != "" {
		addr, err := thor.ParseAddress(str)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "address"))
		}
		address = &addr
	}
	pos, err := s.parsePosition(req.Context(), query.Get("pos"))
	if err != nil {
		return err
	}

	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	reader := newEventReader(s.db, pos, address, query.Get("name"))
	if err := s.pipe(req.Context(), conn, reader); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

// pipe pushes events read by reader until the peer goes away or the subscriptions close.
func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader) error {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		// obtained before reading, a commit in between is not missed
		committed := s.committer.Committed()
		msgs, more, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if more {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-committed:
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close ends all subscriptions and waits for their handlers to return.
// Hijacked connections are not tracked by the http server.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS " + pathPrefix + "/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
