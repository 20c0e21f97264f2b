// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/bounty/api/utils"
	"github.com/vechain/bounty/co"
	"github.com/vechain/bounty/log"
)

const healthCheckTimeout = 2 * time.Second

// Indexer reports the last sequence written to the event index.
type Indexer interface {
	LastSeq(ctx context.Context) (uint64, error)
}

type Admin struct {
	logLevel    *slog.LevelVar
	logRequests *atomic.Bool
	indexer     Indexer
	started     time.Time
}

func New(logLevel *slog.LevelVar, logRequests *atomic.Bool, indexer Indexer) *Admin {
	return &Admin{
		logLevel:    logLevel,
		logRequests: logRequests,
		indexer:     indexer,
		started:     time.Now(),
	}
}

// Handler returns the admin router.
func (a *Admin) Handler() http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.getLogLevelHandler))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.postLogLevelHandler))

	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("get-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.getRequestLoggerEnabled))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("post-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.postRequestLogger))

	sub.Path("/health").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(a.getHealth))

	return handlers.CompressHandler(router)
}

// Start serves the admin API at addr.
func (a *Admin) Start(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	server := &http.Server{Handler: a.Handler(), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func(context.Context) error {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	goes.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return server.Close()
	})
	return "http://" + listener.Addr().String() + "/admin", func() { goes.Stop() }, nil
}

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

func (a *Admin) getLogLevelHandler(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, logLevelResponse{
		CurrentLevel: ethlog.LevelString(a.logLevel.Level()),
	})
}

func (a *Admin) postLogLevelHandler(w http.ResponseWriter, r *http.Request) error {
	var req logLevelRequest
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "invalid request body"))
	}

	switch req.Level {
	case "trace":
		a.logLevel.Set(ethlog.LevelTrace)
	case "debug":
		a.logLevel.Set(slog.LevelDebug)
	case "info":
		a.logLevel.Set(slog.LevelInfo)
	case "warn":
		a.logLevel.Set(slog.LevelWarn)
	case "error":
		a.logLevel.Set(slog.LevelError)
	case "crit":
		a.logLevel.Set(ethlog.LevelCrit)
	default:
		return utils.BadRequest(fmt.Errorf("invalid verbosity level: %s", req.Level))
	}

	log.Warn("admin changed the log level", "level", ethlog.LevelString(a.logLevel.Level()))

	return utils.WriteJSON(w, logLevelResponse{
		CurrentLevel: ethlog.LevelString(a.logLevel.Level()),
	})
}

type apiLogRequests struct {
	Enabled *bool `json:"enabled"`
}

func (a *Admin) getRequestLoggerEnabled(w http.ResponseWriter, _ *http.Request) error {
	enabled := a.logRequests.Load()
	return utils.WriteJSON(w, apiLogRequests{Enabled: &enabled})
}

func (a *Admin) postRequestLogger(w http.ResponseWriter, r *http.Request) error {
	var req apiLogRequests
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "invalid request body"))
	}
	if req.Enabled == nil {
		return utils.BadRequest(errors.New("missing 'enabled' field"))
	}

	log.Warn("admin changed the request logger", "enabled", *req.Enabled)
	a.logRequests.Store(*req.Enabled)

	return utils.WriteJSON(w, req)
}

type healthStatus struct {
	Healthy   bool    `json:"healthy"`
	Uptime    string  `json:"uptime"`
	LastEvent *uint64 `json:"lastEvent"`
	Error     string  `json:"error,omitempty"`
}

// getHealth reports unhealthy while the event index cannot be read.
func (a *Admin) getHealth(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := healthStatus{
		Healthy: true,
		Uptime:  time.Since(a.started).Truncate(time.Second).String(),
	}
	if seq, err := a.indexer.LastSeq(ctx); err != nil {
		status.Healthy = false
		status.Error = err.Error()
	} else {
		status.LastEvent = &seq
	}

	if !status.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}
