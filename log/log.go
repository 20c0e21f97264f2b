// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the leveled, structured loggers used across the node.
// It is built on go-ethereum's slog based logger. Package level loggers created
// with WithContext keep following the root handler, so they can be declared as
// package variables before the command line configures output.
package log

import (
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger is the logger interface shared with go-ethereum.
type Logger = ethlog.Logger

// Legacy verbosity levels accepted by the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

var (
	rootHandler atomic.Pointer[slog.Handler]
	root        Logger
)

func init() {
	var h slog.Handler = DiscardHandler()
	rootHandler.Store(&h)
	root = ethlog.NewLogger(&swapHandler{})
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// SetHandler replaces the handler behind the root logger and every logger derived from it.
func SetHandler(h slog.Handler) {
	rootHandler.Store(&h)
}

// WithContext returns a logger derived from root carrying the given key/value pairs.
func WithContext(ctx ...any) Logger {
	return root.With(ctx...)
}

// FromLegacyLevel converts a 0-9 verbosity into a slog level.
// Values above trace are clamped to trace.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= LegacyLevelCrit:
		return ethlog.LevelCrit
	case lvl == LegacyLevelError:
		return slog.LevelError
	case lvl == LegacyLevelWarn:
		return slog.LevelWarn
	case lvl == LegacyLevelInfo:
		return slog.LevelInfo
	case lvl == LegacyLevelDebug:
		return slog.LevelDebug
	default:
		return ethlog.LevelTrace
	}
}

func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
