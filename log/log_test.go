// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsRootHandler(t *testing.T) {
	logger := WithContext("pkg", "bounty")

	var buf bytes.Buffer
	SetHandler(JSONHandlerWithLevel(&buf, slog.LevelDebug))
	defer SetHandler(DiscardHandler())

	logger.Info("resolved", "reward", big.NewInt(1950))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "resolved", rec["msg"])
	assert.Equal(t, "bounty", rec["pkg"])
	assert.Equal(t, "1950", rec["reward"])
	assert.Equal(t, "info", rec["lvl"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetHandler(JSONHandlerWithLevel(&buf, slog.LevelWarn))
	defer SetHandler(DiscardHandler())

	Info("dropped")
	assert.Zero(t, buf.Len())

	Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, FromLegacyLevel(LegacyLevelError))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, slog.LevelDebug, FromLegacyLevel(LegacyLevelDebug))
	assert.Equal(t, FromLegacyLevel(LegacyLevelTrace), FromLegacyLevel(9))
}

func TestTerminalHandlerFollowsLevelVar(t *testing.T) {
	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(slog.LevelInfo)
	SetHandler(NewTerminalHandlerWithLevel(&buf, &level, false))
	defer SetHandler(DiscardHandler())

	logger := WithContext("pkg", "bounty")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	level.Set(slog.LevelDebug)
	logger.Debug("shown", "round", 2)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "pkg=bounty")
	assert.Contains(t, buf.String(), "round=2")

	buf.Reset()
	level.Set(slog.LevelError)
	logger.Warn("hidden again")
	assert.Zero(t, buf.Len())
}
