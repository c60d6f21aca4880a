// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextResolvesLazily(t *testing.T) {
	prev := ethlog.Root()
	defer ethlog.SetDefault(prev)

	// created before the handler is installed, like package level loggers
	logger := WithContext("pkg", "staking")

	var buf bytes.Buffer
	SetDefault(NewJSONHandler(&buf, LevelDebug))

	logger.With("round", 3).Info("new round", "selected", 8)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "new round", rec["msg"])
	assert.Equal(t, "staking", rec["pkg"])
	assert.Equal(t, float64(3), rec["round"])
	assert.Equal(t, float64(8), rec["selected"])
}

func TestLevelFiltering(t *testing.T) {
	prev := ethlog.Root()
	defer ethlog.SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(NewJSONHandler(&buf, LevelWarn))

	logger := WithContext("pkg", "test")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())
	assert.False(t, logger.Enabled(LevelInfo))
	assert.True(t, logger.Enabled(LevelError))

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromVerbosity(t *testing.T) {
	assert.Equal(t, LevelInfo, FromVerbosity(3))
	assert.Equal(t, LevelTrace, FromVerbosity(5))
	assert.Equal(t, LevelCrit, FromVerbosity(0))
}
