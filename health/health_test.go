// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/seq"
)

func TestHealth_NewHead(t *testing.T) {
	h := New(time.Minute)
	assert.False(t, h.Status().Healthy)
	assert.Nil(t, h.Status().Head)

	id := seq.Bytes32{0x01, 0x02, 0x03}
	h.NewHead(3, id)

	status := h.Status()
	assert.True(t, status.Healthy)
	require.NotNil(t, status.Head)
	assert.Equal(t, seq.BlockNumber(3), status.Head.Number)
	assert.Equal(t, id, status.Head.ID)
	assert.WithinDuration(t, time.Now(), status.Head.Timestamp, time.Second)
}

func TestHealth_Stale(t *testing.T) {
	h := New(10 * time.Millisecond)
	h.NewHead(1, seq.Bytes32{})
	time.Sleep(20 * time.Millisecond)
	assert.False(t, h.Status().Healthy)
	assert.NotNil(t, h.Status().Head)
}
