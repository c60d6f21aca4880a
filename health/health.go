// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/sequencer/seq"
)

type Head struct {
	Number    seq.BlockNumber `json:"number"`
	ID        seq.Bytes32     `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
}

type Status struct {
	Healthy bool  `json:"healthy"`
	Head    *Head `json:"head"`
}

// Health tracks block production. The node is healthy while blocks keep coming within tolerance.
type Health struct {
	lock      sync.RWMutex
	tolerance time.Duration
	head      *Head
}

func New(tolerance time.Duration) *Health {
	return &Health{tolerance: tolerance}
}

func (h *Health) NewHead(number seq.BlockNumber, id seq.Bytes32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.head = &Head{Number: number, ID: id, Timestamp: time.Now()}
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	if h.head == nil {
		return &Status{}
	}
	head := *h.head
	return &Status{
		Healthy: time.Since(head.Timestamp) <= h.tolerance,
		Head:    &head,
	}
}
