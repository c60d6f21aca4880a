// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/vechain/sequencer/metrics"

var (
	metricCalls         = metrics.LazyLoadCounterVec("staking_calls_count", []string{"call", "status"})
	metricRound         = metrics.LazyLoadGauge("staking_round")
	metricTotalLocked   = metrics.LazyLoadGauge("staking_total_locked")
	metricPayouts       = metrics.LazyLoadCounterVec("staking_payouts_count", []string{"result"})
	metricKicked        = metrics.LazyLoadCounter("staking_kicked_delegations_count")
	metricBlockDuration = metrics.LazyLoadHistogram("staking_block_duration_ms", metrics.Bucket10s)
)
