// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
)

const (
	ntpServer       = "pool.ntp.org"
	clockSyncPeriod = 10 * time.Minute
)

// WatchClock warns when the local clock drifts more than half a block interval from NTP time,
// until ctx is done. Health and packing rely on the local clock.
func WatchClock(ctx context.Context, blockInterval time.Duration) {
	ticker := time.NewTicker(clockSyncPeriod)
	defer ticker.Stop()

	checkClockOffset(blockInterval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkClockOffset(blockInterval)
		}
	}
}

func checkClockOffset(blockInterval time.Duration) {
	resp, err := ntp.Query(ntpServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > blockInterval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
