// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/sequencer/log"
)

// RequestLoggerMiddleware logs every request when enabled, otherwise only those slower than slowThreshold.
// A zero slowThreshold disables slow query logging.
func RequestLoggerMiddleware(logger log.Logger, enabled bool, slowThreshold time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled && slowThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			next.ServeHTTP(w, r)

			duration := time.Since(start)
			if enabled || duration > slowThreshold {
				logger.Info("API Request",
					"DurationMs", duration.Milliseconds(),
					"Timestamp", time.Now().Unix(),
					"URI", r.URL.String(),
					"Method", r.Method,
				)
			}
		})
	}
}
