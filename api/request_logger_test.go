// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/sequencer/log"
)

type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) Trace(string, ...any)      {}
func (m *mockLogger) Debug(string, ...any)      {}
func (m *mockLogger) Warn(string, ...any)       {}
func (m *mockLogger) Error(string, ...any)      {}
func (m *mockLogger) Crit(string, ...any)       {}
func (m *mockLogger) With(...any) log.Logger    { return m }
func (m *mockLogger) Enabled(slog.Level) bool   { return true }
func (m *mockLogger) Info(_ string, ctx ...any) { m.loggedData = append(m.loggedData, ctx...) }

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		sleep     time.Duration
		enabled   bool
		threshold time.Duration
		shouldLog bool
	}{
		{"enabled", 0, true, 0, true},
		{"disabled", 0, false, 0, false},
		{"slow query", 20 * time.Millisecond, false, 5 * time.Millisecond, true},
		{"fast query", 0, false, time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			handler := RequestLoggerMiddleware(logger, tt.enabled, tt.threshold)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(tt.sleep)
				w.WriteHeader(http.StatusTeapot)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/staking/round?x=1", nil))
			assert.Equal(t, http.StatusTeapot, rec.Code)

			if !tt.shouldLog {
				assert.Empty(t, logger.loggedData)
				return
			}
			assert.Contains(t, logger.loggedData, "URI")
			assert.Contains(t, logger.loggedData, "/staking/round?x=1")
			assert.Contains(t, logger.loggedData, http.MethodGet)
		})
	}
}
