// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/metrics"
)

func get(t *testing.T, url string) (int, string) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestAPIServer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			time.Sleep(200 * time.Millisecond)
		}
		w.Write([]byte("ok"))
	})
	url, closeSrv, err := StartAPIServer("127.0.0.1:0", handler, 50*time.Millisecond)
	require.NoError(t, err)
	defer closeSrv()

	code, body := get(t, url)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, _ = get(t, url+"slow")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(1)

	url, closeSrv, err := StartMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer closeSrv()

	code, body := get(t, url)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, "sequencer_metrics_httpserver_test_count 1"), body)
}

func TestListenFailure(t *testing.T) {
	_, _, err := StartAPIServer("256.0.0.1:0", http.NotFoundHandler(), 0)
	assert.Error(t, err)
}
