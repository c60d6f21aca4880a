// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("calls").Add(1)
	CounterVec("calls_vec", []string{"call"}).AddWithLabel(1, map[string]string{"nonsense": "ok"})
	Gauge("round").Set(3)
	GaugeVec("round_vec", []string{"a"}).SetWithLabel(3, nil)
	Histogram("duration", nil).Observe(10)
	HistogramVec("duration_vec", []string{"a"}, nil).ObserveWithLabels(10, map[string]string{"b": "c"})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
