// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	m := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		m[mf.GetName()] = mf
	}
	return m
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	calls := CounterVec("test_calls_count", []string{"status"})
	for i := range 10 {
		status := "ok"
		if i%2 == 1 {
			status = "failed"
		}
		calls.AddWithLabel(1, map[string]string{"status": status})
	}
	// same name returns the same meter
	Counter("test_payouts_count").Add(2)
	Counter("test_payouts_count").Add(3)

	round := Gauge("test_round")
	round.Set(7)
	round.Add(1)

	GaugeVec("test_locked", []string{"kind"}).SetWithLabel(42, map[string]string{"kind": "bond"})

	hist := Histogram("test_duration_ms", []int64{0, 10, 100})
	hist.Observe(5)
	hist.Observe(50)
	HistogramVec("test_api_ms", []string{"name"}, nil).ObserveWithLabels(3, map[string]string{"name": "round"})

	m := gather(t)
	sum := 0.0
	for _, metric := range m["sequencer_metrics_test_calls_count"].Metric {
		sum += metric.GetCounter().GetValue()
	}
	require.Equal(t, float64(10), sum)
	require.Len(t, m["sequencer_metrics_test_calls_count"].Metric, 2)
	require.Equal(t, float64(5), m["sequencer_metrics_test_payouts_count"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(8), m["sequencer_metrics_test_round"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(42), m["sequencer_metrics_test_locked"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(55), m["sequencer_metrics_test_duration_ms"].Metric[0].GetHistogram().GetSampleSum())
	require.Equal(t, uint64(1), m["sequencer_metrics_test_api_ms"].Metric[0].GetHistogram().GetSampleCount())

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "sequencer_metrics_test_round 8")
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
