// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/eventdb"
	"github.com/vechain/sequencer/genesis"
	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/health"
	"github.com/vechain/sequencer/lvldb"
	"github.com/vechain/sequencer/metrics"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
	"github.com/vechain/sequencer/state"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func devnet(t *testing.T) (*staking.Ledger, *grouping.Grouping) {
	gen := genesis.NewDevnet()
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var groups *grouping.Grouping
	l, err := staking.New(db, gen.StakingParams(), staking.WithGrouping(
		func(st *state.State, emit func(seq.Event), parent func() seq.Bytes32) staking.Grouping {
			groups = grouping.New(st, gen.GroupingParams(), grouping.HashRandomness{}, parent, emit)
			return groups
		}))
	require.NoError(t, err)
	t.Cleanup(l.Close)
	require.NoError(t, gen.Build(l, groups))
	require.NoError(t, l.Commit())
	return l, groups
}

func httpGet(t *testing.T, url string, header http.Header) ([]byte, *http.Response) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res
}

func TestRouter(t *testing.T) {
	l, groups := devnet(t)
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { edb.Close() })

	handler, closeSubs := New(l, groups, edb, health.New(time.Minute), Options{AllowedOrigins: "http://a.example, http://B.example", LogsLimit: 10})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
	})

	body, res := httpGet(t, ts.URL+"/staking/total", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"total":2000}`, string(body))

	_, res = httpGet(t, ts.URL+"/groups", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body, res = httpGet(t, ts.URL+"/events", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))

	_, res = httpGet(t, ts.URL+"/staking/total", http.Header{"Origin": {"http://b.example"}})
	assert.Equal(t, "http://b.example", res.Header.Get("Access-Control-Allow-Origin"))

	_, res = httpGet(t, ts.URL+"/node/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	_, res = httpGet(t, ts.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRouterWithoutEvents(t *testing.T) {
	l, groups := devnet(t)
	handler, closeSubs := New(l, groups, nil, nil, Options{AllowedOrigins: "*"})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
	})

	_, res := httpGet(t, ts.URL+"/events", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	l, groups := devnet(t)

	router := mux.NewRouter()
	handler, closeSubs := New(l, groups, nil, nil, Options{AllowedOrigins: "*", EnableMetrics: true})
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.PathPrefix("/").Handler(handler)
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
	})

	httpGet(t, ts.URL+"/staking/candidates/0x01", nil)
	httpGet(t, ts.URL+"/staking/candidates/"+genesis.DevAccounts()[0].Address.String(), nil)

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	conn.Close()

	body, _ := httpGet(t, ts.URL+"/metrics", nil)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, m := range families["sequencer_metrics_api_request_count"].GetMetric() {
		labels := make(map[string]string)
		for _, lbl := range m.GetLabel() {
			labels[lbl.GetName()] = lbl.GetValue()
		}
		assert.Equal(t, http.MethodGet, labels["method"])
		counts[labels["name"]+" "+labels["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(1), counts["GET /staking/candidates/{address} 400"])
	assert.Equal(t, float64(1), counts["GET /staking/candidates/{address} 200"])

	// the handler only returns once the connection is closed
	assert.Eventually(t, func() bool {
		body, _ := httpGet(t, ts.URL+"/metrics", nil)
		return strings.Contains(string(body), `name="WS /subscriptions/events"`)
	}, 5*time.Second, 10*time.Millisecond)
}
