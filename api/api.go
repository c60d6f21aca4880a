// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/sequencer/api/events"
	"github.com/vechain/sequencer/api/groups"
	"github.com/vechain/sequencer/api/node"
	"github.com/vechain/sequencer/api/staking"
	"github.com/vechain/sequencer/api/subscriptions"
	"github.com/vechain/sequencer/eventdb"
	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/health"
	"github.com/vechain/sequencer/log"
	ledger "github.com/vechain/sequencer/staking"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableReqLogger      bool
	EnableMetrics        bool
	SlowQueriesThreshold time.Duration
	LogsLimit            uint64
}

// New return api router. The returned func closes the websocket subscriptions.
// The events endpoint is skipped when edb is nil, the health one when h is nil.
func New(
	l *ledger.Ledger,
	g *grouping.Grouping,
	edb *eventdb.EventDB,
	h *health.Health,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	staking.New(l).
		Mount(router, "/staking")
	groups.New(l, g).
		Mount(router, "/groups")
	if edb != nil {
		events.New(edb, opts.LogsLimit).
			Mount(router, "/events")
	}
	if h != nil {
		node.New(h).
			Mount(router, "/node")
	}
	subs := subscriptions.New(l, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	if opts.EnableReqLogger || opts.SlowQueriesThreshold > 0 {
		router.Use(RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP, subs.Close
}
