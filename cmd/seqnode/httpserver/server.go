// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver starts the HTTP listeners of the node.
package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/metrics"
)

// serve runs srv on listener in the background. The returned func closes it and waits.
func serve(srv *http.Server, listener net.Listener) func() {
	var wg sync.WaitGroup
	wg.Go(func() {
		srv.Serve(listener)
	})
	return func() {
		srv.Close()
		wg.Wait()
	}
}

// StartAPIServer serves handler on addr. Requests taking longer than timeout are answered with 503,
// websocket upgrades excepted.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout > 0 {
		handler = handleAPITimeout(handler, timeout)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	return "http://" + listener.Addr().String() + "/", serve(srv, listener), nil
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	limited := http.TimeoutHandler(h, timeout, "request timeout")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the timeout writer can't be hijacked
		if r.Header.Get("Upgrade") != "" {
			h.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

// StartMetricsServer serves the prometheus metrics on addr.
func StartMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	return "http://" + listener.Addr().String() + "/metrics", serve(srv, listener), nil
}
