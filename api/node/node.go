// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/sequencer/api/utils"
	"github.com/vechain/sequencer/health"
)

type Node struct {
	health *health.Health
}

func New(h *health.Health) *Node {
	return &Node{h}
}

// handleHealth responds 503 when block production stalled.
func (n *Node) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	status := n.health.Status()
	w.Header().Set("Content-Type", utils.JSONContentType)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return json.NewEncoder(w).Encode(status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/health").
		Methods(http.MethodGet).
		Name("GET /node/health").
		HandlerFunc(utils.WrapHandlerFunc(n.handleHealth))
}
