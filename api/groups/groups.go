// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package groups

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/api/utils"
	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/seq"
)

// Reader serializes reads of the state the grouping shares with the ledger.
type Reader interface {
	Read(fn func() error) error
}

// Group is a group and its members.
type Group struct {
	ID      uint32        `json:"id"`
	Members []seq.Address `json:"members"`
}

// Groups lists the groups of the current round.
type Groups struct {
	Groups    []Group            `json:"groups"`
	NextRound grouping.NextRound `json:"nextRound"`
}

// Membership tells which group an account belongs to.
type Membership struct {
	Account seq.Address `json:"account"`
	GroupID uint32      `json:"groupId"`
}

type API struct {
	reader   Reader
	grouping *grouping.Grouping
}

func New(reader Reader, g *grouping.Grouping) *API {
	return &API{reader, g}
}

func (a *API) handleGetGroups(w http.ResponseWriter, _ *http.Request) error {
	out := Groups{Groups: []Group{}}
	err := a.reader.Read(func() error {
		members, err := a.grouping.Groups()
		if err != nil {
			return err
		}
		for id, m := range members {
			out.Groups = append(out.Groups, Group{ID: uint32(id), Members: m})
		}
		out.NextRound, err = a.grouping.NextRound()
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

func (a *API) handleGetMembership(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var id uint32
	err = a.reader.Read(func() (err error) {
		id, err = a.grouping.AccountInGroup(account)
		return
	})
	if errors.Is(err, grouping.ErrAccountNotInGroup) {
		return utils.NotFound(err)
	}
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Membership{Account: account, GroupID: id})
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /groups").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetGroups))
	sub.Path("/{address}").Methods(http.MethodGet).Name("GET /groups/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetMembership))
}
