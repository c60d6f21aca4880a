// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/api/utils"
	"github.com/vechain/sequencer/eventdb"
	"github.com/vechain/sequencer/seq"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{db, limit}
}

func (e *Events) filter(ctx context.Context, f *eventdb.Filter) ([]*eventdb.Event, error) {
	return e.db.Filter(ctx, f)
}

func parseUint(query url.Values, name string, bits int) (uint64, bool, error) {
	s := query.Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, false, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, true, nil
}

// parseFilter reads kind, account, from, to, offset, limit and order from the query.
func (e *Events) parseFilter(query url.Values) (*eventdb.Filter, error) {
	f := &eventdb.Filter{Order: eventdb.ASC}
	for _, kinds := range query["kind"] {
		for _, k := range strings.Split(kinds, ",") {
			if k = strings.TrimSpace(k); k != "" {
				f.Kinds = append(f.Kinds, k)
			}
		}
	}
	if s := query.Get("account"); s != "" {
		addr, err := seq.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		f.Account = addr
	}

	from, _, err := parseUint(query, "from", 32)
	if err != nil {
		return nil, err
	}
	to, hasTo, err := parseUint(query, "to", 32)
	if err != nil {
		return nil, err
	}
	if hasTo && to < from {
		return nil, utils.BadRequest(errors.New("to must be greater than or equal to from"))
	}
	// a To below From leaves the range open ended
	if hasTo || from > 0 {
		f.Range = &eventdb.Range{From: seq.BlockNumber(from), To: seq.BlockNumber(to)}
	}

	offset, _, err := parseUint(query, "offset", 63)
	if err != nil {
		return nil, err
	}
	limit, hasLimit, err := parseUint(query, "limit", 64)
	if err != nil {
		return nil, err
	}
	if !hasLimit {
		limit = e.limit
	}
	if limit > e.limit {
		return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	f.Options = &eventdb.Options{Offset: offset, Limit: limit}

	switch strings.ToLower(query.Get("order")) {
	case "", string(eventdb.ASC):
	case string(eventdb.DESC):
		f.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(errors.New("order must be asc or desc"))
	}
	return f, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	f, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	events, err := e.filter(req.Context(), f)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
