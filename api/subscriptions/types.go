// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

// EventMessage is a live ledger event.
type EventMessage struct {
	Block    seq.BlockNumber `json:"block"`
	Index    uint32          `json:"index"`
	Kind     string          `json:"kind"`
	Accounts []seq.Address   `json:"accounts"`
	Data     json.RawMessage `json:"data"`
}

func newEventMessage(r *staking.Record) ([]byte, error) {
	data, err := json.Marshal(r.Event)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", r.Event.Kind())
	}
	accounts := r.Event.Accounts()
	if accounts == nil {
		accounts = []seq.Address{}
	}
	return json.Marshal(&EventMessage{
		Block:    r.Block,
		Index:    r.Index,
		Kind:     r.Event.Kind(),
		Accounts: accounts,
		Data:     data,
	})
}

// EventFilter selects the events sent to a subscriber. Empty fields match everything.
type EventFilter struct {
	Kinds   []string
	Account *seq.Address
}

func parseEventFilter(kinds []string, account string) (*EventFilter, error) {
	f := &EventFilter{}
	for _, ks := range kinds {
		for _, k := range strings.Split(ks, ",") {
			if k = strings.TrimSpace(k); k != "" {
				f.Kinds = append(f.Kinds, k)
			}
		}
	}
	if account != "" {
		addr, err := seq.ParseAddress(account)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		f.Account = addr
	}
	return f, nil
}

// Match reports whether the event passes the filter.
func (f *EventFilter) Match(ev seq.Event) bool {
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, ev.Kind()) {
		return false
	}
	if f.Account != nil && !slices.Contains(ev.Accounts(), *f.Account) {
		return false
	}
	return true
}
