// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"encoding/json"

	"github.com/vechain/sequencer/seq"
)

// Order of query results.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive block range. A To below From leaves the range open ended.
type Range struct {
	From seq.BlockNumber `json:"from"`
	To   seq.BlockNumber `json:"to"`
}

// Options paginate query results.
type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Empty fields match everything.
type Filter struct {
	Kinds   []string     `json:"kinds"`
	Account *seq.Address `json:"account"`
	Range   *Range       `json:"range"`
	Order   Order        `json:"order"`
	Options *Options     `json:"options"`
}

// Event is an indexed ledger event.
type Event struct {
	Block    seq.BlockNumber `json:"block"`
	Index    uint32          `json:"index"`
	Kind     string          `json:"kind"`
	Accounts []seq.Address   `json:"accounts"`
	Data     json.RawMessage `json:"data"`
}

func packAccounts(accounts []seq.Address) []byte {
	if len(accounts) == 0 {
		return nil
	}
	b := make([]byte, 0, len(accounts)*seq.AddressLength)
	for _, a := range accounts {
		b = append(b, a[:]...)
	}
	return b
}

func unpackAccounts(b []byte) []seq.Address {
	accounts := make([]seq.Address, 0, len(b)/seq.AddressLength)
	for len(b) >= seq.AddressLength {
		accounts = append(accounts, seq.BytesToAddress(b[:seq.AddressLength]))
		b = b[seq.AddressLength:]
	}
	return accounts
}
