// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/state"
)

// Asset is a fungible token without locks. Stakes are denominated in it.
type Asset struct {
	balances *state.Mapping[seq.Address, uint64]
	supply   *state.Raw[uint64]
}

// NewAsset creates the asset view over the state. Different names give independent ledgers.
func NewAsset(st *state.State, name string) *Asset {
	return &Asset{
		balances: state.NewMapping[seq.Address, uint64](st, "asset/"+name+"/"),
		supply:   state.NewRaw[uint64](st, "asset-supply/"+name),
	}
}

// Balance returns the balance of addr.
func (a *Asset) Balance(addr seq.Address) (uint64, error) {
	b, _, err := a.balances.Get(addr)
	if err != nil {
		return 0, errors.Wrap(err, "get asset balance")
	}
	return b, nil
}

func (a *Asset) set(addr seq.Address, b uint64) error {
	if b == 0 {
		a.balances.Delete(addr)
		return nil
	}
	return a.balances.Set(addr, b)
}

// Mint credits newly issued tokens.
func (a *Asset) Mint(addr seq.Address, amount uint64) error {
	b, err := a.Balance(addr)
	if err != nil {
		return err
	}
	if b+amount < b {
		return ErrOverflow
	}
	supply, err := a.supply.Get()
	if err != nil {
		return errors.Wrap(err, "get asset supply")
	}
	if err := a.supply.Set(seq.SaturatingAdd(supply, amount)); err != nil {
		return err
	}
	return a.set(addr, b+amount)
}

// Supply returns the amount minted so far.
func (a *Asset) Supply() (uint64, error) {
	return a.supply.Get()
}

// Transfer moves amount between accounts.
func (a *Asset) Transfer(from, to seq.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	src, err := a.Balance(from)
	if err != nil {
		return err
	}
	if src < amount {
		return ErrInsufficientBalance
	}
	dst, err := a.Balance(to)
	if err != nil {
		return err
	}
	if dst+amount < dst {
		return ErrOverflow
	}
	if err := a.set(from, src-amount); err != nil {
		return err
	}
	return a.set(to, dst+amount)
}
