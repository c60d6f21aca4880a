// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package balances keeps the two currencies the staking ledger moves: the native token,
// which carries named locks, and the bridged asset that stakes are denominated in.
package balances

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/state"
)

var (
	// ErrInsufficientBalance is returned when the usable balance does not cover a transfer.
	ErrInsufficientBalance = errors.New("balances: insufficient balance")
	// ErrOverflow is returned when a credit would overflow the balance.
	ErrOverflow = errors.New("balances: balance overflow")
)

// Lock is a named amount of native balance that can't be transferred.
type Lock struct {
	ID     [8]byte
	Amount uint64
}

type nativeAccount struct {
	Free  uint64
	Locks []Lock
}

// usable returns free balance minus the largest lock. Locks overlap rather than stack.
func (a *nativeAccount) usable() uint64 {
	var frozen uint64
	for _, l := range a.Locks {
		frozen = max(frozen, l.Amount)
	}
	return seq.SaturatingSub(a.Free, frozen)
}

// Native is the native currency.
type Native struct {
	accounts *state.Mapping[seq.Address, nativeAccount]
	issuance *state.Raw[uint64]
}

// NewNative creates the native currency view over the state.
func NewNative(st *state.State) *Native {
	return &Native{
		accounts: state.NewMapping[seq.Address, nativeAccount](st, "native/"),
		issuance: state.NewRaw[uint64](st, "native-issuance"),
	}
}

func (n *Native) account(addr seq.Address) (nativeAccount, error) {
	acc, _, err := n.accounts.Get(addr)
	if err != nil {
		return nativeAccount{}, errors.Wrap(err, "get native account")
	}
	return acc, nil
}

func (n *Native) setAccount(addr seq.Address, acc nativeAccount) error {
	if acc.Free == 0 && len(acc.Locks) == 0 {
		n.accounts.Delete(addr)
		return nil
	}
	return n.accounts.Set(addr, acc)
}

// Free returns the free balance, locked funds included.
func (n *Native) Free(addr seq.Address) (uint64, error) {
	acc, err := n.account(addr)
	return acc.Free, err
}

// Usable returns the balance that can be transferred.
func (n *Native) Usable(addr seq.Address) (uint64, error) {
	acc, err := n.account(addr)
	return acc.usable(), err
}

// Locks returns the locks placed on the account.
func (n *Native) Locks(addr seq.Address) ([]Lock, error) {
	acc, err := n.account(addr)
	return acc.Locks, err
}

// SetLock creates or replaces the lock named id.
func (n *Native) SetLock(id [8]byte, addr seq.Address, amount uint64) error {
	acc, err := n.account(addr)
	if err != nil {
		return err
	}
	for i := range acc.Locks {
		if acc.Locks[i].ID == id {
			acc.Locks[i].Amount = amount
			return n.setAccount(addr, acc)
		}
	}
	acc.Locks = append(acc.Locks, Lock{id, amount})
	return n.setAccount(addr, acc)
}

// RemoveLock removes the lock named id, if any.
func (n *Native) RemoveLock(id [8]byte, addr seq.Address) error {
	acc, err := n.account(addr)
	if err != nil {
		return err
	}
	locks := acc.Locks[:0]
	for _, l := range acc.Locks {
		if l.ID != id {
			locks = append(locks, l)
		}
	}
	acc.Locks = locks
	return n.setAccount(addr, acc)
}

// Mint credits newly issued tokens.
func (n *Native) Mint(addr seq.Address, amount uint64) error {
	acc, err := n.account(addr)
	if err != nil {
		return err
	}
	if acc.Free+amount < acc.Free {
		return ErrOverflow
	}
	acc.Free += amount
	issuance, err := n.issuance.Get()
	if err != nil {
		return errors.Wrap(err, "get issuance")
	}
	if err := n.issuance.Set(seq.SaturatingAdd(issuance, amount)); err != nil {
		return err
	}
	return n.setAccount(addr, acc)
}

// TotalIssuance returns the amount minted so far.
func (n *Native) TotalIssuance() (uint64, error) {
	return n.issuance.Get()
}

// Transfer moves amount of usable balance.
func (n *Native) Transfer(from, to seq.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	src, err := n.account(from)
	if err != nil {
		return err
	}
	if src.usable() < amount {
		return ErrInsufficientBalance
	}
	dst, err := n.account(to)
	if err != nil {
		return err
	}
	if dst.Free+amount < dst.Free {
		return ErrOverflow
	}
	src.Free -= amount
	dst.Free += amount
	if err := n.setAccount(from, src); err != nil {
		return err
	}
	return n.setAccount(to, dst)
}
