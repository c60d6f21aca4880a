// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
)

// rmDelegatorBond drops the delegation to candidate from the delegator and returns its stake.
func (l *Ledger) rmDelegatorBond(d *Delegator, candidate seq.Address) (uint64, error) {
	i, found := d.search(candidate)
	if !found {
		return 0, ErrDelegationDNE
	}
	amount := d.Delegations[i].Amount
	d.Delegations = append(d.Delegations[:i], d.Delegations[i+1:]...)
	d.Total = seq.SaturatingSub(d.Total, amount)
	if err := l.transferAsset(l.account, d.ID, amount); err != nil {
		return 0, errors.Wrap(err, "return delegation")
	}
	return amount, nil
}

// subDelegatorTotal lowers the delegator total by amount and returns the stake,
// provided check accepts the new total.
func (l *Ledger) subDelegatorTotal(d *Delegator, amount uint64, check func(total uint64) error) error {
	total := seq.SaturatingSub(d.Total, amount)
	if err := check(total); err != nil {
		return err
	}
	d.Total = total
	return l.transferAsset(l.account, d.ID, amount)
}

// increaseDelegatorBond moves more of the asset into the delegation to candidate and
// re-ranks it. It returns whether the delegation is in top afterwards.
func (l *Ledger) increaseDelegatorBond(d *Delegator, candidate seq.Address, more uint64) (bool, error) {
	i, found := d.search(candidate)
	if !found {
		return false, ErrDelegationDNE
	}
	before := d.Delegations[i].Amount
	d.Delegations[i].Amount = seq.SaturatingAdd(before, more)
	d.Total = seq.SaturatingAdd(d.Total, more)
	if err := l.transferAsset(d.ID, l.account, more); err != nil {
		return false, err
	}

	c, err := l.s.mustCandidate(candidate)
	if err != nil {
		return false, err
	}
	inTop, err := l.increaseDelegation(candidate, c, d.ID, before, more)
	if err != nil {
		return false, err
	}
	if err := l.s.setCandidate(candidate, c); err != nil {
		return false, err
	}
	if err := l.s.addTotal(more); err != nil {
		return false, err
	}
	return inTop, l.s.setDelegator(d)
}
