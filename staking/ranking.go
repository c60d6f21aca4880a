// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
)

// Delegations of a candidate are split in a counted top partition and an uncounted bottom one.
// Every top amount is greater than or equal to every bottom amount. The candidate metadata
// caches the partition extremes so most calls touch a single partition.

// addDelegation places a new delegation. When the placement kicked the lowest bottom delegation,
// its amount is returned so the caller can net it out of the locked total.
func (l *Ledger) addDelegation(candidate seq.Address, c *CandidateMetadata, b Bond) (DelegatorAdded, *uint64, error) {
	if c.TopCapacity == CapacityFull {
		if b.Amount > c.LowestTopDelegationAmount {
			less, err := l.addTopDelegation(candidate, c, b)
			if err != nil {
				return DelegatorAdded{}, nil, err
			}
			return DelegatorAdded{InTop: true, NewTotal: c.TotalCounted}, less, nil
		}
		var less *uint64
		if c.BottomCapacity == CapacityFull {
			if b.Amount <= c.LowestBottomDelegationAmount {
				return DelegatorAdded{}, nil, ErrCannotDelegateLessThanOrEqualToLowestBottomWhenFull
			}
			lowest := c.LowestBottomDelegationAmount
			less = &lowest
		}
		if err := l.addBottomDelegation(candidate, c, b, false); err != nil {
			return DelegatorAdded{}, nil, err
		}
		return DelegatorAdded{InTop: false}, less, nil
	}
	less, err := l.addTopDelegation(candidate, c, b)
	if err != nil {
		return DelegatorAdded{}, nil, err
	}
	return DelegatorAdded{InTop: true, NewTotal: c.TotalCounted}, less, nil
}

// addTopDelegation inserts into top, demoting the lowest top delegation when top is full.
func (l *Ledger) addTopDelegation(candidate seq.Address, c *CandidateMetadata, b Bond) (*uint64, error) {
	top, err := l.s.top(candidate)
	if err != nil {
		return nil, err
	}
	var less *uint64
	if uint32(len(top.Delegations)) == l.params.MaxTopDelegationsPerCandidate {
		demoted, _ := top.popLowest()
		top.Total = seq.SaturatingSub(top.Total, demoted.Amount)
		if c.BottomCapacity == CapacityFull {
			lowest := c.LowestBottomDelegationAmount
			less = &lowest
		}
		if err := l.addBottomDelegation(candidate, c, demoted, true); err != nil {
			return nil, err
		}
	}
	top.insertSorted(b)
	if err := l.resetTopData(candidate, c, top); err != nil {
		return nil, err
	}
	if less == nil {
		// a kick keeps the count, the newcomer replaced the kicked delegation
		c.DelegationCount++
	}
	return less, l.s.setTop(candidate, top)
}

// addBottomDelegation inserts into bottom. A full bottom kicks its lowest delegation out
// entirely, returning the stake and dropping any request the delegator had on this candidate.
// bumped tells the delegation was demoted from top and is already counted.
func (l *Ledger) addBottomDelegation(candidate seq.Address, c *CandidateMetadata, b Bond, bumped bool) error {
	bottom, err := l.s.bottom(candidate)
	if err != nil {
		return err
	}
	if uint32(len(bottom.Delegations)) == l.params.MaxBottomDelegationsPerCandidate {
		kicked, ok := bottom.popLowest()
		if !ok {
			return errors.New("no bottom delegation to kick")
		}
		bottom.Total = seq.SaturatingSub(bottom.Total, kicked.Amount)
		if err := l.kickDelegation(candidate, kicked); err != nil {
			return err
		}
	} else if !bumped {
		c.DelegationCount++
	}
	bottom.insertSorted(b)
	l.resetBottomData(c, bottom)
	return l.s.setBottom(candidate, bottom)
}

func (l *Ledger) kickDelegation(candidate seq.Address, kicked Bond) error {
	d, err := l.s.getDelegator(kicked.Owner)
	if err != nil {
		return err
	}
	if d == nil {
		panic("delegator state missing for delegation " + kicked.Owner.String())
	}
	leaving := len(d.Delegations) == 1
	if _, err := l.rmDelegatorBond(d, candidate); err != nil {
		return err
	}
	if err := l.removeRequestWithState(candidate, kicked.Owner, d); err != nil {
		return err
	}
	l.emit(DelegationKicked{Delegator: kicked.Owner, Candidate: candidate, UnstakedAmount: kicked.Amount})
	metricKicked().Add(1)
	logger.Debug("delegation kicked", "candidate", candidate, "delegator", kicked.Owner, "amount", kicked.Amount)
	if leaving {
		l.s.delegatorState.Delete(kicked.Owner)
		l.emit(DelegatorLeft{Delegator: kicked.Owner, UnstakedAmount: kicked.Amount})
		return nil
	}
	return l.s.setDelegator(d)
}

// rmDelegationIfExists drops the delegation of delegator, whose amount is amount, from whichever partition holds it.
func (l *Ledger) rmDelegationIfExists(candidate seq.Address, c *CandidateMetadata, delegator seq.Address, amount uint64) error {
	geqLowestTop := amount >= c.LowestTopDelegationAmount
	ambiguous := c.LowestTopDelegationAmount == c.HighestBottomDelegationAmount
	switch {
	case c.TopCapacity != CapacityFull || (geqLowestTop && !ambiguous):
		return l.rmTopDelegation(candidate, c, delegator)
	case geqLowestTop && ambiguous:
		err := l.rmTopDelegation(candidate, c, delegator)
		if errors.Is(err, ErrDelegationDNE) {
			return l.rmBottomDelegation(candidate, c, delegator)
		}
		return err
	default:
		return l.rmBottomDelegation(candidate, c, delegator)
	}
}

// rmTopDelegation removes from top and promotes the highest bottom delegation, if any.
func (l *Ledger) rmTopDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address) error {
	top, err := l.s.top(candidate)
	if err != nil {
		return err
	}
	removed, ok := top.remove(delegator)
	if !ok {
		return ErrDelegationDNE
	}
	top.Total = seq.SaturatingSub(top.Total, removed.Amount)
	if c.BottomCapacity != CapacityEmpty {
		bottom, err := l.s.bottom(candidate)
		if err != nil {
			return err
		}
		promoted, _ := bottom.popHighest()
		bottom.Total = seq.SaturatingSub(bottom.Total, promoted.Amount)
		l.resetBottomData(c, bottom)
		if err := l.s.setBottom(candidate, bottom); err != nil {
			return err
		}
		top.insertSorted(promoted)
	}
	if err := l.resetTopData(candidate, c, top); err != nil {
		return err
	}
	c.DelegationCount--
	return l.s.setTop(candidate, top)
}

func (l *Ledger) rmBottomDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address) error {
	bottom, err := l.s.bottom(candidate)
	if err != nil {
		return err
	}
	removed, ok := bottom.remove(delegator)
	if !ok {
		return ErrDelegationDNE
	}
	bottom.Total = seq.SaturatingSub(bottom.Total, removed.Amount)
	l.resetBottomData(c, bottom)
	c.DelegationCount--
	return l.s.setBottom(candidate, bottom)
}

// increaseDelegation grows the delegation of delegator, currently bond, by more.
// It returns whether the delegation is in top afterwards.
func (l *Ledger) increaseDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address, bond, more uint64) (bool, error) {
	geqLowestTop := bond >= c.LowestTopDelegationAmount
	ambiguous := c.LowestTopDelegationAmount == c.HighestBottomDelegationAmount
	switch {
	case geqLowestTop && !ambiguous:
		return l.increaseTopDelegation(candidate, c, delegator, more)
	case geqLowestTop && ambiguous:
		inTop, err := l.increaseTopDelegation(candidate, c, delegator, more)
		if errors.Is(err, ErrDelegationDNE) {
			return l.increaseBottomDelegation(candidate, c, delegator, bond, more)
		}
		return inTop, err
	default:
		return l.increaseBottomDelegation(candidate, c, delegator, bond, more)
	}
}

func (l *Ledger) increaseTopDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address, more uint64) (bool, error) {
	top, err := l.s.top(candidate)
	if err != nil {
		return false, err
	}
	i := top.find(delegator)
	if i < 0 {
		return false, ErrDelegationDNE
	}
	top.Delegations[i].Amount = seq.SaturatingAdd(top.Delegations[i].Amount, more)
	top.Total = seq.SaturatingAdd(top.Total, more)
	top.sort()
	if err := l.resetTopData(candidate, c, top); err != nil {
		return false, err
	}
	return true, l.s.setTop(candidate, top)
}

// increaseBottomDelegation grows a bottom delegation, promoting it when it outgrows the lowest top one.
func (l *Ledger) increaseBottomDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address, bond, more uint64) (bool, error) {
	bottom, err := l.s.bottom(candidate)
	if err != nil {
		return false, err
	}
	var inTop bool
	if seq.SaturatingAdd(bond, more) > c.LowestTopDelegationAmount {
		b, ok := bottom.remove(delegator)
		if !ok {
			return false, ErrDelegationDNE
		}
		b.Amount = seq.SaturatingAdd(b.Amount, more)
		bottom.Total = seq.SaturatingSub(bottom.Total, bond)
		top, err := l.s.top(candidate)
		if err != nil {
			return false, err
		}
		if top.capacity(l.params.MaxTopDelegationsPerCandidate) == CapacityFull {
			demoted, _ := top.popLowest()
			top.Total = seq.SaturatingSub(top.Total, demoted.Amount)
			bottom.insertSorted(demoted)
		}
		top.insertSorted(b)
		if err := l.resetTopData(candidate, c, top); err != nil {
			return false, err
		}
		if err := l.s.setTop(candidate, top); err != nil {
			return false, err
		}
		inTop = true
	} else {
		i := bottom.find(delegator)
		if i < 0 {
			return false, ErrDelegationDNE
		}
		bottom.Delegations[i].Amount = seq.SaturatingAdd(bottom.Delegations[i].Amount, more)
		bottom.Total = seq.SaturatingAdd(bottom.Total, more)
		bottom.sort()
	}
	l.resetBottomData(c, bottom)
	return inTop, l.s.setBottom(candidate, bottom)
}

// decreaseDelegation shrinks the delegation of delegator, currently bond, by less.
// It returns whether the delegation is in top afterwards.
func (l *Ledger) decreaseDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address, bond, less uint64) (bool, error) {
	geqLowestTop := bond >= c.LowestTopDelegationAmount
	ambiguous := c.LowestTopDelegationAmount == c.HighestBottomDelegationAmount
	switch {
	case geqLowestTop && !ambiguous:
		return l.decreaseTopDelegation(candidate, c, delegator, bond, less)
	case geqLowestTop && ambiguous:
		inTop, err := l.decreaseTopDelegation(candidate, c, delegator, bond, less)
		if errors.Is(err, ErrDelegationDNE) {
			return l.decreaseBottomDelegation(candidate, c, delegator, less)
		}
		return inTop, err
	default:
		return l.decreaseBottomDelegation(candidate, c, delegator, less)
	}
}

// decreaseTopDelegation shrinks a top delegation, swapping it with the highest bottom one when it falls below it.
func (l *Ledger) decreaseTopDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address, bond, less uint64) (bool, error) {
	top, err := l.s.top(candidate)
	if err != nil {
		return false, err
	}
	belowBottom := seq.SaturatingSub(bond, less) < c.HighestBottomDelegationAmount
	fullTopWithBottom := c.TopCapacity == CapacityFull && c.BottomCapacity != CapacityEmpty

	var inTop bool
	if belowBottom && fullTopWithBottom {
		b, ok := top.remove(delegator)
		if !ok {
			return false, ErrDelegationDNE
		}
		top.Total = seq.SaturatingSub(top.Total, b.Amount)
		b.Amount = seq.SaturatingSub(b.Amount, less)

		bottom, err := l.s.bottom(candidate)
		if err != nil {
			return false, err
		}
		promoted, _ := bottom.popHighest()
		bottom.Total = seq.SaturatingSub(bottom.Total, promoted.Amount)
		top.insertSorted(promoted)
		bottom.insertSorted(b)
		l.resetBottomData(c, bottom)
		if err := l.s.setBottom(candidate, bottom); err != nil {
			return false, err
		}
	} else {
		i := top.find(delegator)
		if i < 0 {
			return false, ErrDelegationDNE
		}
		top.Delegations[i].Amount = seq.SaturatingSub(top.Delegations[i].Amount, less)
		top.Total = seq.SaturatingSub(top.Total, less)
		top.sort()
		inTop = true
	}
	if err := l.resetTopData(candidate, c, top); err != nil {
		return false, err
	}
	return inTop, l.s.setTop(candidate, top)
}

// decreaseBottomDelegation shrinks a bottom delegation in place.
func (l *Ledger) decreaseBottomDelegation(candidate seq.Address, c *CandidateMetadata, delegator seq.Address, less uint64) (bool, error) {
	bottom, err := l.s.bottom(candidate)
	if err != nil {
		return false, err
	}
	i := bottom.find(delegator)
	if i < 0 {
		return false, ErrDelegationDNE
	}
	bottom.Delegations[i].Amount = seq.SaturatingSub(bottom.Delegations[i].Amount, less)
	bottom.Total = seq.SaturatingSub(bottom.Total, less)
	bottom.sort()
	l.resetBottomData(c, bottom)
	return false, l.s.setBottom(candidate, bottom)
}
