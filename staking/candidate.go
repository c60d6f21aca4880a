// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/balances"
	"github.com/vechain/sequencer/seq"
)

// transferAsset moves stake between an account and the staking account.
func (l *Ledger) transferAsset(from, to seq.Address, amount uint64) error {
	if err := l.asset.Transfer(from, to, amount); err != nil {
		if errors.Is(err, balances.ErrInsufficientBalance) || errors.Is(err, balances.ErrOverflow) {
			return ErrTransferFailed
		}
		return err
	}
	return nil
}

// updateActive moves the pool entry of an active candidate to its new counted total.
func (l *Ledger) updateActive(candidate seq.Address, total uint64) error {
	pool, err := l.s.pool(l.params.MaxCandidates)
	if err != nil {
		return err
	}
	pool.Remove(candidate)
	if _, err := pool.TryInsert(Bond{candidate, total}); err != nil {
		panic("candidate pool grew while replacing an entry")
	}
	return l.s.setPool(pool)
}

func (l *Ledger) scheduleLeave(c *CandidateMetadata) (seq.RoundIndex, seq.RoundIndex, error) {
	if c.IsLeaving() {
		return 0, 0, ErrCandidateAlreadyLeaving
	}
	round, err := l.s.getRound()
	if err != nil {
		return 0, 0, err
	}
	when := round.Current + l.params.LeaveCandidatesDelay
	c.Status = StatusLeaving
	c.LeavingRound = when
	return round.Current, when, nil
}

func (l *Ledger) canLeave(c *CandidateMetadata) error {
	if !c.IsLeaving() {
		return ErrCandidateNotLeaving
	}
	round, err := l.s.getRound()
	if err != nil {
		return err
	}
	if round.Current < c.LeavingRound {
		return ErrCandidateCannotLeaveYet
	}
	return nil
}

// bondMore moves more of the asset into the candidate's self bond. The pool is left to the caller.
func (l *Ledger) bondMore(who seq.Address, c *CandidateMetadata, more uint64) error {
	balance, err := l.asset.Balance(who)
	if err != nil {
		return err
	}
	if balance < more {
		return ErrInsufficientBalance
	}
	if err := l.s.addTotal(more); err != nil {
		return err
	}
	if err := l.transferAsset(who, l.account, more); err != nil {
		return err
	}
	c.Bond = seq.SaturatingAdd(c.Bond, more)
	c.TotalCounted = seq.SaturatingAdd(c.TotalCounted, more)
	l.emit(CandidateBondedMore{Candidate: who, Amount: more, NewTotalBond: c.Bond})
	return nil
}

func (l *Ledger) bondLess(who seq.Address, c *CandidateMetadata, less uint64) error {
	if _, err := l.s.subTotal(less); err != nil {
		return err
	}
	if err := l.transferAsset(l.account, who, less); err != nil {
		return err
	}
	c.Bond = seq.SaturatingSub(c.Bond, less)
	c.TotalCounted = seq.SaturatingSub(c.TotalCounted, less)
	if c.IsActive() {
		if err := l.updateActive(who, c.TotalCounted); err != nil {
			return err
		}
	}
	l.emit(CandidateBondedLess{Candidate: who, Amount: less, NewBond: c.Bond})
	return nil
}

func (l *Ledger) scheduleBondLess(c *CandidateMetadata, less uint64) (seq.RoundIndex, error) {
	if c.Request != nil {
		return 0, ErrPendingCandidateRequestAlreadyExists
	}
	if c.Bond <= less {
		return 0, ErrCandidateBondBelowMin
	}
	round, err := l.s.getRound()
	if err != nil {
		return 0, err
	}
	when := round.Current + l.params.CandidateBondLessDelay
	c.Request = &CandidateBondLessRequest{Amount: less, WhenExecutable: when}
	return when, nil
}

func (l *Ledger) executeBondLess(who seq.Address, c *CandidateMetadata) error {
	if c.Request == nil {
		return ErrPendingCandidateRequestsDNE
	}
	round, err := l.s.getRound()
	if err != nil {
		return err
	}
	if c.Request.WhenExecutable > round.Current {
		return ErrPendingCandidateRequestNotDueYet
	}
	if err := l.bondLess(who, c, c.Request.Amount); err != nil {
		return err
	}
	c.Request = nil
	return nil
}

func (l *Ledger) cancelBondLess(who seq.Address, c *CandidateMetadata) error {
	if c.Request == nil {
		return ErrPendingCandidateRequestsDNE
	}
	l.emit(CancelledCandidateBondLess{Candidate: who, Amount: c.Request.Amount, ExecuteRound: c.Request.WhenExecutable})
	c.Request = nil
	return nil
}

// resetTopData refreshes the cached top figures and the counted total.
func (l *Ledger) resetTopData(candidate seq.Address, c *CandidateMetadata, top *Delegations) error {
	c.LowestTopDelegationAmount = top.lowest()
	c.TopCapacity = top.capacity(l.params.MaxTopDelegationsPerCandidate)
	old := c.TotalCounted
	c.TotalCounted = seq.SaturatingAdd(c.Bond, top.Total)
	if old != c.TotalCounted && c.IsActive() {
		return l.updateActive(candidate, c.TotalCounted)
	}
	return nil
}

func (l *Ledger) resetBottomData(c *CandidateMetadata, bottom *Delegations) {
	c.LowestBottomDelegationAmount = bottom.lowest()
	c.HighestBottomDelegationAmount = bottom.highest()
	c.BottomCapacity = bottom.capacity(l.params.MaxBottomDelegationsPerCandidate)
}
