// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
)

// Count hints passed to the calls below are upper bounds the caller commits to, for the size
// of the candidate pool or of a delegation list. A hint below the actual size rejects the call.

// JoinCandidates locks MinCandidateStk of the account's native balance and adds it to the pool with a zero bond.
func (l *Ledger) JoinCandidates(account seq.Address, candidateCount uint32) error {
	return l.call("join_candidates", func() error {
		logger.Debug("joining candidates", "account", account)
		if err := l.joinCandidates(account, candidateCount); err != nil {
			return err
		}
		logger.Info("candidate joined", "account", account)
		return nil
	})
}

func (l *Ledger) joinCandidates(account seq.Address, candidateCount uint32) error {
	if ok, err := l.s.isCandidate(account); err != nil {
		return err
	} else if ok {
		return ErrCandidateExists
	}
	if ok, err := l.s.isDelegator(account); err != nil {
		return err
	} else if ok {
		return ErrDelegatorExists
	}
	pool, err := l.s.pool(l.params.MaxCandidates)
	if err != nil {
		return err
	}
	if candidateCount < uint32(pool.Len()) {
		return ErrTooLowCandidateCountWeightHintJoinCandidates
	}
	inserted, err := pool.TryInsert(Bond{Owner: account})
	if err != nil {
		return err
	}
	if !inserted {
		return ErrCandidateExists
	}

	free, err := l.native.Free(account)
	if err != nil {
		return err
	}
	if free < l.params.MinCandidateStk {
		return ErrInsufficientBalance
	}
	if err := l.native.SetLock(seq.SequencerLockID, account, l.params.MinCandidateStk); err != nil {
		return err
	}

	if err := l.s.setCandidate(account, newCandidateMetadata(0)); err != nil {
		return err
	}
	if err := l.s.setTop(account, &Delegations{}); err != nil {
		return err
	}
	if err := l.s.setBottom(account, &Delegations{}); err != nil {
		return err
	}
	if err := l.s.setPool(pool); err != nil {
		return err
	}
	l.emit(JoinedSequencerCandidates{Account: account, AmountLocked: l.params.MinCandidateStk})
	return nil
}

// ScheduleLeaveCandidates takes the candidate out of the pool and schedules its exit.
func (l *Ledger) ScheduleLeaveCandidates(candidate seq.Address, candidateCount uint32) error {
	return l.call("schedule_leave_candidates", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		now, when, err := l.scheduleLeave(c)
		if err != nil {
			return err
		}
		pool, err := l.s.pool(l.params.MaxCandidates)
		if err != nil {
			return err
		}
		if candidateCount < uint32(pool.Len()) {
			return ErrTooLowCandidateCountToLeaveCandidates
		}
		if pool.Remove(candidate) {
			if err := l.s.setPool(pool); err != nil {
				return err
			}
		}
		if err := l.s.setCandidate(candidate, c); err != nil {
			return err
		}
		l.emit(CandidateScheduledExit{ExitAllowedRound: now, Candidate: candidate, ScheduledExit: when})
		logger.Info("candidate exit scheduled", "candidate", candidate, "round", when)
		return nil
	})
}

// ExecuteLeaveCandidates returns every delegation of a candidate whose exit is due, releases
// its lock and self bond, and removes it. Anyone may execute it.
func (l *Ledger) ExecuteLeaveCandidates(candidate seq.Address, delegationCount uint32) error {
	return l.call("execute_leave_candidates", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		if c.DelegationCount > delegationCount {
			return ErrTooLowCandidateDelegationCountToLeaveCandidates
		}
		if err := l.canLeave(c); err != nil {
			return err
		}

		top, err := l.s.top(candidate)
		if err != nil {
			return err
		}
		bottom, err := l.s.bottom(candidate)
		if err != nil {
			return err
		}
		for _, part := range []*Delegations{top, bottom} {
			for _, b := range part.Delegations {
				if err := l.returnStake(candidate, b.Owner); err != nil {
					return err
				}
			}
		}
		if err := l.transferAsset(l.account, candidate, c.Bond); err != nil {
			return errors.Wrap(err, "return self bond")
		}
		backing := seq.SaturatingAdd(c.Bond, seq.SaturatingAdd(top.Total, bottom.Total))

		if err := l.native.RemoveLock(seq.SequencerLockID, candidate); err != nil {
			return err
		}
		l.s.candidateInfo.Delete(candidate)
		l.s.scheduledRequests.Delete(candidate)
		l.s.topDelegations.Delete(candidate)
		l.s.bottomDelegations.Delete(candidate)
		total, err := l.s.subTotal(backing)
		if err != nil {
			return err
		}
		l.emit(CandidateLeft{ExCandidate: candidate, UnlockedAmount: backing, NewTotalAmtLocked: total})
		logger.Info("candidate left", "candidate", candidate, "unlocked", backing)
		return nil
	})
}

// returnStake gives a delegator back its delegation to a leaving candidate.
func (l *Ledger) returnStake(candidate, delegator seq.Address) error {
	d, err := l.s.getDelegator(delegator)
	if err != nil {
		return err
	}
	if d == nil {
		panic("delegator state missing for delegation " + delegator.String())
	}
	if _, err := l.rmDelegatorBond(d, candidate); err != nil {
		return err
	}
	if err := l.removeRequestWithState(candidate, delegator, d); err != nil {
		return err
	}
	if len(d.Delegations) == 0 {
		l.s.delegatorState.Delete(delegator)
		return nil
	}
	return l.s.setDelegator(d)
}

// CancelLeaveCandidates puts a leaving candidate back into the pool.
func (l *Ledger) CancelLeaveCandidates(candidate seq.Address, candidateCount uint32) error {
	return l.call("cancel_leave_candidates", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		if !c.IsLeaving() {
			return ErrCandidateNotLeaving
		}
		c.goOnline()
		pool, err := l.s.pool(l.params.MaxCandidates)
		if err != nil {
			return err
		}
		if uint32(pool.Len()) > candidateCount {
			return ErrTooLowCandidateCountWeightHintCancelLeaveCandidates
		}
		if err := l.insertIntoPool(pool, candidate, c.TotalCounted); err != nil {
			return err
		}
		if err := l.s.setCandidate(candidate, c); err != nil {
			return err
		}
		l.emit(CancelledCandidateExit{Candidate: candidate})
		return nil
	})
}

func (l *Ledger) insertIntoPool(pool *BondedSet, candidate seq.Address, total uint64) error {
	inserted, err := pool.TryInsert(Bond{Owner: candidate, Amount: total})
	if err != nil {
		return err
	}
	if !inserted {
		return ErrAlreadyActive
	}
	return l.s.setPool(pool)
}

// GoOffline takes an active candidate out of the pool without leaving.
func (l *Ledger) GoOffline(candidate seq.Address) error {
	return l.call("go_offline", func() error {
		return l.goOffline(candidate)
	})
}

func (l *Ledger) goOffline(candidate seq.Address) error {
	c, err := l.s.mustCandidate(candidate)
	if err != nil {
		return err
	}
	if !c.IsActive() {
		return ErrAlreadyOffline
	}
	c.goOffline()
	pool, err := l.s.pool(l.params.MaxCandidates)
	if err != nil {
		return err
	}
	if pool.Remove(candidate) {
		if err := l.s.setPool(pool); err != nil {
			return err
		}
	}
	if err := l.s.setCandidate(candidate, c); err != nil {
		return err
	}
	l.emit(CandidateWentOffline{Candidate: candidate})
	logger.Info("candidate offline", "candidate", candidate)
	return nil
}

// GoOnline puts an idle candidate back into the pool.
func (l *Ledger) GoOnline(candidate seq.Address) error {
	return l.call("go_online", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		if c.IsActive() {
			return ErrAlreadyActive
		}
		if c.IsLeaving() {
			return ErrCannotGoOnlineIfLeaving
		}
		c.goOnline()
		pool, err := l.s.pool(l.params.MaxCandidates)
		if err != nil {
			return err
		}
		if err := l.insertIntoPool(pool, candidate, c.TotalCounted); err != nil {
			return err
		}
		if err := l.s.setCandidate(candidate, c); err != nil {
			return err
		}
		l.emit(CandidateBackOnline{Candidate: candidate})
		logger.Info("candidate online", "candidate", candidate)
		return nil
	})
}

// CandidateBondMore increases the candidate's self bond.
func (l *Ledger) CandidateBondMore(candidate seq.Address, more uint64) error {
	return l.call("candidate_bond_more", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		if err := l.bondMore(candidate, c, more); err != nil {
			return err
		}
		if err := l.s.setCandidate(candidate, c); err != nil {
			return err
		}
		if c.IsActive() {
			return l.updateActive(candidate, c.TotalCounted)
		}
		return nil
	})
}

// ScheduleCandidateBondLess schedules a decrease of the candidate's self bond.
func (l *Ledger) ScheduleCandidateBondLess(candidate seq.Address, less uint64) error {
	return l.call("schedule_candidate_bond_less", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		when, err := l.scheduleBondLess(c, less)
		if err != nil {
			return err
		}
		if err := l.s.setCandidate(candidate, c); err != nil {
			return err
		}
		l.emit(CandidateBondLessRequested{Candidate: candidate, AmountToDecrease: less, ExecuteRound: when})
		return nil
	})
}

// ExecuteCandidateBondLess executes a due self bond decrease. Anyone may execute it.
func (l *Ledger) ExecuteCandidateBondLess(candidate seq.Address) error {
	return l.call("execute_candidate_bond_less", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		if err := l.executeBondLess(candidate, c); err != nil {
			return err
		}
		return l.s.setCandidate(candidate, c)
	})
}

// CancelCandidateBondLess drops the pending self bond decrease.
func (l *Ledger) CancelCandidateBondLess(candidate seq.Address) error {
	return l.call("cancel_candidate_bond_less", func() error {
		c, err := l.s.mustCandidate(candidate)
		if err != nil {
			return err
		}
		if err := l.cancelBondLess(candidate, c); err != nil {
			return err
		}
		return l.s.setCandidate(candidate, c)
	})
}

// Delegate moves amount of the delegator's asset into a delegation to an active candidate.
func (l *Ledger) Delegate(delegator, candidate seq.Address, amount uint64, candidateDelegationCount, delegationCount uint32) error {
	return l.call("delegate", func() error {
		logger.Debug("adding delegation", "candidate", candidate, "delegator", delegator, "amount", amount)
		if err := l.delegate(delegator, candidate, amount, candidateDelegationCount, delegationCount); err != nil {
			return err
		}
		logger.Info("delegation added", "candidate", candidate, "delegator", delegator)
		return nil
	})
}

func (l *Ledger) delegate(delegator, candidate seq.Address, amount uint64, candidateDelegationCount, delegationCount uint32) error {
	c, err := l.s.getCandidate(candidate)
	if err != nil {
		return err
	}
	if c == nil || !c.IsActive() {
		return ErrCandidateDNE
	}
	balance, err := l.asset.Balance(delegator)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance
	}
	if amount < l.params.MinDelegation {
		return ErrDelegationBelowMin
	}

	d, err := l.s.getDelegator(delegator)
	if err != nil {
		return err
	}
	if d != nil {
		if delegationCount < uint32(len(d.Delegations)) {
			return ErrTooLowDelegationCountToDelegate
		}
		if uint32(len(d.Delegations)) >= l.params.MaxDelegationsPerDelegator {
			return ErrExceedMaxDelegationsPerDelegator
		}
		if !d.addDelegation(Bond{Owner: candidate, Amount: amount}) {
			return ErrAlreadyDelegatedCandidate
		}
	} else {
		if ok, err := l.s.isCandidate(delegator); err != nil {
			return err
		} else if ok {
			return ErrCandidateExists
		}
		d = newDelegator(delegator, candidate, amount)
	}
	if candidateDelegationCount < c.DelegationCount {
		return ErrTooLowCandidateDelegationCountToDelegate
	}

	position, less, err := l.addDelegation(candidate, c, Bond{Owner: delegator, Amount: amount})
	if err != nil {
		return err
	}
	if err := l.transferAsset(delegator, l.account, amount); err != nil {
		return err
	}
	increase := amount
	if less != nil {
		increase = seq.SaturatingSub(amount, *less)
	}
	if err := l.s.addTotal(increase); err != nil {
		return err
	}
	if err := l.s.setCandidate(candidate, c); err != nil {
		return err
	}
	if err := l.s.setDelegator(d); err != nil {
		return err
	}
	l.emit(Delegation{Delegator: delegator, LockedAmount: amount, Candidate: candidate, DelegatorPosition: position})
	return nil
}

// ScheduleRevokeDelegation schedules the removal of the whole delegation to candidate.
func (l *Ledger) ScheduleRevokeDelegation(delegator, candidate seq.Address) error {
	return l.call("schedule_revoke_delegation", func() error {
		return l.scheduleRevoke(candidate, delegator)
	})
}

// DelegatorBondMore increases an existing delegation.
func (l *Ledger) DelegatorBondMore(delegator, candidate seq.Address, more uint64) error {
	return l.call("delegator_bond_more", func() error {
		d, err := l.mustDelegator(delegator)
		if err != nil {
			return err
		}
		revoking, err := l.revokeRequestExists(candidate, delegator)
		if err != nil {
			return err
		}
		if revoking {
			return ErrPendingDelegationRevoke
		}
		balance, err := l.asset.Balance(delegator)
		if err != nil {
			return err
		}
		if balance < more {
			return ErrInsufficientBalance
		}
		inTop, err := l.increaseDelegatorBond(d, candidate, more)
		if err != nil {
			return err
		}
		l.emit(DelegationIncreased{Delegator: delegator, Candidate: candidate, Amount: more, InTop: inTop})
		return nil
	})
}

// ScheduleDelegatorBondLess schedules a partial decrease of the delegation to candidate.
func (l *Ledger) ScheduleDelegatorBondLess(delegator, candidate seq.Address, less uint64) error {
	return l.call("schedule_delegator_bond_less", func() error {
		return l.scheduleDecrease(candidate, delegator, less)
	})
}

// ExecuteDelegationRequest executes the due request of delegator on candidate. Anyone may execute it.
func (l *Ledger) ExecuteDelegationRequest(delegator, candidate seq.Address) error {
	return l.call("execute_delegation_request", func() error {
		if err := l.executeRequest(candidate, delegator); err != nil {
			return err
		}
		logger.Info("delegation request executed", "candidate", candidate, "delegator", delegator)
		return nil
	})
}

// CancelDelegationRequest drops the pending request of delegator on candidate.
func (l *Ledger) CancelDelegationRequest(delegator, candidate seq.Address) error {
	return l.call("cancel_delegation_request", func() error {
		return l.cancelRequest(candidate, delegator)
	})
}

// NotifyInactiveSequencer reports a selected sequencer that earned no points during the last
// MaxOfflineRounds rounds. The sequencer is handed to the OnInactiveSequencer hook.
func (l *Ledger) NotifyInactiveSequencer(sequencer seq.Address) error {
	return l.call("notify_inactive_sequencer", func() error {
		enabled, err := l.s.markOffline.Get()
		if err != nil {
			return errors.Wrap(err, "get marking offline")
		}
		if !enabled {
			return ErrMarkingOfflineNotEnabled
		}
		selected, err := l.s.selected.Get()
		if err != nil {
			return errors.Wrap(err, "get selected")
		}
		limit, err := l.grouping.TotalSelected()
		if err != nil {
			return errors.Wrap(err, "total selected")
		}
		if uint64(len(selected))*3 <= uint64(limit)*2 {
			return ErrTooLowSequencerCountToNotifyAsInactive
		}
		round, err := l.s.getRound()
		if err != nil {
			return err
		}
		if round.Current <= l.params.MaxOfflineRounds {
			return ErrCurrentRoundTooLow
		}

		var inactive uint32
		for r := round.Current - l.params.MaxOfflineRounds; r < round.Current; r++ {
			snap, err := l.s.getAtStake(r, sequencer)
			if err != nil {
				return err
			}
			pts, err := l.s.getAwardedPts(r, sequencer)
			if err != nil {
				return err
			}
			if snap != nil && pts == 0 {
				inactive++
			}
		}
		if inactive != l.params.MaxOfflineRounds {
			return ErrCannotBeNotifiedAsInactive
		}
		logger.Info("sequencer notified as inactive", "sequencer", sequencer, "round", round.Current-1)
		l.onInactiveSequencer(sequencer, round.Current-1)
		return nil
	})
}

// onInactiveSequencer runs the hook as a nested call. Its failure is not the notifier's.
func (l *Ledger) onInactiveSequencer(sequencer seq.Address, round seq.RoundIndex) {
	err := l.callLocked("on_inactive_sequencer", func() error {
		if l.hooks.OnInactiveSequencer != nil {
			return l.hooks.OnInactiveSequencer(sequencer, round)
		}
		return l.goOffline(sequencer)
	})
	if err != nil {
		logger.Debug("inactive sequencer left as is", "sequencer", sequencer, "error", err)
	}
}
