// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/sequencer/seq"
)

func findRequest(requests []ScheduledRequest, delegator seq.Address) int {
	for i, r := range requests {
		if r.Delegator == delegator {
			return i
		}
	}
	return -1
}

func (l *Ledger) mustDelegator(addr seq.Address) (*Delegator, error) {
	d, err := l.s.getDelegator(addr)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDelegatorDNE
	}
	return d, nil
}

func (l *Ledger) pushRequest(candidate seq.Address, requests []ScheduledRequest, r ScheduledRequest) error {
	if len(requests) >= l.params.maxScheduledRequests() {
		return ErrExceedMaxDelegationsPerDelegator
	}
	return l.s.setRequests(candidate, append(requests, r))
}

func (l *Ledger) scheduleRevoke(candidate, delegator seq.Address) error {
	d, err := l.mustDelegator(delegator)
	if err != nil {
		return err
	}
	requests, err := l.s.requests(candidate)
	if err != nil {
		return err
	}
	if findRequest(requests, delegator) >= 0 {
		return ErrPendingDelegationRequestAlreadyExists
	}
	bonded, ok := d.BondAmount(candidate)
	if !ok {
		return ErrDelegationDNE
	}
	round, err := l.s.getRound()
	if err != nil {
		return err
	}
	when := seq.SaturatingAdd32(round.Current, l.params.RevokeDelegationDelay)
	if err := l.pushRequest(candidate, requests, ScheduledRequest{
		Delegator:      delegator,
		WhenExecutable: when,
		Action:         DelegationAction{Revoke: true, Amount: bonded},
	}); err != nil {
		return err
	}
	d.LessTotal = seq.SaturatingAdd(d.LessTotal, bonded)
	if err := l.s.setDelegator(d); err != nil {
		return err
	}
	l.emit(DelegationRevocationScheduled{Round: round.Current, Delegator: delegator, Candidate: candidate, ScheduledExit: when})
	return nil
}

// scheduleDecrease schedules a partial decrease. Both the remaining delegation and the delegator
// total net of every pending request must stay at or above the minimum delegation.
func (l *Ledger) scheduleDecrease(candidate, delegator seq.Address, less uint64) error {
	d, err := l.mustDelegator(delegator)
	if err != nil {
		return err
	}
	requests, err := l.s.requests(candidate)
	if err != nil {
		return err
	}
	if findRequest(requests, delegator) >= 0 {
		return ErrPendingDelegationRequestAlreadyExists
	}
	bonded, ok := d.BondAmount(candidate)
	if !ok {
		return ErrDelegationDNE
	}
	if bonded <= less {
		return ErrDelegatorBondBelowMin
	}
	if bonded-less < l.params.MinDelegation {
		return ErrDelegationBelowMin
	}
	// other pending requests never cover this delegation, so this can't be stricter than the check above
	netTotal := seq.SaturatingSub(d.Total, d.LessTotal)
	if less > seq.SaturatingSub(netTotal, l.params.MinDelegation) {
		return ErrDelegatorBondBelowMin
	}
	round, err := l.s.getRound()
	if err != nil {
		return err
	}
	when := seq.SaturatingAdd32(round.Current, l.params.RevokeDelegationDelay)
	if err := l.pushRequest(candidate, requests, ScheduledRequest{
		Delegator:      delegator,
		WhenExecutable: when,
		Action:         DelegationAction{Amount: less},
	}); err != nil {
		return err
	}
	d.LessTotal = seq.SaturatingAdd(d.LessTotal, less)
	if err := l.s.setDelegator(d); err != nil {
		return err
	}
	l.emit(DelegationDecreaseScheduled{Delegator: delegator, Candidate: candidate, AmountToDecrease: less, ExecuteRound: when})
	return nil
}

func (l *Ledger) cancelRequest(candidate, delegator seq.Address) error {
	d, err := l.mustDelegator(delegator)
	if err != nil {
		return err
	}
	requests, err := l.s.requests(candidate)
	if err != nil {
		return err
	}
	i := findRequest(requests, delegator)
	if i < 0 {
		return ErrPendingDelegationRequestDNE
	}
	r := requests[i]
	requests = append(requests[:i], requests[i+1:]...)
	d.LessTotal = seq.SaturatingSub(d.LessTotal, r.Action.Amount)
	if err := l.s.setRequests(candidate, requests); err != nil {
		return err
	}
	if err := l.s.setDelegator(d); err != nil {
		return err
	}
	l.emit(CancelledDelegationRequest{
		Delegator:        delegator,
		CancelledRequest: CancelledScheduledRequest{WhenExecutable: r.WhenExecutable, Action: r.Action},
		Sequencer:        candidate,
	})
	return nil
}

func (l *Ledger) executeRequest(candidate, delegator seq.Address) error {
	d, err := l.mustDelegator(delegator)
	if err != nil {
		return err
	}
	requests, err := l.s.requests(candidate)
	if err != nil {
		return err
	}
	i := findRequest(requests, delegator)
	if i < 0 {
		return ErrPendingDelegationRequestDNE
	}
	r := requests[i]
	round, err := l.s.getRound()
	if err != nil {
		return err
	}
	if r.WhenExecutable > round.Current {
		return ErrPendingDelegationRequestNotDueYet
	}
	requests = append(requests[:i], requests[i+1:]...)
	amount := r.Action.Amount

	if r.Action.Revoke {
		return l.executeRevoke(candidate, d, requests, amount)
	}
	return l.executeDecrease(candidate, d, requests, amount)
}

func (l *Ledger) executeRevoke(candidate seq.Address, d *Delegator, requests []ScheduledRequest, amount uint64) error {
	leaving := len(d.Delegations) == 1
	if !leaving && seq.SaturatingSub(d.Total, l.params.MinDelegation) < amount {
		return ErrDelegatorBondBelowMin
	}
	d.LessTotal = seq.SaturatingSub(d.LessTotal, amount)
	if _, err := l.rmDelegatorBond(d, candidate); err != nil {
		return err
	}
	if err := l.delegatorLeavesCandidate(candidate, d.ID, amount); err != nil {
		return err
	}
	l.emit(DelegationRevoked{Delegator: d.ID, Candidate: candidate, UnstakedAmount: amount})
	if err := l.s.setRequests(candidate, requests); err != nil {
		return err
	}
	if leaving {
		l.s.delegatorState.Delete(d.ID)
		l.emit(DelegatorLeft{Delegator: d.ID, UnstakedAmount: amount})
		return nil
	}
	return l.s.setDelegator(d)
}

func (l *Ledger) executeDecrease(candidate seq.Address, d *Delegator, requests []ScheduledRequest, amount uint64) error {
	d.LessTotal = seq.SaturatingSub(d.LessTotal, amount)
	i, found := d.search(candidate)
	if !found {
		return ErrDelegationDNE
	}
	before := d.Delegations[i].Amount
	if before <= amount {
		return ErrDelegationBelowMin
	}
	d.Delegations[i].Amount = before - amount

	c, err := l.s.mustCandidate(candidate)
	if err != nil {
		return err
	}
	if err := l.subDelegatorTotal(d, amount, func(total uint64) error {
		if total < l.params.MinDelegation {
			return ErrDelegationBelowMin
		}
		return nil
	}); err != nil {
		return err
	}
	inTop, err := l.decreaseDelegation(candidate, c, d.ID, before, amount)
	if err != nil {
		return err
	}
	if err := l.s.setCandidate(candidate, c); err != nil {
		return err
	}
	if _, err := l.s.subTotal(amount); err != nil {
		return err
	}
	if err := l.s.setRequests(candidate, requests); err != nil {
		return err
	}
	if err := l.s.setDelegator(d); err != nil {
		return err
	}
	l.emit(DelegationDecreased{Delegator: d.ID, Candidate: candidate, Amount: amount, InTop: inTop})
	return nil
}

// removeRequestWithState drops the request of delegator on candidate, if any, releasing its reservation.
func (l *Ledger) removeRequestWithState(candidate, delegator seq.Address, d *Delegator) error {
	requests, err := l.s.requests(candidate)
	if err != nil {
		return err
	}
	i := findRequest(requests, delegator)
	if i < 0 {
		return nil
	}
	d.LessTotal = seq.SaturatingSub(d.LessTotal, requests[i].Action.Amount)
	return l.s.setRequests(candidate, append(requests[:i], requests[i+1:]...))
}

func (l *Ledger) revokeRequestExists(candidate, delegator seq.Address) (bool, error) {
	requests, err := l.s.requests(candidate)
	if err != nil {
		return false, err
	}
	i := findRequest(requests, delegator)
	return i >= 0 && requests[i].Action.Revoke, nil
}

// delegatorLeavesCandidate takes a revoked delegation off the candidate's partitions.
func (l *Ledger) delegatorLeavesCandidate(candidate, delegator seq.Address, amount uint64) error {
	c, err := l.s.mustCandidate(candidate)
	if err != nil {
		return err
	}
	if err := l.rmDelegationIfExists(candidate, c, delegator, amount); err != nil {
		return err
	}
	if _, err := l.s.subTotal(amount); err != nil {
		return err
	}
	if err := l.s.setCandidate(candidate, c); err != nil {
		return err
	}
	l.emit(DelegatorLeftCandidate{Delegator: delegator, Candidate: candidate, UnstakedAmount: amount, TotalCandidateStaked: c.TotalCounted})
	return nil
}
