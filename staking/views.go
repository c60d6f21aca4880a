// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
)

// Views read the state of the block being processed, including changes not committed yet.

func view[T any](l *Ledger, fn func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// CandidateInfo returns the metadata of a candidate, nil if it is not one.
func (l *Ledger) CandidateInfo(candidate seq.Address) (*CandidateMetadata, error) {
	return view(l, func() (*CandidateMetadata, error) { return l.s.getCandidate(candidate) })
}

// TopDelegations returns the counted delegations of a candidate, nil if it is not one.
func (l *Ledger) TopDelegations(candidate seq.Address) (*Delegations, error) {
	return view(l, func() (*Delegations, error) {
		d, ok, err := l.s.topDelegations.Get(candidate)
		if err != nil || !ok {
			return nil, errors.Wrap(err, "get top delegations")
		}
		return &d, nil
	})
}

// BottomDelegations returns the uncounted delegations of a candidate, nil if it is not one.
func (l *Ledger) BottomDelegations(candidate seq.Address) (*Delegations, error) {
	return view(l, func() (*Delegations, error) {
		d, ok, err := l.s.bottomDelegations.Get(candidate)
		if err != nil || !ok {
			return nil, errors.Wrap(err, "get bottom delegations")
		}
		return &d, nil
	})
}

// CandidateState is a candidate with its delegations and its pending requests.
type CandidateState struct {
	Metadata *CandidateMetadata
	Top      *Delegations
	Bottom   *Delegations
	Requests []ScheduledRequest
}

// Candidate reads the whole state of a candidate at once, nil if it is not one.
func (l *Ledger) Candidate(candidate seq.Address) (*CandidateState, error) {
	return view(l, func() (*CandidateState, error) {
		c, err := l.s.getCandidate(candidate)
		if err != nil || c == nil {
			return nil, err
		}
		top, err := l.s.top(candidate)
		if err != nil {
			return nil, err
		}
		bottom, err := l.s.bottom(candidate)
		if err != nil {
			return nil, err
		}
		requests, err := l.s.requests(candidate)
		if err != nil {
			return nil, err
		}
		return &CandidateState{Metadata: c, Top: top, Bottom: bottom, Requests: requests}, nil
	})
}

// DelegatorState returns the state of a delegator, nil if it is not one.
func (l *Ledger) DelegatorState(delegator seq.Address) (*Delegator, error) {
	return view(l, func() (*Delegator, error) { return l.s.getDelegator(delegator) })
}

// IsCandidate reports whether account is a candidate.
func (l *Ledger) IsCandidate(account seq.Address) (bool, error) {
	return view(l, func() (bool, error) { return l.s.isCandidate(account) })
}

// IsDelegator reports whether account is a delegator.
func (l *Ledger) IsDelegator(account seq.Address) (bool, error) {
	return view(l, func() (bool, error) { return l.s.isDelegator(account) })
}

// ScheduledRequests returns the pending delegation requests on a candidate, in scheduling order.
func (l *Ledger) ScheduledRequests(candidate seq.Address) ([]ScheduledRequest, error) {
	return view(l, func() ([]ScheduledRequest, error) { return l.s.requests(candidate) })
}

// CandidatePool returns the active candidates with their counted totals, ordered by address.
func (l *Ledger) CandidatePool() ([]Bond, error) {
	return view(l, func() ([]Bond, error) {
		pool, err := l.s.pool(l.params.MaxCandidates)
		if err != nil {
			return nil, err
		}
		return pool.Bonds(), nil
	})
}

// SelectedCandidates returns the sequencers selected for the current round, ordered by address.
func (l *Ledger) SelectedCandidates() ([]seq.Address, error) {
	return view(l, func() ([]seq.Address, error) {
		selected, err := l.s.selected.Get()
		return selected, errors.Wrap(err, "get selected")
	})
}

// Round returns the current round.
func (l *Ledger) Round() (RoundInfo, error) {
	return view(l, l.s.getRound)
}

// Total returns the asset amount locked in the ledger.
func (l *Ledger) Total() (uint64, error) {
	return view(l, l.s.getTotal)
}

// AtStake returns the snapshot of a sequencer for a round, nil if none was taken or it was paid.
func (l *Ledger) AtStake(round seq.RoundIndex, sequencer seq.Address) (*Snapshot, error) {
	return view(l, func() (*Snapshot, error) { return l.s.getAtStake(round, sequencer) })
}

// AtStakeAccounts returns the sequencers of a round still holding a snapshot, ordered by address.
func (l *Ledger) AtStakeAccounts(round seq.RoundIndex) ([]seq.Address, error) {
	return view(l, func() ([]seq.Address, error) { return l.s.atStakeAccounts(round) })
}

// Points returns the points recorded in a round.
func (l *Ledger) Points(round seq.RoundIndex) (seq.RewardPoint, error) {
	return view(l, func() (seq.RewardPoint, error) { return l.s.getPoints(round) })
}

// AwardedPoints returns the points of a sequencer in a round.
func (l *Ledger) AwardedPoints(round seq.RoundIndex, sequencer seq.Address) (seq.RewardPoint, error) {
	return view(l, func() (seq.RewardPoint, error) { return l.s.getAwardedPts(round, sequencer) })
}

// DelayedPayout returns the reward of a round waiting to be paid, nil if none.
func (l *Ledger) DelayedPayout(round seq.RoundIndex) (*DelayedPayout, error) {
	return view(l, func() (*DelayedPayout, error) { return l.s.getDelayedPayout(round) })
}

// SequencerCommission returns the sequencer share of the round reward.
func (l *Ledger) SequencerCommission() (seq.Perbill, error) {
	return view(l, func() (seq.Perbill, error) {
		c, err := l.s.commission.Get()
		return c, errors.Wrap(err, "get commission")
	})
}

// MarkingOfflineEnabled reports whether inactive sequencers can be notified.
func (l *Ledger) MarkingOfflineEnabled() (bool, error) {
	return view(l, func() (bool, error) {
		v, err := l.s.markOffline.Get()
		return v, errors.Wrap(err, "get marking offline")
	})
}

// AssetBalance returns the staking asset balance of an account.
func (l *Ledger) AssetBalance(account seq.Address) (uint64, error) {
	return view(l, func() (uint64, error) { return l.asset.Balance(account) })
}

// NativeBalance returns the free native balance of an account.
func (l *Ledger) NativeBalance(account seq.Address) (uint64, error) {
	return view(l, func() (uint64, error) { return l.native.Free(account) })
}
