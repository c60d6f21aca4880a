// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
)

// computeTopCandidates returns the best backed pool members, at most the grouping capacity,
// sorted by address. An empty result means the previous selection should be kept.
func (l *Ledger) computeTopCandidates() ([]seq.Address, error) {
	topN, err := l.grouping.TotalSelected()
	if err != nil {
		return nil, errors.Wrap(err, "total selected")
	}
	if topN == 0 {
		return nil, nil
	}
	pool, err := l.s.pool(l.params.MaxCandidates)
	if err != nil {
		return nil, err
	}
	bonds := pool.Bonds()
	if len(bonds) > int(topN) {
		// amount desc, then owner desc
		slices.SortFunc(bonds, func(a, b Bond) int {
			if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
				return c
			}
			return b.Owner.Compare(a.Owner)
		})
		bonds = bonds[:topN]
		slices.SortFunc(bonds, func(a, b Bond) int { return a.Owner.Compare(b.Owner) })
	}
	selected := make([]seq.Address, 0, len(bonds))
	for _, b := range bonds {
		selected = append(selected, b.Owner)
	}
	return selected, nil
}

// selectTopCandidates captures the stake of the next round's sequencers. When nothing qualifies
// the current snapshots and selection carry over. It returns the number of sequencers,
// their delegation count and their summed stake.
func (l *Ledger) selectTopCandidates(next seq.RoundIndex) (count uint32, delegations uint32, total uint64, err error) {
	selected, err := l.computeTopCandidates()
	if err != nil {
		return 0, 0, 0, err
	}
	if len(selected) == 0 {
		return l.carryOverSelection(next)
	}

	for _, account := range selected {
		c, err := l.s.getCandidate(account)
		if err != nil {
			return 0, 0, 0, err
		}
		if c == nil {
			panic("pool member without candidate info " + account.String())
		}
		count++
		delegations += c.DelegationCount
		total = seq.SaturatingAdd(total, c.TotalCounted)

		rewardable, uncounted, err := l.rewardableDelegations(account)
		if err != nil {
			return 0, 0, 0, err
		}
		snap := &Snapshot{
			Bond:        c.Bond,
			Delegations: rewardable,
			Total:       seq.SaturatingSub(c.TotalCounted, uncounted),
		}
		if err := l.s.putAtStake(next, account, snap); err != nil {
			return 0, 0, 0, err
		}
		l.emit(SequencerChosen{Round: next, SequencerAccount: account, TotalExposedAmount: c.TotalCounted})
	}
	if err := l.s.selected.Set(selected); err != nil {
		return 0, 0, 0, errors.Wrap(err, "set selected")
	}
	return count, delegations, total, nil
}

func (l *Ledger) carryOverSelection(next seq.RoundIndex) (count uint32, delegations uint32, total uint64, err error) {
	current := next - 1
	accounts, err := l.s.atStakeAccounts(current)
	if err != nil {
		return 0, 0, 0, err
	}
	totals := make(map[seq.Address]uint64, len(accounts))
	for _, account := range accounts {
		snap, err := l.s.getAtStake(current, account)
		if err != nil {
			return 0, 0, 0, err
		}
		if snap == nil {
			continue
		}
		count++
		delegations += uint32(len(snap.Delegations))
		total = seq.SaturatingAdd(total, snap.Total)
		totals[account] = snap.Total
		if err := l.s.putAtStake(next, account, snap); err != nil {
			return 0, 0, 0, err
		}
	}

	selected, err := l.s.selected.Get()
	if err != nil {
		return 0, 0, 0, errors.Wrap(err, "get selected")
	}
	for _, account := range selected {
		l.emit(SequencerChosen{Round: next, SequencerAccount: account, TotalExposedAmount: totals[account]})
	}
	logger.Debug("no candidate qualified, selection carried over", "round", next, "count", count)
	return count, delegations, total, nil
}

// rewardableDelegations returns the top delegations of sequencer with pending requests applied:
// a pending revoke counts as zero, a pending decrease as the reduced amount.
// The second result is the stake those requests take out of the counted total.
func (l *Ledger) rewardableDelegations(sequencer seq.Address) ([]Bond, uint64, error) {
	requests, err := l.s.requests(sequencer)
	if err != nil {
		return nil, 0, err
	}
	actions := make(map[seq.Address]DelegationAction, len(requests))
	for _, r := range requests {
		actions[r.Delegator] = r.Action
	}
	top, err := l.s.top(sequencer)
	if err != nil {
		return nil, 0, err
	}
	var uncounted uint64
	bonds := make([]Bond, 0, len(top.Delegations))
	for _, b := range top.Delegations {
		if a, ok := actions[b.Owner]; ok {
			if a.Revoke {
				uncounted = seq.SaturatingAdd(uncounted, b.Amount)
				b.Amount = 0
			} else {
				uncounted = seq.SaturatingAdd(uncounted, a.Amount)
				b.Amount = seq.SaturatingSub(b.Amount, a.Amount)
			}
		}
		bonds = append(bonds, b)
	}
	return bonds, uncounted, nil
}
