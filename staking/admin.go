// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/balances"
	"github.com/vechain/sequencer/seq"
)

// Calls in this file are privileged. The node wires them to its operator surfaces only.

// maxHotfixCandidates bounds the list of HotfixRemoveDelegationRequests.
const maxHotfixCandidates = 100

// SetSequencerCommission sets the share of every round reward kept by the sequencers.
func (l *Ledger) SetSequencerCommission(commission seq.Perbill) error {
	return l.call("set_sequencer_commission", func() error {
		old, err := l.s.commission.Get()
		if err != nil {
			return errors.Wrap(err, "get commission")
		}
		if old == commission {
			return ErrNoWritingSameValue
		}
		if err := l.s.commission.Set(commission); err != nil {
			return errors.Wrap(err, "set commission")
		}
		l.emit(SequencerCommissionSet{Old: old, New: commission})
		logger.Info("sequencer commission set", "old", old, "new", commission)
		return nil
	})
}

// SetBlocksPerRound changes the length of the current and later rounds. The snapshot block
// moves along to three quarters of the new length.
func (l *Ledger) SetBlocksPerRound(blocks uint32) error {
	return l.call("set_blocks_per_round", func() error {
		if blocks < l.params.MinBlocksPerRound {
			return ErrCannotSetBelowMin
		}
		round, err := l.s.getRound()
		if err != nil {
			return err
		}
		old := round.Length
		if old == blocks {
			return ErrNoWritingSameValue
		}
		selected, err := l.grouping.TotalSelected()
		if err != nil {
			return errors.Wrap(err, "total selected")
		}
		if blocks <= selected {
			return ErrRoundLengthMustBeGreaterThanTotalSelectedSequencers
		}
		round.Length = blocks
		round.SnapshotTimePoint = snapshotTimePoint(blocks)
		if err := l.s.round.Set(round); err != nil {
			return errors.Wrap(err, "set round")
		}
		l.emit(BlocksPerRoundSet{CurrentRound: round.Current, FirstBlock: round.First, Old: old, New: blocks})
		logger.Info("blocks per round set", "old", old, "new", blocks)
		return nil
	})
}

func snapshotTimePoint(length uint32) uint32 {
	return uint32(uint64(length) * 3 / 4)
}

// EnableMarkingOffline switches NotifyInactiveSequencer on or off.
func (l *Ledger) EnableMarkingOffline(enabled bool) error {
	return l.call("enable_marking_offline", func() error {
		return errors.Wrap(l.s.markOffline.Set(enabled), "set marking offline")
	})
}

// ForceJoinCandidates joins the candidates on behalf of account.
func (l *Ledger) ForceJoinCandidates(account seq.Address, candidateCount uint32) error {
	return l.call("force_join_candidates", func() error {
		return l.joinCandidates(account, candidateCount)
	})
}

// ChargeRewardAccount funds the reward pot with native tokens of from.
func (l *Ledger) ChargeRewardAccount(from seq.Address, amount uint64) error {
	return l.call("charge_reward_account", func() error {
		if err := l.native.Transfer(from, l.account, amount); err != nil {
			if errors.Is(err, balances.ErrInsufficientBalance) {
				return ErrInsufficientBalance
			}
			return err
		}
		logger.Debug("reward account charged", "from", from, "amount", amount)
		return nil
	})
}

// HotfixRemoveDelegationRequests deletes the request lists of candidates that already left.
func (l *Ledger) HotfixRemoveDelegationRequests(candidates []seq.Address) error {
	return l.call("hotfix_remove_delegation_requests", func() error {
		if len(candidates) >= maxHotfixCandidates {
			return ErrTooManyCandidates
		}
		for _, candidate := range candidates {
			if ok, err := l.s.isCandidate(candidate); err != nil {
				return err
			} else if ok {
				return ErrCandidateNotLeaving
			}
			requests, err := l.s.requests(candidate)
			if err != nil {
				return err
			}
			if len(requests) > 0 {
				return ErrCandidateNotLeaving
			}
		}
		for _, candidate := range candidates {
			l.s.scheduledRequests.Delete(candidate)
		}
		return nil
	})
}
