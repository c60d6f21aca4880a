// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
)

// onInitialize switches rounds, pays one sequencer of a past round per block, and captures
// the stake of the next round at the snapshot block.
func (l *Ledger) onInitialize(now seq.BlockNumber) error {
	round, err := l.s.getRound()
	if err != nil {
		return err
	}
	if round.ShouldUpdate(now) {
		round.Update(now)
		if err := l.onNewRound(round.Current); err != nil {
			return err
		}
		if err := l.preparePayouts(round.Current); err != nil {
			return err
		}
		selected, err := l.s.selected.Get()
		if err != nil {
			return errors.Wrap(err, "get selected")
		}
		if err := l.s.round.Set(round); err != nil {
			return errors.Wrap(err, "set round")
		}
		metricRound().Set(int64(round.Current))
		logger.Info("new round", "round", round.Current, "first", round.First, "selected", len(selected))
		l.emit(NewRound{StartingBlock: round.First, Round: round.Current, SelectedSequencersNumber: uint32(len(selected))})
	} else if err := l.handleDelayedPayouts(round.Current); err != nil {
		return err
	}

	if round.ShouldSnapshot(now) {
		next := seq.SaturatingAdd32(round.Current, 1)
		count, _, total, err := l.selectTopCandidates(next)
		if err != nil {
			return err
		}
		l.emit(CandidatesSelected{Round: next, SelectedSequencersNumber: count, TotalBalance: total})

		selected, err := l.s.selected.Get()
		if err != nil {
			return errors.Wrap(err, "get selected")
		}
		first := seq.SaturatingAdd32(round.First, round.Length)
		// a grouping failure keeps the previous groups in place
		if err := l.triggerGroup(selected, first, next); err != nil {
			logger.Warn("failed to group sequencers", "round", next, "error", err)
		}
	}
	return nil
}

// triggerGroup runs the grouping as a nested call so a failure drops only its own changes.
func (l *Ledger) triggerGroup(selected []seq.Address, first seq.BlockNumber, round seq.RoundIndex) error {
	return l.callLocked("trigger_group", func() error {
		return l.grouping.TriggerGroup(selected, first, round)
	})
}

func (l *Ledger) onNewRound(round seq.RoundIndex) error {
	if l.hooks.OnNewRound == nil {
		return nil
	}
	return l.hooks.OnNewRound(round)
}

// preparePayouts records the reward of the round that just ended, if it recorded any points.
func (l *Ledger) preparePayouts(current seq.RoundIndex) error {
	ended := current - 1
	points, err := l.s.getPoints(ended)
	if err != nil {
		return err
	}
	if points == 0 {
		return nil
	}
	commission, err := l.s.commission.Get()
	if err != nil {
		return errors.Wrap(err, "get commission")
	}
	payout := DelayedPayout{RoundIssuance: l.params.RoundReward, SequencerCommission: commission}
	return errors.Wrap(l.s.delayedPayouts.Set(roundKey(ended), payout), "set delayed payout")
}

// handleDelayedPayouts pays one sequencer of the round RewardPaymentDelay rounds back,
// and cleans up once every sequencer of that round was handled.
func (l *Ledger) handleDelayedPayouts(now seq.RoundIndex) error {
	if now < l.params.RewardPaymentDelay {
		return nil
	}
	paid := now - l.params.RewardPaymentDelay
	payout, err := l.s.getDelayedPayout(paid)
	if err != nil || payout == nil {
		return err
	}
	result, err := l.payOneSequencerReward(paid, payout)
	if err != nil {
		return err
	}
	metricPayouts().AddWithLabel(1, map[string]string{"result": result.String()})
	if result == RewardFinished {
		l.s.delayedPayouts.Delete(roundKey(paid))
		l.s.points.Delete(roundKey(paid))
		logger.Debug("round paid out", "round", paid)
	}
	return nil
}

// payOneSequencerReward pays the sequencer with the lowest address still waiting in the round,
// and its rewardable delegators.
func (l *Ledger) payOneSequencerReward(round seq.RoundIndex, payout *DelayedPayout) (RewardPayment, error) {
	totalPoints, err := l.s.getPoints(round)
	if err != nil {
		return 0, err
	}
	if totalPoints == 0 {
		logger.Warn("payout of a round without points", "round", round)
		return RewardFinished, nil
	}
	sequencerIssuance := payout.SequencerCommission.Mul(payout.RoundIssuance)
	stakingIssuance := seq.SaturatingSub(payout.RoundIssuance, sequencerIssuance)

	sequencer, snap, err := l.s.takeAtStake(round)
	if err != nil {
		return 0, err
	}
	if snap == nil {
		return RewardFinished, nil
	}
	pts, err := l.s.getAwardedPts(round, sequencer)
	if err != nil {
		return 0, err
	}
	l.s.awardedPts.Delete(roundAccountKey{round, sequencer})
	if pts == 0 {
		return RewardSkipped, nil
	}

	pctDue := seq.PerbillFromRational(uint64(pts), uint64(totalPoints))
	due := pctDue.Mul(stakingIssuance)
	if len(snap.Delegations) == 0 {
		l.paySequencer(round, sequencer, due)
		return RewardPaid, nil
	}

	commission := pctDue.Mul(sequencerIssuance)
	due = seq.SaturatingSub(due, commission)
	own := seq.PerbillFromRational(snap.Bond, snap.Total).Mul(due)
	l.paySequencer(round, sequencer, seq.SaturatingAdd(own, commission))

	for _, b := range snap.Delegations {
		if amount := seq.PerbillFromRational(b.Amount, snap.Total).Mul(due); amount > 0 {
			l.payoutReward(b.Owner, amount)
		}
	}
	return RewardPaid, nil
}

func (l *Ledger) paySequencer(round seq.RoundIndex, sequencer seq.Address, amount uint64) {
	if l.hooks.PayoutSequencerReward != nil {
		if err := l.hooks.PayoutSequencerReward(round, sequencer, amount); err != nil {
			logger.Warn("sequencer payout hook failed", "round", round, "sequencer", sequencer, "error", err)
		}
	} else {
		l.payoutReward(sequencer, amount)
	}
	if l.hooks.OnSequencerPayout != nil {
		if err := l.hooks.OnSequencerPayout(round, sequencer, amount); err != nil {
			logger.Warn("on sequencer payout hook failed", "round", round, "sequencer", sequencer, "error", err)
		}
	}
}

// payoutReward transfers native reward out of the staking account. A failed transfer is
// skipped silently, without a Rewarded event.
func (l *Ledger) payoutReward(account seq.Address, amount uint64) {
	if err := l.native.Transfer(l.account, account, amount); err != nil {
		logger.Debug("reward not paid", "account", account, "amount", amount, "error", err)
		return
	}
	l.emit(Rewarded{Account: account, Rewards: amount})
}
