// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/seq"
)

// Endowment is the initial balance of an account.
type Endowment struct {
	Account seq.Address
	Native  uint64
	Asset   uint64
}

// GenesisDelegation is a delegation placed at genesis.
type GenesisDelegation struct {
	Delegator seq.Address
	Candidate seq.Address
	Amount    uint64
}

// GenesisConfig is the initial state of the ledger.
type GenesisConfig struct {
	Endowments          []Endowment
	Candidates          []seq.Address
	Delegations         []GenesisDelegation
	SequencerCommission seq.Perbill
	BlocksPerRound      uint32
	MarkingOffline      bool
}

// ErrAlreadyInitialized is returned when building genesis over an initialized ledger.
var ErrAlreadyInitialized = errors.New("ledger already initialized")

// BuildGenesis writes the initial state and selects the sequencers of round 1. Candidates and
// delegations that can't be placed are skipped with a warning. The grouping must already be
// configured, as it bounds the selection.
func (l *Ledger) BuildGenesis(cfg *GenesisConfig) error {
	if cfg.BlocksPerRound == 0 {
		return errors.New("blocks per round must be positive")
	}
	return l.call("genesis", func() error {
		round, err := l.s.getRound()
		if err != nil {
			return err
		}
		if round.Current != 0 {
			return ErrAlreadyInitialized
		}

		for _, e := range cfg.Endowments {
			if err := l.native.Mint(e.Account, e.Native); err != nil {
				return errors.Wrapf(err, "endow %v", e.Account)
			}
			if err := l.asset.Mint(e.Account, e.Asset); err != nil {
				return errors.Wrapf(err, "endow %v", e.Account)
			}
		}

		var candidates uint32
		for _, c := range cfg.Candidates {
			err := l.callLocked("join_candidates", func() error {
				return l.joinCandidates(c, candidates)
			})
			if err != nil {
				logger.Warn("genesis candidate skipped", "account", c, "error", err)
				continue
			}
			candidates++
		}

		candidateCounts := make(map[seq.Address]uint32)
		delegatorCounts := make(map[seq.Address]uint32)
		for _, d := range cfg.Delegations {
			err := l.callLocked("delegate", func() error {
				return l.delegate(d.Delegator, d.Candidate, d.Amount, candidateCounts[d.Candidate], delegatorCounts[d.Delegator])
			})
			if err != nil {
				logger.Warn("genesis delegation skipped", "delegator", d.Delegator, "candidate", d.Candidate, "error", err)
				continue
			}
			candidateCounts[d.Candidate]++
			delegatorCounts[d.Delegator]++
		}

		if err := l.s.commission.Set(cfg.SequencerCommission); err != nil {
			return errors.Wrap(err, "set commission")
		}
		if err := l.s.markOffline.Set(cfg.MarkingOffline); err != nil {
			return errors.Wrap(err, "set marking offline")
		}

		count, _, total, err := l.selectTopCandidates(1)
		if err != nil {
			return err
		}
		round = RoundInfo{
			Current:           1,
			First:             0,
			Length:            cfg.BlocksPerRound,
			SnapshotTimePoint: snapshotTimePoint(cfg.BlocksPerRound),
		}
		if err := l.s.round.Set(round); err != nil {
			return errors.Wrap(err, "set round")
		}
		metricRound().Set(1)
		l.emit(NewRound{StartingBlock: 0, Round: 1, SelectedSequencersNumber: count})
		logger.Info("genesis built", "candidates", candidates, "selected", count, "total", total)
		return nil
	})
}
