// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"
)

// POPS is one whole unit of the native token.
const POPS uint64 = 1_000_000_000_000

// Params are the static parameters of the ledger. They never change after start.
type Params struct {
	MinBlocksPerRound uint32 `yaml:"min-blocks-per-round"`
	// MaxOfflineRounds is the number of rounds a selected sequencer may stay without points.
	MaxOfflineRounds uint32 `yaml:"max-offline-rounds"`

	LeaveCandidatesDelay   uint32 `yaml:"leave-candidates-delay"`
	CandidateBondLessDelay uint32 `yaml:"candidate-bond-less-delay"`
	// RevokeDelegationDelay delays both revocations and decreases of a delegation.
	RevokeDelegationDelay uint32 `yaml:"revoke-delegation-delay"`
	RewardPaymentDelay    uint32 `yaml:"reward-payment-delay"`

	MaxTopDelegationsPerCandidate    uint32 `yaml:"max-top-delegations-per-candidate"`
	MaxBottomDelegationsPerCandidate uint32 `yaml:"max-bottom-delegations-per-candidate"`
	MaxDelegationsPerDelegator       uint32 `yaml:"max-delegations-per-delegator"`
	MaxCandidates                    uint32 `yaml:"max-candidates"`

	// MinCandidateStk is the native balance locked when joining the candidates.
	MinCandidateStk uint64 `yaml:"min-candidate-stk"`
	// MinDelegation is the smallest asset amount of a single delegation.
	MinDelegation uint64 `yaml:"min-delegation"`
	// RoundReward is the native amount paid out for every round that recorded points.
	RoundReward uint64 `yaml:"round-reward"`
}

// DefaultParams returns the parameters of a development network.
func DefaultParams() Params {
	return Params{
		MinBlocksPerRound:                3,
		MaxOfflineRounds:                 1,
		LeaveCandidatesDelay:             2,
		CandidateBondLessDelay:           2,
		RevokeDelegationDelay:            2,
		RewardPaymentDelay:               2,
		MaxTopDelegationsPerCandidate:    4,
		MaxBottomDelegationsPerCandidate: 4,
		MaxDelegationsPerDelegator:       4,
		MaxCandidates:                    200,
		MinCandidateStk:                  10,
		MinDelegation:                    3,
		RoundReward:                      POPS,
	}
}

// Validate checks the parameters are usable.
func (p *Params) Validate() error {
	if p.MinBlocksPerRound == 0 {
		return errors.New("min-blocks-per-round must be positive")
	}
	if p.MaxTopDelegationsPerCandidate == 0 {
		return errors.New("max-top-delegations-per-candidate must be positive")
	}
	if p.MaxBottomDelegationsPerCandidate == 0 {
		return errors.New("max-bottom-delegations-per-candidate must be positive")
	}
	if p.MaxDelegationsPerDelegator == 0 {
		return errors.New("max-delegations-per-delegator must be positive")
	}
	if p.MaxCandidates == 0 {
		return errors.New("max-candidates must be positive")
	}
	return nil
}

// maxScheduledRequests bounds the request list of a single candidate.
func (p *Params) maxScheduledRequests() int {
	return int(p.MaxTopDelegationsPerCandidate + p.MaxBottomDelegationsPerCandidate)
}
