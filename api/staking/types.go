// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

// Round is the current round.
type Round struct {
	Current           seq.RoundIndex  `json:"current"`
	First             seq.BlockNumber `json:"first"`
	Length            uint32          `json:"length"`
	SnapshotTimePoint uint32          `json:"snapshotTimePoint"`
}

// Total is the asset amount locked in the ledger.
type Total struct {
	Total uint64 `json:"total"`
}

// Candidate is a candidate with its delegations and pending requests.
type Candidate struct {
	Account                       seq.Address                `json:"account"`
	Bond                          uint64                     `json:"bond"`
	DelegationCount               uint32                     `json:"delegationCount"`
	TotalCounted                  uint64                     `json:"totalCounted"`
	LowestTopDelegationAmount     uint64                     `json:"lowestTopDelegationAmount"`
	HighestBottomDelegationAmount uint64                     `json:"highestBottomDelegationAmount"`
	LowestBottomDelegationAmount  uint64                     `json:"lowestBottomDelegationAmount"`
	TopCapacity                   string                     `json:"topCapacity"`
	BottomCapacity                string                     `json:"bottomCapacity"`
	Status                        string                     `json:"status"`
	LeavingRound                  *seq.RoundIndex            `json:"leavingRound"`
	BondLessRequest               *BondLessRequest           `json:"bondLessRequest"`
	Top                           []staking.Bond             `json:"top"`
	Bottom                        []staking.Bond             `json:"bottom"`
	Requests                      []staking.ScheduledRequest `json:"requests"`
}

// BondLessRequest is a pending self bond decrease.
type BondLessRequest struct {
	Amount         uint64         `json:"amount"`
	WhenExecutable seq.RoundIndex `json:"whenExecutable"`
}

func convertCandidate(account seq.Address, c *staking.CandidateMetadata, top, bottom *staking.Delegations, requests []staking.ScheduledRequest) *Candidate {
	out := &Candidate{
		Account:                       account,
		Bond:                          c.Bond,
		DelegationCount:               c.DelegationCount,
		TotalCounted:                  c.TotalCounted,
		LowestTopDelegationAmount:     c.LowestTopDelegationAmount,
		HighestBottomDelegationAmount: c.HighestBottomDelegationAmount,
		LowestBottomDelegationAmount:  c.LowestBottomDelegationAmount,
		TopCapacity:                   c.TopCapacity.String(),
		BottomCapacity:                c.BottomCapacity.String(),
		Status:                        c.Status.String(),
		Top:                           []staking.Bond{},
		Bottom:                        []staking.Bond{},
		Requests:                      requests,
	}
	if c.Status == staking.StatusLeaving {
		round := c.LeavingRound
		out.LeavingRound = &round
	}
	if c.Request != nil {
		out.BondLessRequest = &BondLessRequest{Amount: c.Request.Amount, WhenExecutable: c.Request.WhenExecutable}
	}
	if top != nil && len(top.Delegations) > 0 {
		out.Top = top.Delegations
	}
	if bottom != nil && len(bottom.Delegations) > 0 {
		out.Bottom = bottom.Delegations
	}
	if out.Requests == nil {
		out.Requests = []staking.ScheduledRequest{}
	}
	return out
}

// Delegator is the state of a delegator.
type Delegator struct {
	Account     seq.Address    `json:"account"`
	Delegations []staking.Bond `json:"delegations"`
	Total       uint64         `json:"total"`
	LessTotal   uint64         `json:"lessTotal"`
}

// AtStake is the snapshot of a sequencer for a round.
type AtStake struct {
	Round       seq.RoundIndex `json:"round"`
	Sequencer   seq.Address    `json:"sequencer"`
	Bond        uint64         `json:"bond"`
	Delegations []staking.Bond `json:"delegations"`
	Total       uint64         `json:"total"`
}

// Points are the points of a round and its pending payout.
type Points struct {
	Round         seq.RoundIndex `json:"round"`
	Total         uint32         `json:"total"`
	DelayedPayout *Payout        `json:"delayedPayout"`
}

// Payout is the reward of a round waiting to be paid.
type Payout struct {
	RoundIssuance       uint64      `json:"roundIssuance"`
	SequencerCommission seq.Perbill `json:"sequencerCommission"`
}
