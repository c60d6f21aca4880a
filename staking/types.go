// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/sequencer/seq"
)

// Bond is an amount staked by, or towards, an owner. Sets of bonds are keyed by owner only.
type Bond struct {
	Owner  seq.Address `json:"owner"`
	Amount uint64      `json:"amount"`
}

// CapacityStatus tells how full a delegation partition is.
type CapacityStatus uint8

const (
	CapacityEmpty CapacityStatus = iota
	CapacityPartial
	CapacityFull
)

func (c CapacityStatus) String() string {
	switch c {
	case CapacityFull:
		return "full"
	case CapacityPartial:
		return "partial"
	default:
		return "empty"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c CapacityStatus) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CandidateStatus is the lifecycle state of a candidate.
type CandidateStatus uint8

const (
	// StatusActive candidates are in the pool and can be selected.
	StatusActive CandidateStatus = iota
	// StatusIdle candidates went offline and are out of the pool.
	StatusIdle
	// StatusLeaving candidates scheduled their exit.
	StatusLeaving
)

func (s CandidateStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusIdle:
		return "idle"
	default:
		return "leaving"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s CandidateStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CandidateBondLessRequest is a pending decrease of a candidate's self bond.
type CandidateBondLessRequest struct {
	Amount         uint64         `json:"amount"`
	WhenExecutable seq.RoundIndex `json:"whenExecutable"`
}

// CandidateMetadata caches what is needed to rank and pay a candidate without loading its delegations.
type CandidateMetadata struct {
	Bond                          uint64                    `json:"bond"`
	DelegationCount               uint32                    `json:"delegationCount"`
	TotalCounted                  uint64                    `json:"totalCounted"`
	LowestTopDelegationAmount     uint64                    `json:"lowestTopDelegationAmount"`
	HighestBottomDelegationAmount uint64                    `json:"highestBottomDelegationAmount"`
	LowestBottomDelegationAmount  uint64                    `json:"lowestBottomDelegationAmount"`
	TopCapacity                   CapacityStatus            `json:"topCapacity"`
	BottomCapacity                CapacityStatus            `json:"bottomCapacity"`
	Request                       *CandidateBondLessRequest `json:"request" rlp:"nil"`
	Status                        CandidateStatus           `json:"status"`
	// LeavingRound is the round from which the exit can be executed, meaningful when leaving.
	LeavingRound seq.RoundIndex `json:"leavingRound,omitempty"`
}

func newCandidateMetadata(bond uint64) *CandidateMetadata {
	return &CandidateMetadata{
		Bond:         bond,
		TotalCounted: bond,
		Status:       StatusActive,
	}
}

func (c *CandidateMetadata) IsActive() bool  { return c.Status == StatusActive }
func (c *CandidateMetadata) IsLeaving() bool { return c.Status == StatusLeaving }

func (c *CandidateMetadata) goOffline() { c.Status = StatusIdle }

func (c *CandidateMetadata) goOnline() {
	c.Status = StatusActive
	c.LeavingRound = 0
}

// Delegations is one partition of a candidate's delegations, sorted by amount descending.
type Delegations struct {
	Delegations []Bond `json:"delegations"`
	Total       uint64 `json:"total"`
}

// insertSorted inserts d after every delegation of greater or equal amount, so equal amounts keep arrival order.
func (d *Delegations) insertSorted(b Bond) {
	d.Total = seq.SaturatingAdd(d.Total, b.Amount)
	n := len(d.Delegations)
	if n == 0 || d.Delegations[n-1].Amount >= b.Amount {
		d.Delegations = append(d.Delegations, b)
		return
	}
	i := 0
	for i < n && d.Delegations[i].Amount >= b.Amount {
		i++
	}
	d.Delegations = append(d.Delegations, Bond{})
	copy(d.Delegations[i+1:], d.Delegations[i:])
	d.Delegations[i] = b
}

// sort restores the descending order after amounts were changed in place. The sort is stable.
func (d *Delegations) sort() {
	for i := 1; i < len(d.Delegations); i++ {
		for j := i; j > 0 && d.Delegations[j-1].Amount < d.Delegations[j].Amount; j-- {
			d.Delegations[j-1], d.Delegations[j] = d.Delegations[j], d.Delegations[j-1]
		}
	}
}

// remove takes out the delegation of owner.
func (d *Delegations) remove(owner seq.Address) (Bond, bool) {
	for i, b := range d.Delegations {
		if b.Owner == owner {
			d.Delegations = append(d.Delegations[:i], d.Delegations[i+1:]...)
			return b, true
		}
	}
	return Bond{}, false
}

// popLowest takes out the last delegation.
func (d *Delegations) popLowest() (Bond, bool) {
	n := len(d.Delegations)
	if n == 0 {
		return Bond{}, false
	}
	b := d.Delegations[n-1]
	d.Delegations = d.Delegations[:n-1]
	return b, true
}

// popHighest takes out the first delegation.
func (d *Delegations) popHighest() (Bond, bool) {
	if len(d.Delegations) == 0 {
		return Bond{}, false
	}
	b := d.Delegations[0]
	d.Delegations = d.Delegations[1:]
	return b, true
}

func (d *Delegations) find(owner seq.Address) int {
	for i, b := range d.Delegations {
		if b.Owner == owner {
			return i
		}
	}
	return -1
}

func (d *Delegations) capacity(limit uint32) CapacityStatus {
	switch {
	case uint32(len(d.Delegations)) >= limit:
		return CapacityFull
	case len(d.Delegations) == 0:
		return CapacityEmpty
	default:
		return CapacityPartial
	}
}

func (d *Delegations) lowest() uint64 {
	if n := len(d.Delegations); n > 0 {
		return d.Delegations[n-1].Amount
	}
	return 0
}

func (d *Delegations) highest() uint64 {
	if len(d.Delegations) > 0 {
		return d.Delegations[0].Amount
	}
	return 0
}

// DelegatorStatus is the state of a delegator. Only active delegators exist.
type DelegatorStatus uint8

const DelegatorActive DelegatorStatus = 0

// Delegator is the state of an account delegating to one or more candidates.
type Delegator struct {
	ID seq.Address `json:"id"`
	// Delegations are sorted by candidate address, one per candidate.
	Delegations []Bond `json:"delegations"`
	Total       uint64 `json:"total"`
	// LessTotal is the amount reserved by pending revoke and decrease requests.
	LessTotal uint64          `json:"lessTotal"`
	Status    DelegatorStatus `json:"status"`
}

func newDelegator(id, candidate seq.Address, amount uint64) *Delegator {
	return &Delegator{
		ID:          id,
		Delegations: []Bond{{candidate, amount}},
		Total:       amount,
	}
}

func (d *Delegator) search(candidate seq.Address) (int, bool) {
	lo, hi := 0, len(d.Delegations)
	for lo < hi {
		mid := (lo + hi) / 2
		switch d.Delegations[mid].Owner.Compare(candidate) {
		case 0:
			return mid, true
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// addDelegation inserts the bond and returns false if the candidate is already delegated to.
func (d *Delegator) addDelegation(b Bond) bool {
	i, found := d.search(b.Owner)
	if found {
		return false
	}
	d.Delegations = append(d.Delegations, Bond{})
	copy(d.Delegations[i+1:], d.Delegations[i:])
	d.Delegations[i] = b
	d.Total = seq.SaturatingAdd(d.Total, b.Amount)
	return true
}

// BondAmount returns the amount delegated to candidate.
func (d *Delegator) BondAmount(candidate seq.Address) (uint64, bool) {
	if i, found := d.search(candidate); found {
		return d.Delegations[i].Amount, true
	}
	return 0, false
}

// DelegationAction is the effect of a scheduled request.
type DelegationAction struct {
	Revoke bool   `json:"revoke"`
	Amount uint64 `json:"amount"`
}

func (a DelegationAction) String() string {
	if a.Revoke {
		return "revoke"
	}
	return "decrease"
}

// ScheduledRequest is a pending revoke or decrease of a delegation.
type ScheduledRequest struct {
	Delegator      seq.Address      `json:"delegator"`
	WhenExecutable seq.RoundIndex   `json:"whenExecutable"`
	Action         DelegationAction `json:"action"`
}

// RoundInfo tracks the current round.
type RoundInfo struct {
	Current seq.RoundIndex  `json:"current"`
	First   seq.BlockNumber `json:"first"`
	Length  uint32          `json:"length"`
	// SnapshotTimePoint is the offset into the round at which the next round's stake is captured.
	SnapshotTimePoint uint32 `json:"snapshotTimePoint"`
}

// ShouldUpdate tells whether block now starts a new round.
func (r *RoundInfo) ShouldUpdate(now seq.BlockNumber) bool {
	return now-r.First >= r.Length
}

// Update starts the next round at block now.
func (r *RoundInfo) Update(now seq.BlockNumber) {
	r.Current++
	r.First = now
}

// ShouldSnapshot tells whether block now is the snapshot block of the round.
func (r *RoundInfo) ShouldSnapshot(now seq.BlockNumber) bool {
	return now-r.First == r.SnapshotTimePoint
}

// Snapshot is the stake of a selected candidate, captured once for a round and used to pay it.
type Snapshot struct {
	Bond        uint64 `json:"bond"`
	Delegations []Bond `json:"delegations"`
	Total       uint64 `json:"total"`
}

// DelayedPayout is the reward of a finished round, waiting to be paid.
type DelayedPayout struct {
	RoundIssuance       uint64      `json:"roundIssuance"`
	SequencerCommission seq.Perbill `json:"sequencerCommission"`
}

// DelegatorAdded tells where a new delegation landed.
type DelegatorAdded struct {
	InTop bool `json:"inTop"`
	// NewTotal is the candidate's counted total, set when the delegation landed in top.
	NewTotal uint64 `json:"newTotal,omitempty"`
}

// RewardPayment is the outcome of one payout step.
type RewardPayment uint8

const (
	RewardPaid RewardPayment = iota
	RewardSkipped
	RewardFinished
)

func (r RewardPayment) String() string {
	switch r {
	case RewardPaid:
		return "paid"
	case RewardSkipped:
		return "skipped"
	default:
		return "finished"
	}
}
