// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/sequencer/seq"
)

// CancelledScheduledRequest is the part of a scheduled request reported on cancellation.
type CancelledScheduledRequest struct {
	WhenExecutable seq.RoundIndex   `json:"whenExecutable"`
	Action         DelegationAction `json:"action"`
}

// NewRound is emitted when a new round started.
type NewRound struct {
	StartingBlock            seq.BlockNumber `json:"startingBlock"`
	Round                    seq.RoundIndex  `json:"round"`
	SelectedSequencersNumber uint32          `json:"selectedSequencersNumber"`
}

func (NewRound) Kind() string { return "NewRound" }
func (NewRound) Accounts() []seq.Address { return nil }

// CandidatesSelected is emitted when the sequencers of the next round were selected.
type CandidatesSelected struct {
	Round                    seq.RoundIndex `json:"round"`
	SelectedSequencersNumber uint32         `json:"selectedSequencersNumber"`
	TotalBalance             uint64         `json:"totalBalance"`
}

func (CandidatesSelected) Kind() string { return "CandidatesSelected" }
func (CandidatesSelected) Accounts() []seq.Address { return nil }

// JoinedSequencerCandidates is emitted when an account joined the candidates.
type JoinedSequencerCandidates struct {
	Account      seq.Address `json:"account"`
	AmountLocked uint64      `json:"amountLocked"`
}

func (JoinedSequencerCandidates) Kind() string { return "JoinedSequencerCandidates" }
func (e JoinedSequencerCandidates) Accounts() []seq.Address { return []seq.Address{e.Account} }

// SequencerChosen is emitted when a candidate was selected for a round.
type SequencerChosen struct {
	Round              seq.RoundIndex `json:"round"`
	SequencerAccount   seq.Address    `json:"sequencerAccount"`
	TotalExposedAmount uint64         `json:"totalExposedAmount"`
}

func (SequencerChosen) Kind() string { return "SequencerChosen" }
func (e SequencerChosen) Accounts() []seq.Address { return []seq.Address{e.SequencerAccount} }

// CandidateBondLessRequested is emitted when a candidate scheduled a self bond decrease.
type CandidateBondLessRequested struct {
	Candidate        seq.Address    `json:"candidate"`
	AmountToDecrease uint64         `json:"amountToDecrease"`
	ExecuteRound     seq.RoundIndex `json:"executeRound"`
}

func (CandidateBondLessRequested) Kind() string { return "CandidateBondLessRequested" }
func (e CandidateBondLessRequested) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CandidateBondedMore is emitted when a candidate increased its self bond.
type CandidateBondedMore struct {
	Candidate    seq.Address `json:"candidate"`
	Amount       uint64      `json:"amount"`
	NewTotalBond uint64      `json:"newTotalBond"`
}

func (CandidateBondedMore) Kind() string { return "CandidateBondedMore" }
func (e CandidateBondedMore) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CandidateBondedLess is emitted when a candidate decreased its self bond.
type CandidateBondedLess struct {
	Candidate seq.Address `json:"candidate"`
	Amount    uint64      `json:"amount"`
	NewBond   uint64      `json:"newBond"`
}

func (CandidateBondedLess) Kind() string { return "CandidateBondedLess" }
func (e CandidateBondedLess) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CandidateWentOffline is emitted when a candidate left the pool temporarily.
type CandidateWentOffline struct {
	Candidate seq.Address `json:"candidate"`
}

func (CandidateWentOffline) Kind() string { return "CandidateWentOffline" }
func (e CandidateWentOffline) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CandidateBackOnline is emitted when a candidate is back in the pool.
type CandidateBackOnline struct {
	Candidate seq.Address `json:"candidate"`
}

func (CandidateBackOnline) Kind() string { return "CandidateBackOnline" }
func (e CandidateBackOnline) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CandidateScheduledExit is emitted when a candidate scheduled its exit.
type CandidateScheduledExit struct {
	ExitAllowedRound seq.RoundIndex `json:"exitAllowedRound"`
	Candidate        seq.Address    `json:"candidate"`
	ScheduledExit    seq.RoundIndex `json:"scheduledExit"`
}

func (CandidateScheduledExit) Kind() string { return "CandidateScheduledExit" }
func (e CandidateScheduledExit) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CancelledCandidateExit is emitted when a candidate cancelled its exit.
type CancelledCandidateExit struct {
	Candidate seq.Address `json:"candidate"`
}

func (CancelledCandidateExit) Kind() string { return "CancelledCandidateExit" }
func (e CancelledCandidateExit) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CancelledCandidateBondLess is emitted when a candidate cancelled its self bond decrease.
type CancelledCandidateBondLess struct {
	Candidate    seq.Address    `json:"candidate"`
	Amount       uint64         `json:"amount"`
	ExecuteRound seq.RoundIndex `json:"executeRound"`
}

func (CancelledCandidateBondLess) Kind() string { return "CancelledCandidateBondLess" }
func (e CancelledCandidateBondLess) Accounts() []seq.Address { return []seq.Address{e.Candidate} }

// CandidateLeft is emitted when a candidate left and every stake backing it was returned.
type CandidateLeft struct {
	ExCandidate       seq.Address `json:"exCandidate"`
	UnlockedAmount    uint64      `json:"unlockedAmount"`
	NewTotalAmtLocked uint64      `json:"newTotalAmtLocked"`
}

func (CandidateLeft) Kind() string { return "CandidateLeft" }
func (e CandidateLeft) Accounts() []seq.Address { return []seq.Address{e.ExCandidate} }

// DelegationDecreaseScheduled is emitted when a delegator scheduled a delegation decrease.
type DelegationDecreaseScheduled struct {
	Delegator        seq.Address    `json:"delegator"`
	Candidate        seq.Address    `json:"candidate"`
	AmountToDecrease uint64         `json:"amountToDecrease"`
	ExecuteRound     seq.RoundIndex `json:"executeRound"`
}

func (DelegationDecreaseScheduled) Kind() string { return "DelegationDecreaseScheduled" }
func (e DelegationDecreaseScheduled) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// DelegationIncreased is emitted when a delegation grew.
type DelegationIncreased struct {
	Delegator seq.Address `json:"delegator"`
	Candidate seq.Address `json:"candidate"`
	Amount    uint64      `json:"amount"`
	InTop     bool        `json:"inTop"`
}

func (DelegationIncreased) Kind() string { return "DelegationIncreased" }
func (e DelegationIncreased) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// DelegationDecreased is emitted when a delegation shrank.
type DelegationDecreased struct {
	Delegator seq.Address `json:"delegator"`
	Candidate seq.Address `json:"candidate"`
	Amount    uint64      `json:"amount"`
	InTop     bool        `json:"inTop"`
}

func (DelegationDecreased) Kind() string { return "DelegationDecreased" }
func (e DelegationDecreased) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// DelegationRevocationScheduled is emitted when a delegator scheduled a revoke.
type DelegationRevocationScheduled struct {
	Round         seq.RoundIndex `json:"round"`
	Delegator     seq.Address    `json:"delegator"`
	Candidate     seq.Address    `json:"candidate"`
	ScheduledExit seq.RoundIndex `json:"scheduledExit"`
}

func (DelegationRevocationScheduled) Kind() string { return "DelegationRevocationScheduled" }
func (e DelegationRevocationScheduled) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// DelegatorLeft is emitted when a delegator has no delegation left.
type DelegatorLeft struct {
	Delegator      seq.Address `json:"delegator"`
	UnstakedAmount uint64      `json:"unstakedAmount"`
}

func (DelegatorLeft) Kind() string { return "DelegatorLeft" }
func (e DelegatorLeft) Accounts() []seq.Address { return []seq.Address{e.Delegator} }

// DelegationRevoked is emitted when a delegation was revoked.
type DelegationRevoked struct {
	Delegator      seq.Address `json:"delegator"`
	Candidate      seq.Address `json:"candidate"`
	UnstakedAmount uint64      `json:"unstakedAmount"`
}

func (DelegationRevoked) Kind() string { return "DelegationRevoked" }
func (e DelegationRevoked) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// DelegationKicked is emitted when the lowest bottom delegation was pushed out.
type DelegationKicked struct {
	Delegator      seq.Address `json:"delegator"`
	Candidate      seq.Address `json:"candidate"`
	UnstakedAmount uint64      `json:"unstakedAmount"`
}

func (DelegationKicked) Kind() string { return "DelegationKicked" }
func (e DelegationKicked) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// CancelledDelegationRequest is emitted when a scheduled request was cancelled.
type CancelledDelegationRequest struct {
	Delegator        seq.Address               `json:"delegator"`
	CancelledRequest CancelledScheduledRequest `json:"cancelledRequest"`
	Sequencer        seq.Address               `json:"sequencer"`
}

func (CancelledDelegationRequest) Kind() string { return "CancelledDelegationRequest" }
func (e CancelledDelegationRequest) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Sequencer} }

// Delegation is emitted when a new delegation was placed.
type Delegation struct {
	Delegator         seq.Address    `json:"delegator"`
	LockedAmount      uint64         `json:"lockedAmount"`
	Candidate         seq.Address    `json:"candidate"`
	DelegatorPosition DelegatorAdded `json:"delegatorPosition"`
}

func (Delegation) Kind() string { return "Delegation" }
func (e Delegation) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// DelegatorLeftCandidate is emitted when a delegation left a candidate.
type DelegatorLeftCandidate struct {
	Delegator            seq.Address `json:"delegator"`
	Candidate            seq.Address `json:"candidate"`
	UnstakedAmount       uint64      `json:"unstakedAmount"`
	TotalCandidateStaked uint64      `json:"totalCandidateStaked"`
}

func (DelegatorLeftCandidate) Kind() string { return "DelegatorLeftCandidate" }
func (e DelegatorLeftCandidate) Accounts() []seq.Address { return []seq.Address{e.Delegator, e.Candidate} }

// Rewarded is emitted when a reward was paid.
type Rewarded struct {
	Account seq.Address `json:"account"`
	Rewards uint64      `json:"rewards"`
}

func (Rewarded) Kind() string { return "Rewarded" }
func (e Rewarded) Accounts() []seq.Address { return []seq.Address{e.Account} }

// SequencerCommissionSet is emitted when the commission changed.
type SequencerCommissionSet struct {
	Old seq.Perbill `json:"old"`
	New seq.Perbill `json:"new"`
}

func (SequencerCommissionSet) Kind() string { return "SequencerCommissionSet" }
func (SequencerCommissionSet) Accounts() []seq.Address { return nil }

// BlocksPerRoundSet is emitted when the round length changed.
type BlocksPerRoundSet struct {
	CurrentRound seq.RoundIndex  `json:"currentRound"`
	FirstBlock   seq.BlockNumber `json:"firstBlock"`
	Old          uint32          `json:"old"`
	New          uint32          `json:"new"`
}

func (BlocksPerRoundSet) Kind() string { return "BlocksPerRoundSet" }
func (BlocksPerRoundSet) Accounts() []seq.Address { return nil }
