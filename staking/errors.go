// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

// Error is a rejection of a ledger call. A call failing with an Error leaves the state untouched.
type Error string

func (e Error) Error() string { return string(e) }

// IsLedgerError reports whether err is, or wraps, a rejection.
func IsLedgerError(err error) bool {
	var e Error
	return errors.As(err, &e)
}

const (
	ErrDelegatorDNE        Error = "DelegatorDNE"
	ErrCandidateDNE        Error = "CandidateDNE"
	ErrDelegationDNE       Error = "DelegationDNE"
	ErrDelegatorExists     Error = "DelegatorExists"
	ErrCandidateExists     Error = "CandidateExists"
	ErrTransferFailed      Error = "TransferFailed"
	ErrInsufficientBalance Error = "InsufficientBalance"

	ErrCandidateBondBelowMin Error = "CandidateBondBelowMin"
	ErrDelegatorBondBelowMin Error = "DelegatorBondBelowMin"
	ErrDelegationBelowMin    Error = "DelegationBelowMin"

	ErrAlreadyOffline            Error = "AlreadyOffline"
	ErrAlreadyActive             Error = "AlreadyActive"
	ErrCandidateAlreadyLeaving   Error = "CandidateAlreadyLeaving"
	ErrCandidateNotLeaving       Error = "CandidateNotLeaving"
	ErrCandidateCannotLeaveYet   Error = "CandidateCannotLeaveYet"
	ErrCannotGoOnlineIfLeaving   Error = "CannotGoOnlineIfLeaving"
	ErrAlreadyDelegatedCandidate Error = "AlreadyDelegatedCandidate"

	ErrExceedMaxDelegationsPerDelegator Error = "ExceedMaxDelegationsPerDelegator"
	ErrCandidateLimitReached            Error = "CandidateLimitReached"

	ErrCannotSetBelowMin                                   Error = "CannotSetBelowMin"
	ErrCannotSetAboveMaxCandidates                         Error = "CannotSetAboveMaxCandidates"
	ErrRoundLengthMustBeGreaterThanTotalSelectedSequencers Error = "RoundLengthMustBeGreaterThanTotalSelectedSequencers"
	ErrNoWritingSameValue                                  Error = "NoWritingSameValue"

	ErrTooLowCandidateCountWeightHintJoinCandidates        Error = "TooLowCandidateCountWeightHintJoinCandidates"
	ErrTooLowCandidateCountWeightHintCancelLeaveCandidates Error = "TooLowCandidateCountWeightHintCancelLeaveCandidates"
	ErrTooLowCandidateCountToLeaveCandidates               Error = "TooLowCandidateCountToLeaveCandidates"
	ErrTooLowDelegationCountToDelegate                     Error = "TooLowDelegationCountToDelegate"
	ErrTooLowCandidateDelegationCountToDelegate            Error = "TooLowCandidateDelegationCountToDelegate"
	ErrTooLowCandidateDelegationCountToLeaveCandidates     Error = "TooLowCandidateDelegationCountToLeaveCandidates"

	ErrPendingCandidateRequestsDNE           Error = "PendingCandidateRequestsDNE"
	ErrPendingCandidateRequestAlreadyExists  Error = "PendingCandidateRequestAlreadyExists"
	ErrPendingCandidateRequestNotDueYet      Error = "PendingCandidateRequestNotDueYet"
	ErrPendingDelegationRequestDNE           Error = "PendingDelegationRequestDNE"
	ErrPendingDelegationRequestAlreadyExists Error = "PendingDelegationRequestAlreadyExists"
	ErrPendingDelegationRequestNotDueYet     Error = "PendingDelegationRequestNotDueYet"
	ErrPendingDelegationRevoke               Error = "PendingDelegationRevoke"

	ErrCannotDelegateLessThanOrEqualToLowestBottomWhenFull Error = "CannotDelegateLessThanOrEqualToLowestBottomWhenFull"

	ErrTooLowSequencerCountToNotifyAsInactive Error = "TooLowSequencerCountToNotifyAsInactive"
	ErrCannotBeNotifiedAsInactive             Error = "CannotBeNotifiedAsInactive"
	ErrMarkingOfflineNotEnabled               Error = "MarkingOfflineNotEnabled"
	ErrCurrentRoundTooLow                     Error = "CurrentRoundTooLow"

	// ErrTooManyCandidates rejects a hotfix call listing too many candidates.
	ErrTooManyCandidates Error = "TooManyCandidates"
)
