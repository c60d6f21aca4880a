// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking serves read-only views of the staking ledger.
package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/sequencer/api/utils"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

const atStakeCacheSize = 1024

type atStakeKey struct {
	round     seq.RoundIndex
	sequencer seq.Address
}

type Staking struct {
	ledger *staking.Ledger
	// snapshots of started rounds never change, they are kept after being paid
	atStake *lru.Cache
}

func New(ledger *staking.Ledger) *Staking {
	cache, err := lru.New(atStakeCacheSize)
	if err != nil {
		panic(err)
	}
	return &Staking{ledger, cache}
}

func (s *Staking) handleGetRound(w http.ResponseWriter, _ *http.Request) error {
	r, err := s.ledger.Round()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Round{
		Current:           r.Current,
		First:             r.First,
		Length:            r.Length,
		SnapshotTimePoint: r.SnapshotTimePoint,
	})
}

func (s *Staking) handleGetTotal(w http.ResponseWriter, _ *http.Request) error {
	total, err := s.ledger.Total()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Total{total})
}

func (s *Staking) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	pool, err := s.ledger.CandidatePool()
	if err != nil {
		return err
	}
	if pool == nil {
		pool = []staking.Bond{}
	}
	return utils.WriteJSON(w, pool)
}

func (s *Staking) handleGetSelected(w http.ResponseWriter, _ *http.Request) error {
	selected, err := s.ledger.SelectedCandidates()
	if err != nil {
		return err
	}
	if selected == nil {
		selected = []seq.Address{}
	}
	return utils.WriteJSON(w, selected)
}

func (s *Staking) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	c, err := s.ledger.Candidate(account)
	if err != nil {
		return err
	}
	if c == nil {
		return utils.NotFound(errors.New("candidate not found"))
	}
	return utils.WriteJSON(w, convertCandidate(account, c.Metadata, c.Top, c.Bottom, c.Requests))
}

func (s *Staking) handleGetDelegator(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	d, err := s.ledger.DelegatorState(account)
	if err != nil {
		return err
	}
	if d == nil {
		return utils.NotFound(errors.New("delegator not found"))
	}
	return utils.WriteJSON(w, &Delegator{
		Account:     d.ID,
		Delegations: d.Delegations,
		Total:       d.Total,
		LessTotal:   d.LessTotal,
	})
}

func (s *Staking) handleGetAtStake(w http.ResponseWriter, req *http.Request) error {
	round, err := utils.Uint32Var(req, "round")
	if err != nil {
		return err
	}
	sequencer, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	key := atStakeKey{round, sequencer}
	if cached, ok := s.atStake.Get(key); ok {
		return utils.WriteJSON(w, cached)
	}

	snap, err := s.ledger.AtStake(round, sequencer)
	if err != nil {
		return err
	}
	if snap == nil {
		return utils.NotFound(errors.New("snapshot not found"))
	}
	out := &AtStake{
		Round:       round,
		Sequencer:   sequencer,
		Bond:        snap.Bond,
		Delegations: snap.Delegations,
		Total:       snap.Total,
	}
	if out.Delegations == nil {
		out.Delegations = []staking.Bond{}
	}
	current, err := s.ledger.Round()
	if err != nil {
		return err
	}
	// the next round's snapshot may still be retaken
	if round <= current.Current {
		s.atStake.Add(key, out)
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetPoints(w http.ResponseWriter, req *http.Request) error {
	round, err := utils.Uint32Var(req, "round")
	if err != nil {
		return err
	}
	points, err := s.ledger.Points(round)
	if err != nil {
		return err
	}
	payout, err := s.ledger.DelayedPayout(round)
	if err != nil {
		return err
	}
	out := &Points{Round: round, Total: points}
	if payout != nil {
		out.DelayedPayout = &Payout{RoundIssuance: payout.RoundIssuance, SequencerCommission: payout.SequencerCommission}
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	commission, err := s.ledger.SequencerCommission()
	if err != nil {
		return err
	}
	markingOffline, err := s.ledger.MarkingOfflineEnabled()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{
		"account":             s.ledger.Account(),
		"sequencerCommission": commission,
		"markingOffline":      markingOffline,
		"params":              s.ledger.Params(),
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/round").Methods(http.MethodGet).Name("GET /staking/round").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetRound))
	sub.Path("/total").Methods(http.MethodGet).Name("GET /staking/total").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotal))
	sub.Path("/pool").Methods(http.MethodGet).Name("GET /staking/pool").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
	sub.Path("/selected").Methods(http.MethodGet).Name("GET /staking/selected").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSelected))
	sub.Path("/config").Methods(http.MethodGet).Name("GET /staking/config").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetConfig))
	sub.Path("/candidates/{address}").Methods(http.MethodGet).Name("GET /staking/candidates/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetCandidate))
	sub.Path("/delegators/{address}").Methods(http.MethodGet).Name("GET /staking/delegators/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDelegator))
	sub.Path("/rounds/{round}/at-stake/{address}").Methods(http.MethodGet).Name("GET /staking/rounds/{round}/at-stake/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAtStake))
	sub.Path("/rounds/{round}/points").Methods(http.MethodGet).Name("GET /staking/rounds/{round}/points").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPoints))
}
