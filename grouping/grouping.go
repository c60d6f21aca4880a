// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package grouping splits the sequencers selected for a round into fixed size groups.
// Members are drawn by a shuffle seeded from the parent block.
package grouping

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/state"
)

var logger = log.WithContext("pkg", "grouping")

// Error is a rejection of a grouping call.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrCandidatesNotEnough Error = "CandidatesNotEnough"
	ErrGroupSizeTooLarge   Error = "GroupSizeTooLarge"
	ErrGroupNumberTooLarge Error = "GroupNumberTooLarge"
	ErrAccountNotInGroup   Error = "AccountNotInGroup"
)

// Params bound the group metric.
type Params struct {
	MaxGroupSize   uint32 `yaml:"max-group-size"`
	MaxGroupNumber uint32 `yaml:"max-group-number"`
}

// DefaultParams returns the bounds of a development network.
func DefaultParams() Params {
	return Params{MaxGroupSize: 5, MaxGroupNumber: 10}
}

// NextRound tells when the current groups take over.
type NextRound struct {
	StartingBlock seq.BlockNumber `json:"startingBlock"`
	RoundIndex    seq.RoundIndex  `json:"roundIndex"`
}

// SequencerGroupUpdated is emitted when new groups were drawn.
type SequencerGroupUpdated struct {
	StartingBlock seq.BlockNumber `json:"startingBlock"`
	RoundIndex    seq.RoundIndex  `json:"roundIndex"`
}

func (SequencerGroupUpdated) Kind() string            { return "SequencerGroupUpdated" }
func (SequencerGroupUpdated) Accounts() []seq.Address { return nil }

// Grouping keeps the groups in the state it shares with the staking ledger.
// It is not safe for concurrent use, callers serialize access through the ledger.
type Grouping struct {
	params Params
	rand   Randomness
	parent func() seq.Bytes32
	emit   func(seq.Event)

	size    *state.Raw[uint32]
	number  *state.Raw[uint32]
	members *state.Raw[[][]seq.Address]
	next    *state.Raw[NextRound]
}

// New creates the grouping over st. parent supplies the seed of the shuffle, emit records events.
func New(st *state.State, params Params, rand Randomness, parent func() seq.Bytes32, emit func(seq.Event)) *Grouping {
	return &Grouping{
		params:  params,
		rand:    rand,
		parent:  parent,
		emit:    emit,
		size:    state.NewRaw[uint32](st, "group-size"),
		number:  state.NewRaw[uint32](st, "group-number"),
		members: state.NewRaw[[][]seq.Address](st, "group-members"),
		next:    state.NewRaw[NextRound](st, "group-next-round"),
	}
}

// SetGroupMetric sets the size and the number of groups.
func (g *Grouping) SetGroupMetric(size, number uint32) error {
	if size > g.params.MaxGroupSize {
		return ErrGroupSizeTooLarge
	}
	if number > g.params.MaxGroupNumber {
		return ErrGroupNumberTooLarge
	}
	if err := g.size.Set(size); err != nil {
		return errors.Wrap(err, "set group size")
	}
	return errors.Wrap(g.number.Set(number), "set group number")
}

// GroupMetric returns the size and the number of groups.
func (g *Grouping) GroupMetric() (size, number uint32, err error) {
	if size, err = g.size.Get(); err != nil {
		return 0, 0, errors.Wrap(err, "get group size")
	}
	if number, err = g.number.Get(); err != nil {
		return 0, 0, errors.Wrap(err, "get group number")
	}
	return size, number, nil
}

// TotalSelected returns how many sequencers the groups hold.
func (g *Grouping) TotalSelected() (uint32, error) {
	size, number, err := g.GroupMetric()
	if err != nil {
		return 0, err
	}
	return size * number, nil
}

// TriggerGroup draws new groups out of candidates, for the round starting at startingBlock.
// Candidates left over once every group is full are not grouped.
func (g *Grouping) TriggerGroup(candidates []seq.Address, startingBlock seq.BlockNumber, round seq.RoundIndex) error {
	size, number, err := g.GroupMetric()
	if err != nil {
		return err
	}
	if uint64(len(candidates)) < uint64(size)*uint64(number) {
		return ErrCandidatesNotEnough
	}
	parent := g.parent()
	random, err := g.rand.Random(parent[:])
	if err != nil {
		return errors.Wrap(err, "random")
	}
	shuffled := shuffle(candidates, binary.LittleEndian.Uint64(random[:8]))

	groups := make([][]seq.Address, 0, number)
	for i := uint32(0); i < number; i++ {
		group := make([]seq.Address, 0, size)
		for j := uint32(0); j < size; j++ {
			last := len(shuffled) - 1
			group = append(group, shuffled[last])
			shuffled = shuffled[:last]
		}
		groups = append(groups, group)
	}
	if err := g.members.Set(groups); err != nil {
		return errors.Wrap(err, "set group members")
	}
	if err := g.next.Set(NextRound{StartingBlock: startingBlock, RoundIndex: round}); err != nil {
		return errors.Wrap(err, "set next round")
	}
	g.emit(SequencerGroupUpdated{StartingBlock: startingBlock, RoundIndex: round})
	logger.Debug("groups drawn", "round", round, "starting", startingBlock, "groups", number, "size", size)
	return nil
}

// shuffle returns a permutation of accounts: a Fisher-Yates pass in which every swap index is
// derived from the same random value.
func shuffle(accounts []seq.Address, random uint64) []seq.Address {
	out := append([]seq.Address(nil), accounts...)
	for i := len(out) - 1; i > 0; i-- {
		j := random % uint64(i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Groups returns the members of every group, by group id.
func (g *Grouping) Groups() ([][]seq.Address, error) {
	groups, err := g.members.Get()
	return groups, errors.Wrap(err, "get group members")
}

// AccountInGroup returns the id of the group account belongs to.
func (g *Grouping) AccountInGroup(account seq.Address) (uint32, error) {
	groups, err := g.Groups()
	if err != nil {
		return 0, err
	}
	for id, group := range groups {
		for _, member := range group {
			if member == account {
				return uint32(id), nil
			}
		}
	}
	return 0, ErrAccountNotInGroup
}

// AllGroupIDs returns the id of every group.
func (g *Grouping) AllGroupIDs() ([]uint32, error) {
	groups, err := g.Groups()
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, len(groups))
	for i := range ids {
		ids[i] = uint32(i)
	}
	return ids, nil
}

// NextRound returns when the current groups take over.
func (g *Grouping) NextRound() (NextRound, error) {
	next, err := g.next.Get()
	return next, errors.Wrap(err, "get next round")
}
