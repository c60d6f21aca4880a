// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial state of a sequencer ledger.
package genesis

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/log"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

var logger = log.WithContext("pkg", "genesis")

// Account is an account endowed at genesis.
type Account struct {
	Address seq.Address `yaml:"address"`
	Native  uint64      `yaml:"native"`
	Asset   uint64      `yaml:"asset"`
}

// Delegation is a delegation placed at genesis.
type Delegation struct {
	Delegator seq.Address `yaml:"delegator"`
	Candidate seq.Address `yaml:"candidate"`
	Amount    uint64      `yaml:"amount"`
}

// GroupMetric is the size and number of sequencer groups.
type GroupMetric struct {
	Size   uint32 `yaml:"size"`
	Number uint32 `yaml:"number"`
}

// Genesis is the content of a genesis file.
type Genesis struct {
	Name string `yaml:"name"`
	// Params override the static ledger parameters, defaults when absent.
	Params   *staking.Params  `yaml:"params,omitempty"`
	Grouping *grouping.Params `yaml:"grouping,omitempty"`

	Group          GroupMetric `yaml:"group"`
	Commission     seq.Perbill `yaml:"commission"`
	BlocksPerRound uint32      `yaml:"blocks-per-round"`
	MarkingOffline bool        `yaml:"marking-offline"`

	Accounts    []Account     `yaml:"accounts"`
	Candidates  []seq.Address `yaml:"candidates"`
	Delegations []Delegation  `yaml:"delegations"`
}

// Load reads a genesis file.
func Load(path string) (*Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a genesis document. Unknown fields are rejected.
func Decode(r io.Reader) (*Genesis, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// StakingParams returns the ledger parameters.
func (g *Genesis) StakingParams() staking.Params {
	if g.Params != nil {
		return *g.Params
	}
	return staking.DefaultParams()
}

// GroupingParams returns the bounds of the group metric.
func (g *Genesis) GroupingParams() grouping.Params {
	if g.Grouping != nil {
		return *g.Grouping
	}
	return grouping.DefaultParams()
}

// Validate checks the values the ledger can't skip over.
// Bad candidates and delegations are left to the ledger, which skips them.
func (g *Genesis) Validate() error {
	params := g.StakingParams()
	if err := params.Validate(); err != nil {
		return errors.Wrap(err, "params")
	}
	bounds := g.GroupingParams()
	if g.Group.Size == 0 || g.Group.Number == 0 {
		return errors.New("group size and number must be positive")
	}
	if g.Group.Size > bounds.MaxGroupSize {
		return grouping.ErrGroupSizeTooLarge
	}
	if g.Group.Number > bounds.MaxGroupNumber {
		return grouping.ErrGroupNumberTooLarge
	}
	if g.BlocksPerRound < params.MinBlocksPerRound {
		return errors.Errorf("blocks-per-round %d below minimum %d", g.BlocksPerRound, params.MinBlocksPerRound)
	}
	if g.BlocksPerRound <= g.Group.Size*g.Group.Number {
		return errors.Errorf("blocks-per-round %d must exceed the %d selected sequencers", g.BlocksPerRound, g.Group.Size*g.Group.Number)
	}
	seen := make(map[seq.Address]bool, len(g.Accounts))
	for _, a := range g.Accounts {
		if seen[a.Address] {
			return errors.Errorf("account %v endowed twice", a.Address)
		}
		seen[a.Address] = true
	}
	return nil
}

// ID identifies the genesis. Two files describing the same state share it.
func (g *Genesis) ID() seq.Bytes32 {
	data, err := yaml.Marshal(g)
	if err != nil {
		panic(err)
	}
	return seq.Blake2b(data)
}

// Config returns the ledger's view of the genesis.
func (g *Genesis) Config() *staking.GenesisConfig {
	cfg := &staking.GenesisConfig{
		Candidates:          g.Candidates,
		SequencerCommission: g.Commission,
		BlocksPerRound:      g.BlocksPerRound,
		MarkingOffline:      g.MarkingOffline,
	}
	for _, a := range g.Accounts {
		cfg.Endowments = append(cfg.Endowments, staking.Endowment{Account: a.Address, Native: a.Native, Asset: a.Asset})
	}
	for _, d := range g.Delegations {
		cfg.Delegations = append(cfg.Delegations, staking.GenesisDelegation{
			Delegator: d.Delegator,
			Candidate: d.Candidate,
			Amount:    d.Amount,
		})
	}
	return cfg
}

// Build sets the group metric and writes the initial ledger state. Nothing is committed.
// It returns staking.ErrAlreadyInitialized when the ledger was built before.
func (g *Genesis) Build(l *staking.Ledger, groups *grouping.Grouping) error {
	round, err := l.Round()
	if err != nil {
		return err
	}
	if round.Current != 0 {
		return staking.ErrAlreadyInitialized
	}
	err = l.Execute("set_group_metric", func() error {
		return groups.SetGroupMetric(g.Group.Size, g.Group.Number)
	})
	if err != nil {
		return errors.Wrap(err, "set group metric")
	}
	if err := l.BuildGenesis(g.Config()); err != nil {
		return err
	}

	// round 1 gets its groups here, later rounds at their snapshot block
	selected, err := l.SelectedCandidates()
	if err != nil {
		return err
	}
	err = l.Execute("trigger_group", func() error {
		return groups.TriggerGroup(selected, 0, 1)
	})
	if err != nil {
		logger.Warn("round 1 left without groups", "selected", len(selected), "error", err)
	}
	logger.Info("genesis applied", "name", g.Name, "id", g.ID().AbbrevString())
	return nil
}
