// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/genesis"
	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/lvldb"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
	"github.com/vechain/sequencer/state"
)

const customGenesis = `
name: customnet
commission: 12.5%
blocks-per-round: 10
marking-offline: true
group:
  size: 2
  number: 1
params:
  min-blocks-per-round: 3
  max-offline-rounds: 1
  leave-candidates-delay: 2
  candidate-bond-less-delay: 2
  revoke-delegation-delay: 2
  reward-payment-delay: 2
  max-top-delegations-per-candidate: 2
  max-bottom-delegations-per-candidate: 2
  max-delegations-per-delegator: 2
  max-candidates: 10
  min-candidate-stk: 50
  min-delegation: 5
  round-reward: 100
accounts:
  - address: "0x0000000000000000000000000000000000000001"
    native: 1000
    asset: 100
  - address: "0x0000000000000000000000000000000000000002"
    native: 1000
    asset: 100
  - address: "0x0000000000000000000000000000000000000003"
    native: 10
    asset: 100
candidates:
  - "0x0000000000000000000000000000000000000001"
  - "0x0000000000000000000000000000000000000002"
  - "0x0000000000000000000000000000000000000003"
delegations:
  - delegator: "0x0000000000000000000000000000000000000003"
    candidate: "0x0000000000000000000000000000000000000001"
    amount: 30
`

func openLedger(t *testing.T, gen *genesis.Genesis) (*staking.Ledger, *grouping.Grouping) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var groups *grouping.Grouping
	l, err := staking.New(db, gen.StakingParams(), staking.WithGrouping(
		func(st *state.State, emit func(seq.Event), parent func() seq.Bytes32) staking.Grouping {
			groups = grouping.New(st, gen.GroupingParams(), grouping.HashRandomness{}, parent, emit)
			return groups
		}))
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l, groups
}

func TestDecode(t *testing.T) {
	gen, err := genesis.Decode(strings.NewReader(customGenesis))
	require.NoError(t, err)

	assert.Equal(t, "customnet", gen.Name)
	assert.Equal(t, seq.Perbill(125_000_000), gen.Commission)
	assert.Equal(t, uint32(10), gen.BlocksPerRound)
	assert.Equal(t, genesis.GroupMetric{Size: 2, Number: 1}, gen.Group)
	assert.Equal(t, uint64(50), gen.StakingParams().MinCandidateStk)
	assert.Equal(t, grouping.DefaultParams(), gen.GroupingParams())
	require.Len(t, gen.Accounts, 3)
	assert.Equal(t, seq.BytesToAddress([]byte{2}), gen.Accounts[1].Address)
	require.Len(t, gen.Delegations, 1)
	assert.Equal(t, uint64(30), gen.Delegations[0].Amount)

	cfg := gen.Config()
	assert.Len(t, cfg.Endowments, 3)
	assert.Len(t, cfg.Candidates, 3)
	assert.True(t, cfg.MarkingOffline)
	assert.Equal(t, gen.Commission, cfg.SequencerCommission)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"unknown field", "foo: 1\n", nil},
		{"bad commission", "commission: 20\n", nil},
		{"empty group", "blocks-per-round: 10\ngroup: {size: 0, number: 1}\n", nil},
		{"group too large", "blocks-per-round: 10\ngroup: {size: 6, number: 1}\n", grouping.ErrGroupSizeTooLarge},
		{"too many groups", "blocks-per-round: 100\ngroup: {size: 1, number: 11}\n", grouping.ErrGroupNumberTooLarge},
		{"round too short", "blocks-per-round: 2\ngroup: {size: 1, number: 1}\n", nil},
		{"round not above group", "blocks-per-round: 5\ngroup: {size: 5, number: 1}\n", nil},
		{"account twice", `
blocks-per-round: 10
group: {size: 1, number: 1}
accounts:
  - address: "0x0000000000000000000000000000000000000001"
  - address: "0x0000000000000000000000000000000000000001"
`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genesis.Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customGenesis), 0600))

	gen, err := genesis.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "customnet", gen.Name)

	_, err = genesis.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestID(t *testing.T) {
	a, err := genesis.Decode(strings.NewReader(customGenesis))
	require.NoError(t, err)
	b, err := genesis.Decode(strings.NewReader(customGenesis))
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())

	b.Commission = seq.PerbillFromPercent(13)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), genesis.NewDevnet().ID())
}

func TestBuildCustom(t *testing.T) {
	gen, err := genesis.Decode(strings.NewReader(customGenesis))
	require.NoError(t, err)
	l, groups := openLedger(t, gen)

	require.NoError(t, gen.Build(l, groups))
	require.NoError(t, l.Commit())

	// account 3 can't lock the candidate stake, it delegates instead
	isCandidate, err := l.IsCandidate(seq.BytesToAddress([]byte{3}))
	require.NoError(t, err)
	assert.False(t, isCandidate)

	selected, err := l.SelectedCandidates()
	require.NoError(t, err)
	assert.Equal(t, []seq.Address{seq.BytesToAddress([]byte{1}), seq.BytesToAddress([]byte{2})}, selected)

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, uint64(30), total)

	commission, err := l.SequencerCommission()
	require.NoError(t, err)
	assert.Equal(t, gen.Commission, commission)

	round, err := l.Round()
	require.NoError(t, err)
	assert.Equal(t, staking.RoundInfo{Current: 1, First: 0, Length: 10, SnapshotTimePoint: 7}, round)

	var members [][]seq.Address
	require.NoError(t, l.Read(func() (err error) {
		members, err = groups.Groups()
		return
	}))
	require.Len(t, members, 1)
	assert.ElementsMatch(t, selected, members[0])

	assert.True(t, errors.Is(gen.Build(l, groups), staking.ErrAlreadyInitialized))
}

func TestBuildDevnet(t *testing.T) {
	gen := genesis.NewDevnet()
	require.NoError(t, gen.Validate())
	l, groups := openLedger(t, gen)

	require.NoError(t, gen.Build(l, groups))
	require.NoError(t, l.Commit())

	accs := genesis.DevAccounts()
	require.Len(t, accs, 10)

	// the candidate without backing is left out of the five seats
	want := make([]seq.Address, 0, 5)
	for _, acc := range accs[:5] {
		want = append(want, acc.Address)
	}
	slices.SortFunc(want, seq.Address.Compare)
	selected, err := l.SelectedCandidates()
	require.NoError(t, err)
	assert.Equal(t, want, selected)

	total, err := l.Total()
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), total)

	pot, err := l.NativeBalance(l.Account())
	require.NoError(t, err)
	assert.Equal(t, 1_000*staking.POPS, pot)

	var size, number uint32
	require.NoError(t, l.Read(func() (err error) {
		size, number, err = groups.GroupMetric()
		return
	}))
	assert.Equal(t, uint32(5), size)
	assert.Equal(t, uint32(1), number)
}
