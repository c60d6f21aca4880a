// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/seq"
)

var (
	fuzzCandidates = []int{1, 2, 3}
	fuzzDelegators = []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
)

type fuzzCall struct {
	Kind      uint8
	Delegator uint8
	Candidate uint8
	Amount    uint8
}

func (h *harness) apply(c fuzzCall) {
	d := addr(fuzzDelegators[int(c.Delegator)%len(fuzzDelegators)])
	cand := addr(fuzzCandidates[int(c.Candidate)%len(fuzzCandidates)])
	amount := uint64(c.Amount%30) + 1

	// rejections are expected, only the invariants matter
	switch c.Kind % 10 {
	case 0, 1:
		_ = h.l.Delegate(d, cand, amount, 100, 100)
	case 2:
		_ = h.l.DelegatorBondMore(d, cand, amount)
	case 3:
		_ = h.l.ScheduleRevokeDelegation(d, cand)
	case 4:
		_ = h.l.ScheduleDelegatorBondLess(d, cand, amount%10+1)
	case 5:
		_ = h.l.ExecuteDelegationRequest(d, cand)
	case 6:
		_ = h.l.CancelDelegationRequest(d, cand)
	case 7:
		h.rollTo(h.block + 3)
	case 8:
		switch amount % 4 {
		case 0:
			_ = h.l.CandidateBondMore(cand, amount)
		case 1:
			_ = h.l.GoOffline(cand)
		case 2:
			_ = h.l.GoOnline(cand)
		default:
			_ = h.l.ScheduleLeaveCandidates(cand, 100)
		}
	case 9:
		_ = h.l.ExecuteLeaveCandidates(cand, 100)
	}
}

func (h *harness) checkInvariants(step int) {
	t := h.t
	var locked uint64
	reserved := make(map[seq.Address]uint64)

	for _, ci := range fuzzCandidates {
		c := h.candidate(ci)
		if c == nil {
			continue
		}
		top, bottom := h.top(ci), h.bottom(ci)
		dump := spew.Sdump(step, c, top, bottom)

		var topSum, bottomSum uint64
		for i, b := range top {
			topSum += b.Amount
			if i > 0 {
				require.GreaterOrEqual(t, top[i-1].Amount, b.Amount, "top sorted\n%s", dump)
			}
		}
		for i, b := range bottom {
			bottomSum += b.Amount
			if i > 0 {
				require.GreaterOrEqual(t, bottom[i-1].Amount, b.Amount, "bottom sorted\n%s", dump)
			}
		}
		require.Equal(t, c.Bond+topSum, c.TotalCounted, "total counted\n%s", dump)
		require.Equal(t, uint32(len(top)+len(bottom)), c.DelegationCount, "delegation count\n%s", dump)
		require.LessOrEqual(t, len(top), int(h.l.params.MaxTopDelegationsPerCandidate), dump)
		require.LessOrEqual(t, len(bottom), int(h.l.params.MaxBottomDelegationsPerCandidate), dump)
		if len(bottom) > 0 {
			require.Len(t, top, int(h.l.params.MaxTopDelegationsPerCandidate), "bottom used before top is full\n%s", dump)
			require.GreaterOrEqual(t, top[len(top)-1].Amount, bottom[0].Amount, "partition boundary\n%s", dump)
		}
		if len(top) > 0 {
			require.Equal(t, top[len(top)-1].Amount, c.LowestTopDelegationAmount, dump)
		}

		for _, b := range append(append([]Bond(nil), top...), bottom...) {
			d, err := h.l.DelegatorState(b.Owner)
			require.NoError(t, err)
			require.NotNil(t, d, "ranked delegation without delegator\n%s", dump)
			amount, ok := d.BondAmount(addr(ci))
			require.True(t, ok, dump)
			require.Equal(t, b.Amount, amount, "delegation amounts agree\n%s", dump)
		}

		requests, err := h.l.ScheduledRequests(addr(ci))
		require.NoError(t, err)
		for _, r := range requests {
			reserved[r.Delegator] += r.Action.Amount
		}
		locked += c.Bond + topSum + bottomSum
	}

	for _, di := range fuzzDelegators {
		d := h.delegator(di)
		if d == nil {
			require.Zero(t, reserved[addr(di)], "request of a removed delegator")
			continue
		}
		dump := spew.Sdump(step, d)
		require.NotEmpty(t, d.Delegations, "empty delegator kept\n%s", dump)
		var sum uint64
		for _, b := range d.Delegations {
			sum += b.Amount
		}
		require.Equal(t, sum, d.Total, "delegator total\n%s", dump)
		require.LessOrEqual(t, d.LessTotal, d.Total, dump)
		require.Equal(t, reserved[d.ID], d.LessTotal, "less total matches pending requests\n%s", dump)
	}

	require.Equal(t, locked, h.total(), "locked total at step %d", step)
	held, err := h.l.AssetBalance(h.l.Account())
	require.NoError(t, err)
	require.Equal(t, locked, held, "staking account holds the locked total at step %d", step)
}

func TestLedgerInvariantsUnderRandomCalls(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		h := newHarness(t, testGenesis(fuzzCandidates...))
		f := fuzz.NewWithSeed(seed).NilChance(0)
		for step := 0; step < 300; step++ {
			var c fuzzCall
			f.Fuzz(&c)
			h.apply(c)
			h.checkInvariants(step)
		}
	}
}

func TestBondedSet(t *testing.T) {
	s := NewBondedSet(2)
	ok, err := s.TryInsert(Bond{addr(2), 5})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TryInsert(Bond{addr(2), 9})
	require.NoError(t, err)
	assert.False(t, ok, "same owner")
	b, _ := s.Get(addr(2))
	assert.Equal(t, uint64(5), b.Amount)

	_, err = s.TryInsert(Bond{addr(1), 1})
	require.NoError(t, err)
	_, err = s.TryInsert(Bond{addr(3), 1})
	assert.ErrorIs(t, err, ErrCandidateLimitReached)

	assert.Equal(t, bonds(1, 1, 2, 5), s.Bonds())
	assert.True(t, s.Remove(addr(1)))
	assert.False(t, s.Remove(addr(1)))
	assert.Equal(t, 1, s.Len())
}
