// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/seq"
)

func rewards(events []seq.Event) []seq.Event {
	var out []seq.Event
	for _, ev := range events {
		if _, ok := ev.(Rewarded); ok {
			out = append(out, ev)
		}
	}
	return out
}

// newRewardHarness sets up two sequencers for round 2: 1 with a self bond of 20 backed by
// delegator 3 with 20, and 2 with a self bond of 10.
func newRewardHarness(t *testing.T, charge uint64, opts ...Option) *harness {
	h := newHarness(t, testGenesis(1, 2), opts...)
	require.NoError(t, h.l.CandidateBondMore(addr(1), 20))
	h.delegate(3, 1, 20)
	require.NoError(t, h.l.CandidateBondMore(addr(2), 10))
	if charge > 0 {
		require.NoError(t, h.l.ChargeRewardAccount(addr(10), charge))
	}
	h.rollToRoundBegin(2)
	return h
}

func TestRoundPayout(t *testing.T) {
	h := newRewardHarness(t, 1000)

	snap, err := h.l.AtStake(2, addr(1))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, uint64(20), snap.Bond)
	assert.Equal(t, bonds(3, 20), snap.Delegations)
	assert.Equal(t, uint64(40), snap.Total)

	require.NoError(t, h.l.AwardPoints(addr(1), 1))
	require.NoError(t, h.l.AwardPoints(addr(2), 1))
	points, err := h.l.Points(2)
	require.NoError(t, err)
	assert.Equal(t, seq.RewardPoint(2), points)

	h.rollToRoundBegin(3)
	payout, err := h.l.DelayedPayout(2)
	require.NoError(t, err)
	require.NotNil(t, payout)
	assert.Equal(t, DelayedPayout{RoundIssuance: 1000, SequencerCommission: seq.PerbillFromPercent(20)}, *payout)

	h.rollToRoundBegin(4)
	payout, err = h.l.DelayedPayout(3)
	require.NoError(t, err)
	assert.Nil(t, payout, "round 3 recorded no points")

	// one sequencer per block, lowest address first
	assert.Equal(t, []seq.Event{
		Rewarded{Account: addr(1), Rewards: 250},
		Rewarded{Account: addr(3), Rewards: 150},
	}, h.rollTo(16))
	assert.Equal(t, []seq.Event{Rewarded{Account: addr(2), Rewards: 400}}, h.rollTo(17))
	assert.Empty(t, rewards(h.rollTo(18)))

	payout, err = h.l.DelayedPayout(2)
	require.NoError(t, err)
	assert.Nil(t, payout)
	points, err = h.l.Points(2)
	require.NoError(t, err)
	assert.Zero(t, points)
	accounts, err := h.l.AtStakeAccounts(2)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	assert.Equal(t, uint64(testNative+250), h.native(1))
	assert.Equal(t, uint64(testNative+400), h.native(2))
	assert.Equal(t, uint64(testNative+150), h.native(3))
	pot, err := h.l.NativeBalance(h.l.Account())
	require.NoError(t, err)
	assert.Equal(t, uint64(200), pot)
}

func TestPayoutHooksAndSkippedSequencer(t *testing.T) {
	type payment struct {
		round   seq.RoundIndex
		account seq.Address
		amount  uint64
	}
	var paid, notified []payment
	h := newRewardHarness(t, 1000, WithHooks(Hooks{
		PayoutSequencerReward: func(r seq.RoundIndex, a seq.Address, amount uint64) error {
			paid = append(paid, payment{r, a, amount})
			return nil
		},
		OnSequencerPayout: func(r seq.RoundIndex, a seq.Address, amount uint64) error {
			notified = append(notified, payment{r, a, amount})
			return nil
		},
	}))
	require.NoError(t, h.l.AwardPoints(addr(1), 3))

	h.rollToRoundBegin(4)
	assert.Equal(t, []seq.Event{Rewarded{Account: addr(3), Rewards: 300}}, h.rollTo(16))
	assert.Equal(t, []payment{{2, addr(1), 500}}, paid)
	assert.Equal(t, paid, notified)

	// sequencer 2 got no points
	assert.Empty(t, h.rollTo(17))
	assert.Len(t, paid, 1)
	h.rollTo(18)
	payout, err := h.l.DelayedPayout(2)
	require.NoError(t, err)
	assert.Nil(t, payout)
}

func TestPayoutWithEmptyPot(t *testing.T) {
	h := newRewardHarness(t, 0)
	require.NoError(t, h.l.AwardPoints(addr(1), 1))

	h.rollToRoundBegin(4)
	assert.Empty(t, rewards(h.rollTo(18)), "failed transfers are not reported")
	assert.Equal(t, uint64(testNative), h.native(1))
}

func TestAwardPointsAccumulate(t *testing.T) {
	h := newHarness(t, testGenesis(1, 2))
	require.NoError(t, h.l.AwardPoints(addr(1), 2))
	require.NoError(t, h.l.AwardPoints(addr(1), 3))
	require.NoError(t, h.l.AwardPoints(addr(2), 1))

	pts, err := h.l.AwardedPoints(1, addr(1))
	require.NoError(t, err)
	assert.Equal(t, seq.RewardPoint(5), pts)
	total, err := h.l.Points(1)
	require.NoError(t, err)
	assert.Equal(t, seq.RewardPoint(6), total)
}
