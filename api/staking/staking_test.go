// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/genesis"
	"github.com/vechain/sequencer/grouping"
	"github.com/vechain/sequencer/lvldb"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
	"github.com/vechain/sequencer/state"
)

var (
	ts  *httptest.Server
	api *Staking
)

func devLedger(t *testing.T) *staking.Ledger {
	gen := genesis.NewDevnet()
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
	require.NoError(t, gen.Build(l, groups))
	require.NoError(t, l.Commit())
	return l
}

func initStakingServer(t *testing.T) {
	router := mux.NewRouter()
	api = New(devLedger(t))
	api.Mount(router, "/staking")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func httpGet(t *testing.T, path string, v any) int {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(body, v), string(body))
	}
	return res.StatusCode
}

func dev(i int) seq.Address {
	return genesis.DevAccounts()[i].Address
}

func TestStaking(t *testing.T) {
	initStakingServer(t)

	for name, tt := range map[string]func(*testing.T){
		"getRound":            testGetRound,
		"getTotal":            testGetTotal,
		"getPoolAndSelected":  testGetPoolAndSelected,
		"getCandidate":        testGetCandidate,
		"getCandidateInvalid": testGetCandidateInvalid,
		"getDelegator":        testGetDelegator,
		"getAtStake":          testGetAtStake,
		"getPoints":           testGetPoints,
		"getConfig":           testGetConfig,
	} {
		t.Run(name, tt)
	}
}

func testGetRound(t *testing.T) {
	var r Round
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/round", &r))
	assert.Equal(t, Round{Current: 1, First: 0, Length: 20, SnapshotTimePoint: 15}, r)
}

func testGetTotal(t *testing.T) {
	var total Total
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/total", &total))
	assert.Equal(t, uint64(2000), total.Total)
}

func testGetPoolAndSelected(t *testing.T) {
	var pool []staking.Bond
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/pool", &pool))
	assert.Len(t, pool, 6)

	var selected []seq.Address
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/selected", &selected))
	assert.Len(t, selected, 5)
	assert.NotContains(t, selected, dev(5))
}

func testGetCandidate(t *testing.T) {
	var c Candidate
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/candidates/"+dev(1).String(), &c))
	assert.Equal(t, dev(1), c.Account)
	assert.Equal(t, uint64(300), c.TotalCounted)
	assert.Equal(t, uint32(2), c.DelegationCount)
	assert.Equal(t, "active", c.Status)
	assert.Equal(t, "partial", c.TopCapacity)
	assert.Equal(t, "empty", c.BottomCapacity)
	assert.Nil(t, c.LeavingRound)
	assert.Nil(t, c.BondLessRequest)
	assert.Equal(t, []staking.Bond{{Owner: dev(7), Amount: 200}, {Owner: dev(6), Amount: 100}}, c.Top)
	assert.Empty(t, c.Bottom)
	assert.Empty(t, c.Requests)
}

func testGetCandidateInvalid(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, httpGet(t, "/staking/candidates/"+dev(9).String(), nil))
	assert.Equal(t, http.StatusBadRequest, httpGet(t, "/staking/candidates/0x01", nil))
	assert.Equal(t, http.StatusNotFound, httpGet(t, "/staking/delegators/"+dev(0).String(), nil))
}

func testGetDelegator(t *testing.T) {
	var d Delegator
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/delegators/"+dev(6).String(), &d))
	assert.Equal(t, dev(6), d.Account)
	assert.Equal(t, uint64(200), d.Total)
	assert.Zero(t, d.LessTotal)
	assert.Len(t, d.Delegations, 2)
}

func testGetAtStake(t *testing.T) {
	var snap AtStake
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/rounds/1/at-stake/"+dev(0).String(), &snap))
	assert.Equal(t, seq.RoundIndex(1), snap.Round)
	assert.Equal(t, uint64(100), snap.Total)
	assert.Equal(t, []staking.Bond{{Owner: dev(6), Amount: 100}}, snap.Delegations)
	assert.True(t, api.atStake.Contains(atStakeKey{1, dev(0)}))

	// served from the cache the second time
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/rounds/1/at-stake/"+dev(0).String(), &snap))
	assert.Equal(t, uint64(100), snap.Total)

	assert.Equal(t, http.StatusNotFound, httpGet(t, "/staking/rounds/1/at-stake/"+dev(5).String(), nil))
	assert.Equal(t, http.StatusNotFound, httpGet(t, "/staking/rounds/9/at-stake/"+dev(0).String(), nil))
	assert.Equal(t, http.StatusBadRequest, httpGet(t, "/staking/rounds/x/at-stake/"+dev(0).String(), nil))
}

func testGetPoints(t *testing.T) {
	var p Points
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/rounds/1/points", &p))
	assert.Equal(t, seq.RoundIndex(1), p.Round)
	assert.Zero(t, p.Total)
	assert.Nil(t, p.DelayedPayout)
}

func testGetConfig(t *testing.T) {
	var cfg map[string]any
	require.Equal(t, http.StatusOK, httpGet(t, "/staking/config", &cfg))
	assert.Equal(t, "20%", cfg["sequencerCommission"])
	assert.Equal(t, true, cfg["markingOffline"])
	assert.Equal(t, seq.StakingAccount().String(), cfg["account"])
}
