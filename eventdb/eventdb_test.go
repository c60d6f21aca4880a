// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/eventdb"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/staking"
)

func addr(i byte) seq.Address {
	return seq.BytesToAddress([]byte{i})
}

// records builds blocks 1..n, each with a NewRound, a Delegation from i+10 to i
// and a Rewarded to i.
func records(n int) []*staking.Record {
	var rs []*staking.Record
	for b := 1; b <= n; b++ {
		block := seq.BlockNumber(b)
		rs = append(rs,
			&staking.Record{Block: block, Index: 0, Event: staking.NewRound{StartingBlock: block, Round: seq.RoundIndex(b)}},
			&staking.Record{Block: block, Index: 1, Event: staking.Delegation{
				Delegator: addr(byte(b + 10)), LockedAmount: 5, Candidate: addr(byte(b)),
			}},
			&staking.Record{Block: block, Index: 2, Event: staking.Rewarded{Account: addr(byte(b)), Rewards: 100}},
		)
	}
	return rs
}

func newDB(t *testing.T) *eventdb.EventDB {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndFilterAll(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	newest, err := db.NewestBlock(ctx)
	require.NoError(t, err)
	assert.Zero(t, newest)

	require.NoError(t, db.Insert(records(3)))
	require.NoError(t, db.Insert(nil))

	newest, err = db.NewestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq.BlockNumber(3), newest)

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 9)
	assert.Equal(t, seq.BlockNumber(1), all[0].Block)
	assert.Equal(t, "NewRound", all[0].Kind)
	assert.Empty(t, all[0].Accounts)

	ev := all[1]
	assert.Equal(t, "Delegation", ev.Kind)
	assert.Equal(t, []seq.Address{addr(11), addr(1)}, ev.Accounts)
	var decoded staking.Delegation
	require.NoError(t, json.Unmarshal(ev.Data, &decoded))
	assert.Equal(t, addr(1), decoded.Candidate)
	assert.Equal(t, uint64(5), decoded.LockedAmount)
}

func TestInsertReplaces(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	require.NoError(t, db.Insert(records(2)))
	require.NoError(t, db.Insert(records(2)))

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	mine, err := db.Filter(ctx, &eventdb.Filter{Account: ptr(addr(1))})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func ptr[T any](v T) *T { return &v }

func TestFilter(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	require.NoError(t, db.Insert(records(5)))

	type pos struct {
		block seq.BlockNumber
		index uint32
	}
	tests := []struct {
		name   string
		filter *eventdb.Filter
		want   []pos
	}{
		{
			"by kind",
			&eventdb.Filter{Kinds: []string{"Rewarded"}},
			[]pos{{1, 2}, {2, 2}, {3, 2}, {4, 2}, {5, 2}},
		},
		{
			"by kinds",
			&eventdb.Filter{Kinds: []string{"Rewarded", "NewRound"}, Range: &eventdb.Range{From: 2, To: 3}},
			[]pos{{2, 0}, {2, 2}, {3, 0}, {3, 2}},
		},
		{
			"by account",
			&eventdb.Filter{Account: ptr(addr(2))},
			[]pos{{2, 1}, {2, 2}},
		},
		{
			"by delegator",
			&eventdb.Filter{Account: ptr(addr(14)), Kinds: []string{"Delegation"}},
			[]pos{{4, 1}},
		},
		{
			"open range",
			&eventdb.Filter{Range: &eventdb.Range{From: 5}, Kinds: []string{"NewRound"}},
			[]pos{{5, 0}},
		},
		{
			"desc with page",
			&eventdb.Filter{Order: eventdb.DESC, Options: &eventdb.Options{Offset: 1, Limit: 2}},
			[]pos{{5, 1}, {5, 0}},
		},
		{
			"nothing",
			&eventdb.Filter{Account: ptr(addr(99))},
			[]pos{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Filter(ctx, tt.filter)
			require.NoError(t, err)
			positions := make([]pos, 0, len(got))
			for _, ev := range got {
				positions = append(positions, pos{ev.Block, ev.Index})
			}
			assert.Equal(t, tt.want, positions)
		})
	}
}

func TestFilterCancelled(t *testing.T) {
	db := newDB(t)
	require.NoError(t, db.Insert(records(2)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.Filter(ctx, nil)
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(records(2)))
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	newest, err := db.NewestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seq.BlockNumber(2), newest)
}
