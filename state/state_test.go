// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/lvldb"
)

type item struct {
	Owner  string
	Amount uint64
	Memo   *uint32 `rlp:"nil"`
}

func TestStateGetSet(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)

	var got item
	ok, err := st.Get("missing", &got)
	assert.NoError(t, err)
	assert.False(t, ok)

	memo := uint32(7)
	want := item{"alice", 100, &memo}
	require.NoError(t, st.Set("item", &want))

	ok, err = st.Get("item", &got)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	st.Delete("item")
	has, err := st.Has("item")
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestStateRevert(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)
	require.NoError(t, st.Set("a", uint64(1)))

	cp := st.NewCheckpoint()
	require.NoError(t, st.Set("a", uint64(2)))
	require.NoError(t, st.Set("b", uint64(3)))
	st.RevertTo(cp)

	var a uint64
	ok, _ := st.Get("a", &a)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), a)

	has, _ := st.Has("b")
	assert.False(t, has)

	// reverting past the base level keeps the state usable
	st.RevertTo(0)
	require.NoError(t, st.Set("c", uint64(4)))
	has, _ = st.Has("c")
	assert.True(t, has)
}

func TestStageCommit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("old"), []byte{0x01}))

	st := New(db)
	require.NoError(t, st.Set("new", uint64(9)))
	st.Delete("old")

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())

	batch := db.NewBatch()
	require.NoError(t, stage.Commit(batch))
	require.NoError(t, batch.Write())

	reloaded := New(db)
	var v uint64
	ok, err := reloaded.Get("new", &v)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(9), v)

	has, _ := reloaded.Has("old")
	assert.False(t, has)

	// the committed state reads the same after dropping the journal
	st.Reset()
	assert.Equal(t, 0, st.Stage().Len())
	ok, err = st.Get("new", &v)
	assert.NoError(t, err)
	assert.True(t, ok)
	has, _ = st.Has("old")
	assert.False(t, has)
}

type strKey string

func (k strKey) Bytes() []byte { return []byte(k) }

func TestMappingAndRaw(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)
	m := NewMapping[strKey, item](st, "items/")

	_, ok, err := m.Get("a")
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("a", item{Owner: "a", Amount: 1}))
	v, ok, err := m.Get("a")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, item{Owner: "a", Amount: 1}, v)

	has, _ := st.Has("items/a")
	assert.True(t, has)

	m.Delete("a")
	has, _ = m.Has("a")
	assert.False(t, has)

	r := NewRaw[uint32](st, "counter")
	n, err := r.Get()
	assert.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, r.Set(5))
	n, _ = r.Get()
	assert.Equal(t, uint32(5), n)
}
