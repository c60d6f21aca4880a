// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/kv"
)

func TestLevelDB(t *testing.T) {
	disk, err := New(filepath.Join(t.TempDir(), "db"), Options{CacheSize: 16, OpenFilesCacheCapacity: 16})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{disk, mem} {
		key, value := []byte("123"), []byte("456")

		require.NoError(t, db.Put(key, value))
		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has([]byte("abc"))
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBatchAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := db.NewBatch()
	for _, k := range []string{"a/1", "a/2", "b/1", "a/3"} {
		require.NoError(t, b.Put([]byte(k), []byte("v"+k)))
	}
	require.NoError(t, b.Delete([]byte("a/2")))
	assert.Equal(t, 5, b.Len())

	_, err = db.Get([]byte("a/1"))
	assert.True(t, db.IsNotFound(err), "batch not written yet")

	require.NoError(t, b.Write())

	it := kv.Bucket("a/").Iterate(db, kv.Range{})
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "3"}, keys)
}
