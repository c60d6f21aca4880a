// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sequencer/lvldb"
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/state"
)

var (
	alice = seq.BytesToAddress([]byte("alice"))
	bob   = seq.BytesToAddress([]byte("bob"))
	lock1 = [8]byte{'l', 'o', 'c', 'k', '1'}
	lock2 = [8]byte{'l', 'o', 'c', 'k', '2'}
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func TestNativeLocks(t *testing.T) {
	n := NewNative(newState(t))
	require.NoError(t, n.Mint(alice, 100))

	require.NoError(t, n.SetLock(lock1, alice, 30))
	require.NoError(t, n.SetLock(lock2, alice, 50))
	usable, err := n.Usable(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), usable, "locks overlap")

	assert.ErrorIs(t, n.Transfer(alice, bob, 51), ErrInsufficientBalance)
	require.NoError(t, n.Transfer(alice, bob, 50))

	free, _ := n.Free(alice)
	assert.Equal(t, uint64(50), free)

	// replacing a lock keeps a single entry
	require.NoError(t, n.SetLock(lock2, alice, 10))
	locks, _ := n.Locks(alice)
	assert.Len(t, locks, 2)

	require.NoError(t, n.RemoveLock(lock1, alice))
	require.NoError(t, n.RemoveLock(lock2, alice))
	usable, _ = n.Usable(alice)
	assert.Equal(t, uint64(50), usable)

	issuance, _ := n.TotalIssuance()
	assert.Equal(t, uint64(100), issuance)
}

func TestAssetTransfer(t *testing.T) {
	st := newState(t)
	a := NewAsset(st, "btc")
	other := NewAsset(st, "eth")

	require.NoError(t, a.Mint(alice, 10))
	assert.ErrorIs(t, a.Transfer(alice, bob, 11), ErrInsufficientBalance)
	require.NoError(t, a.Transfer(alice, bob, 4))

	b, _ := a.Balance(alice)
	assert.Equal(t, uint64(6), b)
	b, _ = a.Balance(bob)
	assert.Equal(t, uint64(4), b)
	b, _ = other.Balance(bob)
	assert.Zero(t, b)

	require.NoError(t, a.Transfer(bob, alice, 4))
	has, _ := st.Has("asset/btc/" + string(bob.Bytes()))
	assert.False(t, has, "emptied accounts are removed")
}
