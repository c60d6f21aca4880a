// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/google/btree"

	"github.com/vechain/sequencer/seq"
)

// BondedSet is a set of bonds keyed by owner, bounded by a capacity.
// Unlike the delegation partitions it never evicts, inserts past the capacity are rejected.
type BondedSet struct {
	tree     *btree.BTreeG[Bond]
	capacity int
}

func lessByOwner(a, b Bond) bool {
	return a.Owner.Compare(b.Owner) < 0
}

// NewBondedSet creates an empty set.
func NewBondedSet(capacity uint32) *BondedSet {
	return &BondedSet{
		tree:     btree.NewG(8, lessByOwner),
		capacity: int(capacity),
	}
}

// newBondedSetFrom loads the set from its stored form, which is ordered by owner.
func newBondedSetFrom(bonds []Bond, capacity uint32) *BondedSet {
	s := NewBondedSet(capacity)
	for _, b := range bonds {
		s.tree.ReplaceOrInsert(b)
	}
	return s
}

// TryInsert inserts the bond, returning whether the owner is new.
// For an existing owner nothing changes and false is returned.
func (s *BondedSet) TryInsert(b Bond) (bool, error) {
	if s.tree.Has(b) {
		return false, nil
	}
	if s.tree.Len() >= s.capacity {
		return false, ErrCandidateLimitReached
	}
	s.tree.ReplaceOrInsert(b)
	return true, nil
}

// Remove removes the bond of owner and reports whether it was present.
func (s *BondedSet) Remove(owner seq.Address) bool {
	_, ok := s.tree.Delete(Bond{Owner: owner})
	return ok
}

// Get returns the bond of owner.
func (s *BondedSet) Get(owner seq.Address) (Bond, bool) {
	return s.tree.Get(Bond{Owner: owner})
}

// Len returns the number of bonds.
func (s *BondedSet) Len() int {
	return s.tree.Len()
}

// Bonds returns the bonds ordered by owner.
func (s *BondedSet) Bonds() []Bond {
	bonds := make([]Bond, 0, s.tree.Len())
	s.tree.Ascend(func(b Bond) bool {
		bonds = append(bonds, b)
		return true
	})
	return bonds
}
