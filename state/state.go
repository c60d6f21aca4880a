// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/sequencer/kv"
	"github.com/vechain/sequencer/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// State manages storage items on top of a read-only kv source.
type State struct {
	src kv.Getter
	sm  *stackedmap.StackedMap[string, []byte] // keeps revisions of items
}

// New create state object.
func New(src kv.Getter) *State {
	s := &State{src: src}
	s.sm = stackedmap.New(s.srcGetter)
	s.sm.Push()
	return s
}

// srcGetter implements stackedmap.MapGetter.
func (s *State) srcGetter(key string) ([]byte, bool, error) {
	v, err := s.src.Get([]byte(key))
	if err != nil {
		if s.src.IsNotFound(err) {
			metricStateAccess().AddWithLabel(1, map[string]string{"type": "miss"})
			return nil, true, nil
		}
		return nil, false, err
	}
	metricStateAccess().AddWithLabel(1, map[string]string{"type": "hit"})
	return v, true, nil
}

// GetRaw returns the raw encoded value. Empty if absent.
func (s *State) GetRaw(key string) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// Has returns whether the item exists.
func (s *State) Has(key string) (bool, error) {
	v, err := s.GetRaw(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Get decodes the item into out. It returns false and leaves out untouched if the item is absent.
func (s *State) Get(key string, out any) (bool, error) {
	v, err := s.GetRaw(key)
	if err != nil {
		return false, err
	}
	if len(v) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(v, out); err != nil {
		return false, &Error{fmt.Errorf("decode %q: %w", key, err)}
	}
	return true, nil
}

// Set encodes val and stores it under key.
func (s *State) Set(key string, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return &Error{fmt.Errorf("encode %q: %w", key, err)}
	}
	s.sm.Put(key, data)
	return nil
}

// Delete removes the item.
func (s *State) Delete(key string) {
	s.sm.Put(key, nil)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Reset drops every uncommitted change. Call it once the staged changes were written to the source.
func (s *State) Reset() {
	s.sm = stackedmap.New(s.srcGetter)
	s.sm.Push()
}

// Stage makes a stage object holding the latest value of every changed item.
func (s *State) Stage() *Stage {
	changes := make(map[string][]byte)
	s.sm.Journal(func(k string, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes}
}
