// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/sequencer/kv"

// Stage abstracts changes to be written into the kv store.
type Stage struct {
	changes map[string][]byte
}

// Len returns the count of changed items.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into the putter.
func (s *Stage) Commit(putter kv.Putter) error {
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = putter.Delete([]byte(k))
		} else {
			err = putter.Put([]byte(k), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	metricCommitted().Add(int64(len(s.changes)))
	return nil
}
