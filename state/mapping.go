// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

// Key is the key type of a Mapping.
type Key interface {
	Bytes() []byte
}

// Mapping is a typed key/value view over a prefixed region of the state.
type Mapping[K Key, V any] struct {
	state  *State
	prefix string
}

// NewMapping creates a mapping whose items are stored under prefix.
func NewMapping[K Key, V any](state *State, prefix string) *Mapping[K, V] {
	return &Mapping[K, V]{state, prefix}
}

func (m *Mapping[K, V]) key(k K) string {
	return m.prefix + string(k.Bytes())
}

// Get returns the value for k, and whether it exists.
func (m *Mapping[K, V]) Get(k K) (value V, exists bool, err error) {
	exists, err = m.state.Get(m.key(k), &value)
	return
}

// Has returns whether k exists.
func (m *Mapping[K, V]) Has(k K) (bool, error) {
	return m.state.Has(m.key(k))
}

// Set stores the value for k.
func (m *Mapping[K, V]) Set(k K, value V) error {
	return m.state.Set(m.key(k), value)
}

// Delete removes k.
func (m *Mapping[K, V]) Delete(k K) {
	m.state.Delete(m.key(k))
}

// Raw is a single typed item of the state.
type Raw[V any] struct {
	state *State
	key   string
}

// NewRaw creates a typed item stored under key.
func NewRaw[V any](state *State, key string) *Raw[V] {
	return &Raw[V]{state, key}
}

// Get returns the value, or the zero value if absent.
func (r *Raw[V]) Get() (value V, err error) {
	_, err = r.state.Get(r.key, &value)
	return
}

// Set stores the value.
func (r *Raw[V]) Set(value V) error {
	return r.state.Set(r.key, value)
}
