// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package grouping

import (
	"github.com/vechain/sequencer/seq"
	"github.com/vechain/sequencer/vrf"
)

// Randomness derives a random value from a subject.
type Randomness interface {
	Random(subject []byte) (seq.Bytes32, error)
}

// HashRandomness hashes the subject. Anyone can predict it once the subject is known.
type HashRandomness struct{}

// Random implements Randomness.
func (HashRandomness) Random(subject []byte) (seq.Bytes32, error) {
	return seq.Blake2b(subject), nil
}

// VRFRandomness is the VRF output of the node key over the subject. It can't be predicted
// without the key and anyone holding the proof and the public key can check it.
type VRFRandomness struct {
	key *vrf.PrivateKey
}

// NewVRFRandomness creates a VRF randomness source.
func NewVRFRandomness(key *vrf.PrivateKey) *VRFRandomness {
	return &VRFRandomness{key}
}

// Random implements Randomness.
func (r *VRFRandomness) Random(subject []byte) (seq.Bytes32, error) {
	beta, _, err := r.key.Prove(subject)
	if err != nil {
		return seq.Bytes32{}, err
	}
	return seq.BytesToBytes32(beta), nil
}
