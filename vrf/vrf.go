// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vrf proves and verifies ECVRF-SECP256K1-SHA256-TAI outputs.
package vrf

import (
	"crypto/ecdsa"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/vechain/go-ecvrf"
)

// constants
const (
	PrivateKeyLen = 32
	PublicKeyLen  = 33
	ProofLen      = 81
	OutputLen     = 32
)

// PrivateKey is a VRF secret key.
type PrivateKey struct {
	sk *secp256k1.PrivateKey
}

// GenerateKey creates a random key.
func GenerateKey() (*PrivateKey, error) {
	sk, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{sk}, nil
}

// ParseKey decodes a 32 bytes key.
func ParseKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeyLen {
		return nil, errors.Errorf("invalid key length %d, %d bytes needed", len(b), PrivateKeyLen)
	}
	sk := secp256k1.PrivKeyFromBytes(b)
	if sk.Key.IsZero() {
		return nil, errors.New("invalid key")
	}
	return &PrivateKey{sk}, nil
}

// Bytes returns the 32 bytes encoding of the key.
func (k *PrivateKey) Bytes() []byte {
	return k.sk.Serialize()
}

// PublicKey returns the compressed public key.
func (k *PrivateKey) PublicKey() []byte {
	return k.sk.PubKey().SerializeCompressed()
}

func (k *PrivateKey) ecdsa() *ecdsa.PrivateKey {
	return k.sk.ToECDSA()
}

// Prove computes the output for alpha and the proof of it.
func (k *PrivateKey) Prove(alpha []byte) (beta, proof []byte, err error) {
	return ecvrf.NewSecp256k1Sha256Tai().Prove(k.ecdsa(), alpha)
}

// Verify checks proof against the compressed public key and returns the output for alpha.
func Verify(pub, alpha, proof []byte) ([]byte, error) {
	if len(pub) != PublicKeyLen {
		return nil, errors.Errorf("invalid public key length %d, %d bytes needed", len(pub), PublicKeyLen)
	}
	if len(proof) != ProofLen {
		return nil, errors.Errorf("invalid proof length %d, %d bytes needed", len(proof), ProofLen)
	}
	pk, err := crypto.DecompressPubkey(pub)
	if err != nil {
		return nil, errors.Wrap(err, "decompress public key")
	}
	return ecvrf.NewSecp256k1Sha256Tai().Verify(pk, alpha, proof)
}
