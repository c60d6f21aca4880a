// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vrf

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)

	parsed, err := ParseKey(k.Bytes())
	require.NoError(t, err)
	assert.Equal(t, k.PublicKey(), parsed.PublicKey())
	assert.Len(t, k.PublicKey(), PublicKeyLen)

	_, err = ParseKey(make([]byte, 31))
	assert.Error(t, err)
	_, err = ParseKey(make([]byte, 32))
	assert.Error(t, err, "zero key")
}

func TestProveVerify(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)

	alpha := []byte("parent block id")
	beta, proof, err := k.Prove(alpha)
	require.NoError(t, err)
	assert.Len(t, beta, OutputLen)
	assert.Len(t, proof, ProofLen)

	verified, err := Verify(k.PublicKey(), alpha, proof)
	require.NoError(t, err)
	assert.Equal(t, beta, verified)

	again, _, err := k.Prove(alpha)
	require.NoError(t, err)
	assert.Equal(t, beta, again, "output is deterministic")

	_, err = Verify(k.PublicKey(), []byte("other"), proof)
	assert.Error(t, err)
}

func TestVerifyBadInput(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)
	_, proof, err := k.Prove([]byte("x"))
	require.NoError(t, err)

	_, err = Verify(k.PublicKey()[1:], []byte("x"), proof)
	assert.Error(t, err)
	_, err = Verify(k.PublicKey(), []byte("x"), proof[1:])
	assert.Error(t, err)
}

func BenchmarkProve(b *testing.B) {
	k, _ := GenerateKey()
	msg := make([]byte, 32)

	for i := 0; i < b.N; i++ {
		rand.Read(msg)
		k.Prove(msg)
	}
}
