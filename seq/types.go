// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seq

import "math/bits"

type (
	// RoundIndex index of a staking round. The genesis round is 1.
	RoundIndex = uint32
	// RewardPoint points awarded to a sequencer for produced work.
	RewardPoint = uint32
	// BlockNumber height of a block.
	BlockNumber = uint32
)

// SaturatingAdd returns a+b, clamped at the max uint64.
func SaturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return ^uint64(0)
	}
	return sum
}

// SaturatingSub returns a-b, clamped at zero.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// SaturatingAdd32 returns a+b, clamped at the max uint32.
func SaturatingAdd32(a, b uint32) uint32 {
	sum := a + b
	if sum < a {
		return ^uint32(0)
	}
	return sum
}

// SaturatingSub32 returns a-b, clamped at zero.
func SaturatingSub32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
