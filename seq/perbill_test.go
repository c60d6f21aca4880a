// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerbillFromRational(t *testing.T) {
	tests := []struct {
		name string
		n, d uint64
		want Perbill
	}{
		{"half", 1, 2, 500_000_000},
		{"third rounds down", 1, 3, 333_333_333},
		{"two thirds rounds down", 2, 3, 666_666_666},
		{"zero", 0, 7, 0},
		{"zero denominator", 5, 0, PerbillOne},
		{"greater than one", 9, 4, PerbillOne},
		{"equal", 4, 4, PerbillOne},
		{"large operands", math.MaxUint64 / 2, math.MaxUint64, 499_999_999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PerbillFromRational(tt.n, tt.d))
		})
	}
}

func TestPerbillMul(t *testing.T) {
	assert.Equal(t, uint64(20), PerbillFromPercent(20).Mul(100))
	assert.Equal(t, uint64(0), PerbillFromPercent(20).Mul(4))
	assert.Equal(t, uint64(33), PerbillFromRational(1, 3).Mul(100))
	assert.Equal(t, uint64(math.MaxUint64), PerbillOne.Mul(math.MaxUint64))
	assert.Equal(t, uint64(0), Perbill(0).Mul(math.MaxUint64))
}

func TestPerbillString(t *testing.T) {
	assert.Equal(t, "20%", PerbillFromPercent(20).String())
	assert.Equal(t, "100%", PerbillFromPercent(150).String())
	assert.Equal(t, "33.3333333%", PerbillFromRational(1, 3).String())
}

func TestSaturating(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), SaturatingAdd(math.MaxUint64, 1))
	assert.Equal(t, uint64(3), SaturatingAdd(1, 2))
	assert.Equal(t, uint64(0), SaturatingSub(1, 2))
	assert.Equal(t, uint64(1), SaturatingSub(3, 2))
	assert.Equal(t, uint32(math.MaxUint32), SaturatingAdd32(math.MaxUint32, 5))
	assert.Equal(t, uint32(0), SaturatingSub32(2, 5))
}

func TestParsePerbill(t *testing.T) {
	tests := []struct {
		in      string
		want    Perbill
		wantErr bool
	}{
		{"20%", PerbillFromPercent(20), false},
		{"12.5%", Perbill(125_000_000), false},
		{"0.0000001%", Perbill(1), false},
		{"100%", PerbillOne, false},
		{"100.1%", 0, true},
		{"20", 0, true},
		{"1.12345678%", 0, true},
		{"-1%", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePerbill(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var p Perbill
	assert.NoError(t, p.UnmarshalText([]byte("33.3333333%")))
	assert.Equal(t, PerbillFromRational(1, 3), p)
	text, err := p.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "33.3333333%", string(text))
}
