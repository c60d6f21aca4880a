// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// PerbillAccuracy is the denominator of a Perbill.
const PerbillAccuracy = 1_000_000_000

var perbillDenom = uint256.NewInt(PerbillAccuracy)

// Perbill is a fixed point fraction in parts per billion. All conversions round down.
type Perbill uint32

// PerbillOne is the fraction 1.
const PerbillOne = Perbill(PerbillAccuracy)

// PerbillFromPercent builds a Perbill from a whole percent, saturating at 100.
func PerbillFromPercent(p uint32) Perbill {
	if p >= 100 {
		return PerbillOne
	}
	return Perbill(p * (PerbillAccuracy / 100))
}

// PerbillFromParts builds a Perbill from raw parts, saturating at one.
func PerbillFromParts(parts uint32) Perbill {
	if parts > PerbillAccuracy {
		return PerbillOne
	}
	return Perbill(parts)
}

// PerbillFromRational returns floor(n/d) as a Perbill.
// A zero denominator or n >= d yields PerbillOne.
func PerbillFromRational(n, d uint64) Perbill {
	if d == 0 || n >= d {
		return PerbillOne
	}
	var r uint256.Int
	r.Mul(uint256.NewInt(n), perbillDenom)
	r.Div(&r, uint256.NewInt(d))
	return Perbill(r.Uint64())
}

// Mul returns floor(p * v).
func (p Perbill) Mul(v uint64) uint64 {
	var r uint256.Int
	r.Mul(uint256.NewInt(v), uint256.NewInt(uint64(p)))
	r.Div(&r, perbillDenom)
	return r.Uint64()
}

// Parts returns the raw parts per billion.
func (p Perbill) Parts() uint32 {
	return uint32(p)
}

// IsZero returns whether the fraction is zero.
func (p Perbill) IsZero() bool {
	return p == 0
}

// String renders the fraction as a percentage.
func (p Perbill) String() string {
	whole := uint32(p) / (PerbillAccuracy / 100)
	frac := uint32(p) % (PerbillAccuracy / 100)
	if frac == 0 {
		return fmt.Sprintf("%d%%", whole)
	}
	return fmt.Sprintf("%d.%07d%%", whole, frac)
}

// ParsePerbill parses a percentage like "20%" or "12.5%", with at most 7 decimals.
func ParsePerbill(s string) (Perbill, error) {
	body, ok := strings.CutSuffix(strings.TrimSpace(s), "%")
	if !ok {
		return 0, fmt.Errorf("perbill %q: missing %% suffix", s)
	}
	whole, frac, _ := strings.Cut(body, ".")
	if len(frac) > 7 {
		return 0, fmt.Errorf("perbill %q: too many decimals", s)
	}
	w, err := strconv.ParseUint(whole, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("perbill %q: %w", s, err)
	}
	var f uint64
	if frac != "" {
		if f, err = strconv.ParseUint(frac+strings.Repeat("0", 7-len(frac)), 10, 32); err != nil {
			return 0, fmt.Errorf("perbill %q: %w", s, err)
		}
	}
	if w > 100 || (w == 100 && f > 0) {
		return 0, fmt.Errorf("perbill %q: above 100%%", s)
	}
	return Perbill(w*(PerbillAccuracy/100) + f), nil
}

// MarshalText encodes the fraction as a percentage.
func (p Perbill) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a percentage.
func (p *Perbill) UnmarshalText(text []byte) error {
	v, err := ParsePerbill(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
