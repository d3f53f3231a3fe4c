// SPDX-License-Identifier: EPL-2.0

package hw

import "fmt"

// fracBits is the width of the divider's fractional part (RP2040 style 8.4 divider).
const fracBits = 4

// Resolution describes the duty-cycle range of a Timebase.
// The wrap value is (1<<Bits) - 1 + Headroom.
type Resolution struct {
	Bits     uint8
	Headroom uint16
}

// Top returns the wrap value for r.
func (r Resolution) Top() (uint16, error) {
	if r.Bits < 1 || r.Bits > 16 {
		return 0, fmt.Errorf("%w: %d bits", ErrResolution, r.Bits)
	}

	top := uint32(1)<<r.Bits - 1 + uint32(r.Headroom)
	if top > 0xFFFF {
		return 0, fmt.Errorf("%w: top %d exceeds 16 bits", ErrResolution, top)
	}

	return uint16(top), nil
}

// Period is a computed divider and wrap pair.
type Period struct {
	SourceHz uint32
	DivInt   uint8
	DivFrac  uint8
	Top      uint16
	// Rate is the resulting update rate in Hz.
	Rate float64
}

// Divider returns the divider as a real number.
func (p Period) Divider() float64 {
	return float64(p.DivInt) + float64(p.DivFrac)/(1<<fracBits)
}

// RateAt returns the update rate produced by this divider when the source clock runs at
// sourceHz. A clock change without a new ComputePeriod shows up here as pitch drift.
func (p Period) RateAt(sourceHz uint32) float64 {
	div16 := uint64(p.DivInt)<<fracBits | uint64(p.DivFrac)
	if div16 == 0 {
		return 0
	}

	return float64(uint64(sourceHz)<<fracBits) / float64(div16*(uint64(p.Top)+1))
}

// ComputePeriod returns the divider and wrap that make a timebase clocked at sourceHz
// update sampleRate times per second, rounded to the nearest 1/16 of a divider step.
func ComputePeriod(sourceHz, sampleRate uint32, res Resolution) (Period, error) {
	if sampleRate == 0 || sourceHz == 0 {
		return Period{}, ErrInvalidRate
	}

	top, err := res.Top()
	if err != nil {
		return Period{}, err
	}

	num := uint64(sourceHz) << fracBits
	den := uint64(sampleRate) * (uint64(top) + 1)
	div16 := (num + den/2) / den

	if div16 < 1<<fracBits || div16 >= 256<<fracBits {
		return Period{}, fmt.Errorf("%w: %.3f for %d Hz from %d Hz",
			ErrDividerRange, float64(num)/float64(den)/(1<<fracBits), sampleRate, sourceHz)
	}

	p := Period{
		SourceHz: sourceHz,
		DivInt:   uint8(div16 >> fracBits),
		DivFrac:  uint8(div16 & (1<<fracBits - 1)),
		Top:      top,
	}
	p.Rate = p.RateAt(sourceHz)

	return p, nil
}
