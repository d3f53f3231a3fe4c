// SPDX-License-Identifier: EPL-2.0

// Package hw defines the narrow hardware contracts the playback engine is built on.
//
// The engine never touches registers. It talks to four small interfaces:
//
//   - Timebase: a PWM slice whose update (wrap) rate equals the sample rate and whose
//     duty-cycle register receives one level per sample
//   - Transport: something that streams a sample buffer into the Timebase on its own,
//     once armed, and reports how much is left
//   - Gate: the amplifier enable line
//   - EdgeSource: button pins that report activation edges
//
// Implementations live in sub packages: hw/sim is a software model used by tests and the
// host simulator, hw/rp2040 drives a real RP2040 under TinyGo.
//
// # Samples
//
// Samples are unsigned duty-cycle levels, either 8-bit (the simple, timer-driven variant)
// or 16-bit values already scaled into the Timebase's [0, Top] range (the DMA variant):
//
//	type Sample interface {
//	    ~uint8 | ~uint16
//	}
//
// # Period
//
// ComputePeriod derives the clock divider and wrap value for a sample rate:
//
//	p, err := hw.ComputePeriod(125_000_000, 22050, hw.Resolution{Bits: 10, Headroom: 65})
//	// p.Top == 1088, p.DivInt == 5, p.DivFrac == 3, p.Rate ≈ 22127 Hz
//
// The divider must be recomputed whenever the source clock changes, otherwise the
// update rate (and with it the pitch of every clip) drifts.
package hw
