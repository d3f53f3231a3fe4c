// SPDX-License-Identifier: EPL-2.0

// Package sim is a software model of the sound box hardware.
//
// Nothing advances on its own: every PWM update event is produced by Timebase.Step,
// either called directly by a test (deterministic, sample exact) or by RunClock, which
// paces Step against the wall clock, or by a sound device pulling samples. On each update
// event the Timebase raises its data request line, an armed DMA channel moves exactly one
// sample into the duty-cycle register, and the resulting level is handed to the Recorder.
// The engine never sees individual samples, which matches the real DMA pipeline.
//
//	tb := sim.NewTimebase(125_000_000)
//	dma := sim.NewDMA[uint16](tb, sim.NewChannels(12))
//	_ = dma.Claim()
//	_ = dma.Arm(clip)
//	tb.Enable(true)
//	tb.Step(40) // dma.Remaining() == len(clip) - 40
//
// Completion callbacks run on the goroutine that called Step, after every internal lock
// has been released, so they may call straight back into the engine.
package sim
