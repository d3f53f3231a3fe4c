// SPDX-License-Identifier: EPL-2.0

// Package soundbox is the firmware core of a twelve-button sound box.
//
// Every button is bound to one PCM clip. Pressing an idle box plays that clip through a
// PWM output whose update rate is the sample rate; the samples are streamed into the
// duty-cycle register by a transport (a DMA channel or a timer interrupt) with no work
// per sample from the caller. Presses that arrive while a clip plays are dropped.
//
// # Wiring
//
// A Box is the one explicit context object. It owns the sound registry, the playback
// engine, the input capture and the dispatch loop, and is handed the board through a
// Hardware value:
//
//	box, err := soundbox.New(config.Default(), soundbox.Hardware[uint16]{
//		Timebase:  pwm,
//		Transport: dma,
//		Gate:      amp,
//		Buttons:   buttons,
//		Waker:     waker,
//	})
//	if err != nil {
//		return err
//	}
//	if err := box.Init(); err != nil {
//		return err // no DMA channel, bad divider
//	}
//	box.ConfigureClips(clips)
//	return box.Run(ctx)
//
// # Hardware
//
// The hw package holds the contracts. hw/sim implements them in software with a clock
// that only advances when stepped, which is what the tests and the host simulator use.
// hw/rp2040 implements them for the Raspberry Pi RP2040 under TinyGo.
//
// # Assets
//
// Clips are pre-expanded duty-cycle levels. The assets package and cmd/convert-sounds
// turn WAV, MP3, Ogg Vorbis and AIFF files into such levels using the audio pipeline and
// the decoders under formats/.
package soundbox
