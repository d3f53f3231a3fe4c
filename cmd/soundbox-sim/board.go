// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/ik5/soundbox"
	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/hw/sim"
	"github.com/ik5/soundbox/transport"
)

// clkSys is the RP2040 system clock the simulated slice divides down.
const clkSys = 125_000_000

// dmaChannels matches the RP2040 channel count.
const dmaChannels = 12

// board is the simulated hardware of one box.
type board[S hw.Sample] struct {
	cfg     config.Config
	tb      *sim.Timebase
	buttons *sim.Buttons
	gate    *sim.Gate
	waker   *sim.Waker
	tape    *sim.Tape
	tr      hw.Transport[S]
}

func newBoard[S hw.Sample](cfg config.Config, record bool) (*board[S], error) {
	b := &board[S]{
		cfg:     cfg,
		tb:      sim.NewTimebase(clkSys),
		buttons: &sim.Buttons{},
		gate:    &sim.Gate{},
		waker:   sim.NewWaker(),
	}

	switch cfg.Transport {
	case config.TransportDMA:
		b.tr = sim.NewDMA[S](b.tb, sim.NewChannels(dmaChannels))
	case config.TransportTimer:
		b.tr = transport.NewTimer[S](sim.NewTicker(b.tb), b.tb, cfg.SampleRate)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrTransport, cfg.Transport)
	}

	if record {
		b.tape = &sim.Tape{}
		b.tb.SetRecorder(b.tape)
	}

	return b, nil
}

func (b *board[S]) hardware() soundbox.Hardware[S] {
	h := soundbox.Hardware[S]{
		Timebase:  b.tb,
		Transport: b.tr,
		Buttons:   b.buttons,
		Clock:     b.tb,
		Waker:     b.waker,
	}
	if b.cfg.AmpPin != config.NoPin {
		h.Gate = b.gate
	}

	return h
}

// press taps button i.
func (b *board[S]) press(i int) error {
	if i < 0 || i >= b.cfg.Buttons {
		return fmt.Errorf("button %d out of range [0,%d)", i, b.cfg.Buttons)
	}

	return b.buttons.Tap(b.cfg.FirstButtonPin + uint8(i))
}

func (b *board[S]) step(n int)         { b.tb.Step(n) }
func (b *board[S]) setClock(hz uint32) { b.tb.SetSourceHz(hz) }
