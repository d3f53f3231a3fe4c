// SPDX-License-Identifier: EPL-2.0

//go:build tinygo && rp2040

// Command soundbox is the firmware of a twelve button sound box on an RP2040.
//
//	tinygo flash -target pico ./cmd/soundbox
//	tinygo flash -target pico -ldflags "-X main.board=timer" ./cmd/soundbox
//
// The DMA board plays 10-bit clips with headroom from the buttons on GP0..GP11 (pulled up,
// active low) through GP15, with the amplifier enable on GP16. The timer board plays 8-bit
// clips through a slice wrap interrupt, with buttons pulled down and active high.
package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/ik5/soundbox"
	"github.com/ik5/soundbox/assets"
	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/hw/rp2040"
	"github.com/ik5/soundbox/transport"
)

// board selects the preset, config.TransportDMA or config.TransportTimer.
var board = config.TransportDMA

// tickerSlice is the PWM slice the timer board borrows as its sample clock.
const tickerSlice = 0

func main() {
	// Give a serial console time to attach.
	time.Sleep(time.Second)

	log := slog.New(slog.NewTextHandler(machine.Serial, nil))

	var err error
	if board == config.TransportTimer {
		err = run[uint8](config.Simple(), log, func(tb *rp2040.Timebase, cfg config.Config) hw.Transport[uint8] {
			return transport.NewTimer[uint8](rp2040.NewTicker(tickerSlice), tb, cfg.SampleRate)
		})
	} else {
		err = run[uint16](config.Default(), log, func(tb *rp2040.Timebase, _ config.Config) hw.Transport[uint16] {
			return rp2040.NewDMA(tb)
		})
	}

	for {
		log.Error("sound box stopped", "err", err)
		time.Sleep(5 * time.Second)
	}
}

func run[S hw.Sample](cfg config.Config, log *slog.Logger, newTransport func(*rp2040.Timebase, config.Config) hw.Transport[S]) error {
	tb, err := rp2040.NewTimebase(machine.Pin(cfg.AudioPin))
	if err != nil {
		return err
	}

	keep := []uint8{cfg.AudioPin}
	for i := range cfg.Buttons {
		keep = append(keep, cfg.FirstButtonPin+uint8(i))
	}

	parts := soundbox.Hardware[S]{
		Timebase:  tb,
		Transport: newTransport(tb, cfg),
		Buttons:   rp2040.Buttons{},
		Clock:     tb,
		Waker:     &rp2040.Waker{},
		Locker:    &rp2040.IRQLocker{},
	}
	if cfg.AmpPin != config.NoPin {
		parts.Gate = rp2040.NewGate(machine.Pin(cfg.AmpPin))
		keep = append(keep, uint8(cfg.AmpPin))
	}
	rp2040.Park(keep...)

	box, err := soundbox.New(cfg, parts, soundbox.WithLogger(log))
	if err != nil {
		return err
	}
	if err := box.Init(); err != nil {
		return err
	}

	// Swap for the Clips map written by convert-sounds to play recordings.
	if err := box.ConfigureClips(assets.ToneBank[S](cfg.Buttons, assets.FormatFor(cfg))); err != nil {
		return err
	}

	p := box.Period()
	log.Info("sound box ready", "rate", p.Rate, "top", p.Top, "divider", p.Divider(), "transport", cfg.Transport)

	return box.Run(context.Background())
}
