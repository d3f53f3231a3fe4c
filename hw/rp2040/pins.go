// SPDX-License-Identifier: EPL-2.0

//go:build tinygo && rp2040

package rp2040

import (
	"context"
	"device/arm"
	"device/rp"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"slices"
	"unsafe"

	"github.com/ik5/soundbox/hw"
)

// gpioCount is the number of user GPIOs of bank 0.
const gpioCount = 29

// Gate drives an active high amplifier enable pin. It starts low.
type Gate struct{ pin machine.Pin }

func NewGate(pin machine.Pin) *Gate {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()

	return &Gate{pin: pin}
}

func (g *Gate) Set(on bool) { g.pin.Set(on) }

// Buttons is the GPIO edge interrupt source. It implements hw.EdgeSource.
type Buttons struct{}

func (Buttons) Listen(pins []uint8, pull hw.Pull, edge hw.Edge, fn func(pin uint8, edge hw.Edge)) error {
	mode := machine.PinInput
	switch pull {
	case hw.PullUp:
		mode = machine.PinInputPullup
	case hw.PullDown:
		mode = machine.PinInputPulldown
	}

	var change machine.PinChange
	switch edge {
	case hw.EdgeRising:
		change = machine.PinRising
	case hw.EdgeFalling:
		change = machine.PinFalling
	default:
		change = machine.PinToggle
	}

	for _, p := range pins {
		pin := machine.Pin(p)
		pin.Configure(machine.PinConfig{Mode: mode})

		err := pin.SetInterrupt(change, func(pin machine.Pin) {
			e := edge
			if change == machine.PinToggle {
				e = hw.EdgeFalling
				if pin.Get() {
					e = hw.EdgeRising
				}
			}
			fn(uint8(pin), e)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Park configures every GPIO not in keep as an input without pulls and with the input
// buffer off, the lowest power state of an unused pin.
func Park(keep ...uint8) {
	for p := range uint8(gpioCount) {
		if slices.Contains(keep, p) {
			continue
		}

		pin := machine.Pin(p)
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
		pad(p).ClearBits(rp.PADS_BANK0_GPIO0_IE | rp.PADS_BANK0_GPIO0_PUE | rp.PADS_BANK0_GPIO0_PDE)
	}
}

// pad is the pad control register of gpio n, after the voltage select word.
func pad(n uint8) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Add(unsafe.Pointer(rp.PADS_BANK0), 4+4*uintptr(n)))
}

// Waker parks the core with WFE until an interrupt has called Notify. It implements
// hw.Waker.
type Waker struct{ pending volatile.Register8 }

func (w *Waker) Notify() {
	w.pending.Set(1)
	arm.Asm("sev")
}

func (w *Waker) Wait(ctx context.Context) error {
	for w.pending.Get() == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		arm.Asm("wfe")
	}
	w.pending.Set(0)

	return nil
}

// IRQLocker is a sync.Locker that masks interrupts. Engine state shared with the DMA
// and GPIO handlers is guarded by it on a single core.
type IRQLocker struct{ state interrupt.State }

func (l *IRQLocker) Lock() {
	s := interrupt.Disable()
	l.state = s
}

func (l *IRQLocker) Unlock() { interrupt.Restore(l.state) }
