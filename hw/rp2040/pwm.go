// SPDX-License-Identifier: EPL-2.0

//go:build tinygo && rp2040

package rp2040

import (
	"device/rp"
	"fmt"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/ik5/soundbox/hw"
)

// slice overlays the registers of one PWM slice.
type slice struct {
	CSR volatile.Register32
	DIV volatile.Register32
	CTR volatile.Register32
	CC  volatile.Register32
	TOP volatile.Register32
}

const (
	sliceStride = 20
	slices      = 8
	// dreqPWMWrap0 is the DMA request line of slice 0's wrap, slice n uses 24+n.
	dreqPWMWrap0 = 24
)

func sliceAt(n uint8) *slice {
	return (*slice)(unsafe.Add(unsafe.Pointer(rp.PWM), uintptr(n)*sliceStride))
}

func (s *slice) program(p hw.Period) {
	s.CSR.Set(0)
	s.DIV.Set(uint32(p.DivInt)<<rp.PWM_CH0_DIV_INT_Pos | uint32(p.DivFrac)<<rp.PWM_CH0_DIV_FRAC_Pos)
	s.TOP.Set(uint32(p.Top))
	s.CTR.Set(0)
}

// Timebase drives the PWM slice of the audio pin. It implements hw.Timebase and
// hw.ClockSource.
type Timebase struct {
	pin    machine.Pin
	num    uint8
	chanB  bool
	regs   *slice
	period hw.Period
}

// NewTimebase routes pin to its PWM slice. The slice stays disabled until Enable.
func NewTimebase(pin machine.Pin) (*Timebase, error) {
	num, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil, fmt.Errorf("rp2040: pin %d has no pwm: %w", pin, err)
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinPWM})

	return &Timebase{pin: pin, num: num, chanB: pin&1 == 1, regs: sliceAt(num)}, nil
}

func (t *Timebase) SourceHz() uint32 { return machine.CPUFrequency() }

func (t *Timebase) Configure(sampleRate uint32, res hw.Resolution) (hw.Period, error) {
	p, err := hw.ComputePeriod(t.SourceHz(), sampleRate, res)
	if err != nil {
		return hw.Period{}, fmt.Errorf("rp2040 pwm%d: %w", t.num, err)
	}

	on := t.regs.CSR.HasBits(rp.PWM_CH0_CSR_EN)
	t.regs.program(p)
	if on {
		t.regs.CSR.SetBits(rp.PWM_CH0_CSR_EN)
	}
	t.period = p

	return p, nil
}

func (t *Timebase) SetLevel(level uint16) {
	if level > t.period.Top {
		level = t.period.Top
	}

	if t.chanB {
		t.regs.CC.ReplaceBits(uint32(level), 0xffff, 16)
	} else {
		t.regs.CC.ReplaceBits(uint32(level), 0xffff, 0)
	}
}

func (t *Timebase) Enable(on bool) {
	if on {
		t.regs.CSR.SetBits(rp.PWM_CH0_CSR_EN)
	} else {
		t.regs.CSR.ClearBits(rp.PWM_CH0_CSR_EN)
	}
}

// Pin is the audio output.
func (t *Timebase) Pin() machine.Pin { return t.pin }

func (t *Timebase) dreq() uint32 { return dreqPWMWrap0 + uint32(t.num) }

// levelAddr is the compare half of the audio channel, the DMA write target.
func (t *Timebase) levelAddr() uint32 {
	addr := uint32(uintptr(unsafe.Pointer(&t.regs.CC)))
	if t.chanB {
		addr += 2
	}

	return addr
}

var tickers [slices]func()

var wrapIRQ interrupt.Interrupt

func init() {
	wrapIRQ = interrupt.New(rp.IRQ_PWM_IRQ_WRAP, onWrap)
}

func onWrap(interrupt.Interrupt) {
	status := rp.PWM.INTS.Get()
	rp.PWM.INTR.Set(status)

	for n, fn := range tickers {
		if status&(1<<n) != 0 && fn != nil {
			fn()
		}
	}
}

// Ticker runs a callback from the wrap interrupt of a PWM slice with no pin attached. It
// implements hw.Ticker.
type Ticker struct {
	num  uint8
	regs *slice
}

// NewTicker uses slice num, which must differ from the audio slice.
func NewTicker(num uint8) *Ticker {
	return &Ticker{num: num % slices, regs: sliceAt(num % slices)}
}

func (t *Ticker) Start(rateHz uint32, fn func()) error {
	if tickers[t.num] != nil {
		return ErrTickerRunning
	}

	p, err := hw.ComputePeriod(machine.CPUFrequency(), rateHz, hw.Resolution{Bits: 8})
	if err != nil {
		return fmt.Errorf("rp2040 ticker: %w", err)
	}

	state := interrupt.Disable()
	t.regs.program(p)
	tickers[t.num] = fn
	rp.PWM.INTR.Set(1 << t.num)
	rp.PWM.INTE.SetBits(1 << t.num)
	t.regs.CSR.SetBits(rp.PWM_CH0_CSR_EN)
	interrupt.Restore(state)

	wrapIRQ.Enable()

	return nil
}

func (t *Ticker) Stop() {
	state := interrupt.Disable()
	t.regs.CSR.ClearBits(rp.PWM_CH0_CSR_EN)
	rp.PWM.INTE.ClearBits(1 << t.num)
	rp.PWM.INTR.Set(1 << t.num)
	tickers[t.num] = nil
	interrupt.Restore(state)
}
