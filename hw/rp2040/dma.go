// SPDX-License-Identifier: EPL-2.0

//go:build tinygo && rp2040

package rp2040

import (
	"device/rp"
	"runtime"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/ik5/soundbox/hw"
)

// channel overlays the registers of one DMA channel, including its alias blocks.
type channel struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
	_           [12]volatile.Register32
}

const dmaChannels = 12

func channelAt(n int) *channel {
	return (*channel)(unsafe.Add(unsafe.Pointer(rp.DMA), uintptr(n)*unsafe.Sizeof(channel{})))
}

var (
	claimed     uint32
	completions [dmaChannels]func()
	dmaIRQ      interrupt.Interrupt
)

func init() {
	dmaIRQ = interrupt.New(rp.IRQ_DMA_IRQ_0, onDMA)
}

func onDMA(interrupt.Interrupt) {
	status := rp.DMA.INTS0.Get()
	rp.DMA.INTS0.Set(status)

	for n, fn := range completions {
		if status&(1<<n) != 0 && fn != nil {
			fn()
		}
	}
}

// DMA streams 16-bit levels into a Timebase's compare register, one per wrap. It
// implements hw.Transport[uint16] and hw.Claimer.
type DMA struct {
	tb   *Timebase
	num  int
	regs *channel

	src     []uint16
	stopped bool
	left    int
	done    func()
}

func NewDMA(tb *Timebase) *DMA {
	return &DMA{tb: tb, num: -1}
}

// Claim reserves the lowest free channel and routes its completion to this transport.
func (d *DMA) Claim() error {
	if d.num >= 0 {
		return nil
	}

	state := interrupt.Disable()
	defer interrupt.Restore(state)

	for n := range dmaChannels {
		if claimed&(1<<n) == 0 {
			claimed |= 1 << n
			d.num = n
			d.regs = channelAt(n)
			completions[n] = d.complete
			dmaIRQ.Enable()

			return nil
		}
	}

	return hw.ErrNoChannel
}

// Channel is the claimed channel, -1 before Claim.
func (d *DMA) Channel() int { return d.num }

func (d *DMA) Arm(samples []uint16) error {
	switch {
	case d.num < 0:
		return ErrNotClaimed
	case d.regs.CTRL_TRIG.HasBits(rp.DMA_CH0_CTRL_TRIG_BUSY):
		return hw.ErrArmed
	case len(samples) == 0:
		return hw.ErrEmpty
	}

	d.src = samples
	d.stopped = false

	rp.DMA.INTS0.Set(1 << d.num)
	rp.DMA.INTE0.SetBits(1 << d.num)

	d.regs.READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(unsafe.SliceData(samples)))))
	d.regs.WRITE_ADDR.Set(d.tb.levelAddr())
	d.regs.TRANS_COUNT.Set(uint32(len(samples)))
	// Writing CTRL_TRIG starts the transfer.
	d.regs.CTRL_TRIG.Set(rp.DMA_CH0_CTRL_TRIG_EN |
		rp.DMA_CH0_CTRL_TRIG_INCR_READ |
		rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_SIZE_HALFWORD<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos |
		uint32(d.num)<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos |
		d.tb.dreq()<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos)

	return nil
}

func (d *DMA) Abort() {
	if d.num < 0 {
		return
	}

	// Masked first: an abort can raise a completion of its own.
	rp.DMA.INTE0.ClearBits(1 << d.num)
	d.regs.CTRL_TRIG.ClearBits(rp.DMA_CH0_CTRL_TRIG_EN)
	d.left = int(d.regs.TRANS_COUNT.Get())
	rp.DMA.CHAN_ABORT.Set(1 << d.num)
	for rp.DMA.CHAN_ABORT.Get() != 0 {
	}
	rp.DMA.INTS0.Set(1 << d.num)

	d.stopped = true
	runtime.KeepAlive(d.src)
	d.src = nil
}

func (d *DMA) Remaining() int {
	if d.num < 0 {
		return 0
	}
	if d.stopped {
		return d.left
	}

	return int(d.regs.TRANS_COUNT.Get())
}

func (d *DMA) OnComplete(fn func()) { d.done = fn }

// complete runs in the DMA_IRQ_0 handler.
func (d *DMA) complete() {
	d.src = nil
	if d.done != nil {
		d.done()
	}
}
