// SPDX-License-Identifier: EPL-2.0

package sim

import (
	"fmt"
	"sync"

	"github.com/ik5/soundbox/hw"
)

// Channels is a pool of DMA channels.
type Channels struct {
	mu   sync.Mutex
	used []bool
}

func NewChannels(n int) *Channels {
	return &Channels{used: make([]bool, n)}
}

func (c *Channels) claim() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, u := range c.used {
		if !u {
			c.used[i] = true
			return i, nil
		}
	}

	return -1, hw.ErrNoChannel
}

// Free returns the number of unclaimed channels.
func (c *Channels) Free() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, u := range c.used {
		if !u {
			n++
		}
	}

	return n
}

// DMA is a simulated transfer channel paced by a Timebase's data request line.
// It implements hw.Transport and hw.Claimer.
type DMA[S hw.Sample] struct {
	mu        sync.Mutex
	tb        *Timebase
	pool      *Channels
	channel   int
	src       []S
	next      int
	remaining int
	armed     bool
	done      func()
	transfers uint64
}

func NewDMA[S hw.Sample](tb *Timebase, pool *Channels) *DMA[S] {
	d := &DMA[S]{tb: tb, pool: pool, channel: -1}
	tb.onRequest(d.request)

	return d
}

func (d *DMA[S]) Claim() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.channel >= 0 {
		return nil
	}

	ch, err := d.pool.claim()
	if err != nil {
		return fmt.Errorf("sim dma: %w", err)
	}
	d.channel = ch

	return nil
}

// Channel is the claimed channel number, -1 before Claim.
func (d *DMA[S]) Channel() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.channel
}

func (d *DMA[S]) Arm(samples []S) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case d.channel < 0:
		return ErrNotClaimed
	case d.armed:
		return hw.ErrArmed
	case len(samples) == 0:
		return hw.ErrEmpty
	}

	d.src = samples
	d.next = 0
	d.remaining = len(samples)
	d.armed = true

	return nil
}

func (d *DMA[S]) Abort() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.armed = false
	d.src = nil
}

func (d *DMA[S]) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.remaining
}

func (d *DMA[S]) OnComplete(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.done = fn
}

// Armed reports whether a buffer is in flight.
func (d *DMA[S]) Armed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.armed
}

// Transfers counts samples moved since creation.
func (d *DMA[S]) Transfers() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.transfers
}

// request moves one sample. It runs on the Step goroutine.
func (d *DMA[S]) request() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}

	v := d.src[d.next]
	d.next++
	d.remaining--
	d.transfers++

	finished := d.remaining == 0
	if finished {
		d.armed = false
		d.src = nil
	}
	done := d.done
	d.mu.Unlock()

	d.tb.SetLevel(uint16(v))

	if finished && done != nil {
		done()
	}
}
