// SPDX-License-Identifier: EPL-2.0

package input

import (
	"sync/atomic"

	"github.com/ik5/soundbox/hw"
)

// Busy reports whether a clip is playing.
type Busy interface {
	IsPlaying() bool
}

// Slots is the part of a sound registry the capture writes to.
type Slots interface {
	Len() int
	Playable(index int) bool
	MarkPending(index int) bool
}

// Stats counts handled events.
type Stats struct {
	Accepted uint64 // pending flag set
	Busy     uint64 // dropped while playing
	Ignored  uint64 // wrong edge, unknown pin or empty slot
	Repeats  uint64 // flag already set
}

// Capture maps button pins to slots. Button i is on pin FirstPin+i.
type Capture struct {
	first  uint8
	count  int
	edge   hw.Edge
	busy   Busy
	slots  Slots
	notify func()

	accepted atomic.Uint64
	dropped  atomic.Uint64
	ignored  atomic.Uint64
	repeats  atomic.Uint64
}

type Option func(*Capture)

// WithNotify calls fn after every accepted trigger, typically to wake the dispatch loop.
func WithNotify(fn func()) Option {
	return func(c *Capture) { c.notify = fn }
}

// WithEdge sets the activation edge. The default is hw.EdgeFalling, a button pulling a
// pulled-up pin to ground.
func WithEdge(e hw.Edge) Option {
	return func(c *Capture) { c.edge = e }
}

// New creates a Capture for slots.Len() buttons starting at firstPin.
func New(firstPin uint8, slots Slots, busy Busy, opts ...Option) *Capture {
	c := &Capture{
		first: firstPin,
		count: slots.Len(),
		edge:  hw.EdgeFalling,
		busy:  busy,
		slots: slots,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Pins lists the button pins in index order.
func (c *Capture) Pins() []uint8 {
	pins := make([]uint8, c.count)
	for i := range pins {
		pins[i] = c.first + uint8(i)
	}

	return pins
}

func (c *Capture) Edge() hw.Edge { return c.edge }

// Handle processes an edge on pin. It is safe to call from interrupt context.
func (c *Capture) Handle(pin uint8, edge hw.Edge) {
	if edge&c.edge == 0 || pin < c.first {
		c.ignored.Add(1)
		return
	}

	c.Trigger(int(pin - c.first))
}

// Trigger activates button index as if its edge had arrived.
func (c *Capture) Trigger(index int) {
	if index < 0 || index >= c.count {
		c.ignored.Add(1)
		return
	}
	if c.busy.IsPlaying() {
		c.dropped.Add(1)
		return
	}

	if !c.slots.MarkPending(index) {
		// Either the slot has no clip or the flag is already up.
		if c.slots.Playable(index) {
			c.repeats.Add(1)
		} else {
			c.ignored.Add(1)
		}
		return
	}

	c.accepted.Add(1)
	if c.notify != nil {
		c.notify()
	}
}

func (c *Capture) Stats() Stats {
	return Stats{
		Accepted: c.accepted.Load(),
		Busy:     c.dropped.Load(),
		Ignored:  c.ignored.Load(),
		Repeats:  c.repeats.Load(),
	}
}
