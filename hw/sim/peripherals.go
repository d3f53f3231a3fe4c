// SPDX-License-Identifier: EPL-2.0

package sim

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ik5/soundbox/hw"
)

// Gate records the amplifier enable line.
type Gate struct {
	on      atomic.Bool
	toggles atomic.Int64
}

func (g *Gate) Set(on bool) {
	if g.on.Swap(on) != on {
		g.toggles.Add(1)
	}
}

func (g *Gate) On() bool       { return g.on.Load() }
func (g *Gate) Toggles() int64 { return g.toggles.Load() }

// Buttons is a bank of simulated push buttons. It implements hw.EdgeSource.
// Pressing a pulled-up button pulls the pin low (falling edge), pressing a pulled-down
// button drives it high (rising edge).
type Buttons struct {
	mu   sync.Mutex
	pins []uint8
	pull hw.Pull
	mask hw.Edge
	fn   func(pin uint8, edge hw.Edge)
}

func (b *Buttons) Listen(pins []uint8, pull hw.Pull, edge hw.Edge, fn func(pin uint8, edge hw.Edge)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pins = slices.Clone(pins)
	b.pull = pull
	b.mask = edge
	b.fn = fn

	return nil
}

// Press delivers the edge produced by pushing the button on pin.
func (b *Buttons) Press(pin uint8) error {
	edge := hw.EdgeRising
	if b.pullOf() == hw.PullUp {
		edge = hw.EdgeFalling
	}

	return b.Edge(pin, edge)
}

// Release delivers the edge produced by letting go of the button on pin.
func (b *Buttons) Release(pin uint8) error {
	edge := hw.EdgeFalling
	if b.pullOf() == hw.PullUp {
		edge = hw.EdgeRising
	}

	return b.Edge(pin, edge)
}

// Tap presses and releases.
func (b *Buttons) Tap(pin uint8) error {
	if err := b.Press(pin); err != nil {
		return err
	}

	return b.Release(pin)
}

// Edge injects a raw edge. Edges outside the listening mask are swallowed the way an
// interrupt controller would.
func (b *Buttons) Edge(pin uint8, edge hw.Edge) error {
	b.mu.Lock()
	listening := slices.Contains(b.pins, pin)
	mask, fn := b.mask, b.fn
	b.mu.Unlock()

	if !listening || fn == nil {
		return fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	if edge&mask == 0 {
		return nil
	}

	fn(pin, edge)

	return nil
}

func (b *Buttons) pullOf() hw.Pull {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.pull
}

// Ticker is a periodic timer that fires on every update event of a Timebase, enabled or
// not. It implements hw.Ticker.
type Ticker struct {
	mu   sync.Mutex
	fn   func()
	rate uint32
}

func NewTicker(tb *Timebase) *Ticker {
	t := &Ticker{}
	tb.onTick(t.tick)

	return t
}

func (t *Ticker) Start(rateHz uint32, fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fn != nil {
		return ErrTickerRunning
	}
	t.rate = rateHz
	t.fn = fn

	return nil
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fn = nil
}

// Running reports whether a callback is installed.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.fn != nil
}

func (t *Ticker) tick() {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Waker is a channel backed hw.Waker.
type Waker struct {
	ch chan struct{}
}

func NewWaker() *Waker {
	return &Waker{ch: make(chan struct{}, 1)}
}

func (w *Waker) Notify() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w *Waker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ch:
		return nil
	}
}
