// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"sync"
	"sync/atomic"

	"github.com/ik5/soundbox/hw"
)

// Engine owns the playback state. It is safe for concurrent use.
type Engine[S hw.Sample] struct {
	mu   sync.Locker
	tb   hw.Timebase
	tr   hw.Transport[S]
	gate hw.Gate
	idle uint16

	playing  atomic.Bool
	total    int
	position int
	samples  []S
	loop     bool
	loops    int
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	gate   hw.Gate
	locker sync.Locker
	idle   uint16
}

// WithGate drives g high while a clip is armed.
func WithGate(g hw.Gate) Option {
	return func(o *options) { o.gate = g }
}

// WithLocker replaces the default mutex, for example with an interrupt mask.
func WithLocker(l sync.Locker) Option {
	return func(o *options) { o.locker = l }
}

// WithIdleLevel sets the duty level written while idle.
func WithIdleLevel(level uint16) Option {
	return func(o *options) { o.idle = level }
}

// New creates an idle engine and subscribes to the transport's completion.
func New[S hw.Sample](tb hw.Timebase, tr hw.Transport[S], opts ...Option) *Engine[S] {
	o := options{gate: hw.NopGate{}, locker: &sync.Mutex{}}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine[S]{
		mu:   o.locker,
		tb:   tb,
		tr:   tr,
		gate: o.gate,
		idle: o.idle,
	}
	tr.OnComplete(e.complete)

	return e
}

// Play starts samples from the beginning. With loop set the clip restarts every time it
// drains until Stop is called. It returns false, changing nothing, when a clip is already
// playing or samples is empty.
func (e *Engine[S]) Play(samples []S, loop bool) bool {
	if len(samples) == 0 {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing.Load() {
		return false
	}

	e.tb.Enable(true)
	if err := e.tr.Arm(samples); err != nil {
		e.tb.Enable(false)
		return false
	}

	e.total = len(samples)
	e.position = 0
	e.samples = samples
	e.loop = loop
	e.loops = 0
	e.gate.Set(true)
	e.playing.Store(true)

	return true
}

// Stop ends playback and freezes the position. It does nothing while idle.
func (e *Engine[S]) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing.Load() {
		return
	}

	e.stopLocked()
}

// IsPlaying reports whether a clip is armed.
func (e *Engine[S]) IsPlaying() bool {
	return e.playing.Load()
}

// Position returns the number of samples consumed, in [0, Length()].
func (e *Engine[S]) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing.Load() {
		return e.derive()
	}

	return e.position
}

// Length is the length of the current or last clip.
func (e *Engine[S]) Length() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.total
}

// Looping reports whether the current clip restarts on completion.
func (e *Engine[S]) Looping() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playing.Load() && e.loop
}

// Loops counts completed passes of the current looping clip.
func (e *Engine[S]) Loops() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loops
}

// complete runs in the transport's completion context.
func (e *Engine[S]) complete() {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A completion that races a Stop/Play pair belongs to the previous clip.
	if !e.playing.Load() || e.tr.Remaining() != 0 {
		return
	}

	if e.loop {
		e.loops++
		if err := e.tr.Arm(e.samples); err == nil {
			return
		}
	}

	e.stopLocked()
}

func (e *Engine[S]) stopLocked() {
	e.position = e.derive()
	e.tr.Abort()

	e.tb.SetLevel(e.idle)
	e.tb.Enable(false)
	e.gate.Set(false)

	e.samples = nil
	e.loop = false
	e.playing.Store(false)
}

func (e *Engine[S]) derive() int {
	pos := e.total - e.tr.Remaining()
	if pos < 0 {
		return 0
	}
	if pos > e.total {
		return e.total
	}

	return pos
}
