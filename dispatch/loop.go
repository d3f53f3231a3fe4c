// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/ik5/soundbox/hw"
)

// Slots is the part of a sound registry the loop reads.
type Slots[S hw.Sample] interface {
	Len() int
	TakePending(index int) bool
	Lookup(index int) ([]S, bool)
}

// Player starts clips.
type Player[S hw.Sample] interface {
	Play(samples []S, loop bool) bool
}

// Stats counts dispatch work.
type Stats struct {
	Passes  uint64
	Started uint64
	Dropped uint64
}

// Loop is the cooperative dispatcher. Dispatch and Run must not be called concurrently
// with each other.
type Loop[S hw.Sample] struct {
	slots  Slots[S]
	player Player[S]
	waker  hw.Waker
	log    *slog.Logger
	loop   func(index int) bool

	passes  atomic.Uint64
	started atomic.Uint64
	dropped atomic.Uint64
}

type Option[S hw.Sample] func(*Loop[S])

// WithWaker parks Run between passes. Without one Run spins.
func WithWaker[S hw.Sample](w hw.Waker) Option[S] {
	return func(l *Loop[S]) { l.waker = w }
}

func WithLogger[S hw.Sample](log *slog.Logger) Option[S] {
	return func(l *Loop[S]) { l.log = log }
}

// WithLooping marks the slots whose clips restart until stopped.
func WithLooping[S hw.Sample](fn func(index int) bool) Option[S] {
	return func(l *Loop[S]) { l.loop = fn }
}

func New[S hw.Sample](slots Slots[S], player Player[S], opts ...Option[S]) *Loop[S] {
	l := &Loop[S]{
		slots:  slots,
		player: player,
		log:    slog.New(slog.DiscardHandler),
		loop:   func(int) bool { return false },
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Dispatch runs one pass and returns the index of the slot it started, or -1.
func (l *Loop[S]) Dispatch() int {
	l.passes.Add(1)

	started := -1
	for i := range l.slots.Len() {
		if !l.slots.TakePending(i) {
			continue
		}

		data, ok := l.slots.Lookup(i)
		if ok && l.player.Play(data, l.loop(i)) {
			l.started.Add(1)
			if started < 0 {
				started = i
			}
			l.log.Debug("trigger started", "button", i, "samples", len(data))
			continue
		}

		l.dropped.Add(1)
		l.log.Debug("trigger dropped", "button", i)
	}

	return started
}

// Run dispatches until ctx is done and returns ctx.Err().
func (l *Loop[S]) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.Dispatch()

		if l.waker == nil {
			continue
		}
		if err := l.waker.Wait(ctx); err != nil {
			return err
		}
	}
}

func (l *Loop[S]) Stats() Stats {
	return Stats{
		Passes:  l.passes.Load(),
		Started: l.started.Load(),
		Dropped: l.dropped.Load(),
	}
}
