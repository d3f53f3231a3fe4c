// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"fmt"
	"sync"

	"github.com/ik5/soundbox/hw"
)

// Timer streams samples from a periodic tick. It implements hw.Transport.
type Timer[S hw.Sample] struct {
	mu     sync.Mutex
	tk     hw.Ticker
	tb     hw.Timebase
	rate   uint32
	src    []S
	cursor int
	length int
	armed  bool
	done   func()
}

func NewTimer[S hw.Sample](tk hw.Ticker, tb hw.Timebase, rate uint32) *Timer[S] {
	return &Timer[S]{tk: tk, tb: tb, rate: rate}
}

func (t *Timer[S]) Arm(samples []S) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.armed {
		return hw.ErrArmed
	}
	if len(samples) == 0 {
		return hw.ErrEmpty
	}

	t.src = samples
	t.cursor = 0
	t.length = len(samples)
	t.armed = true

	if err := t.tk.Start(t.rate, t.tick); err != nil {
		t.armed = false
		t.src = nil
		t.length = 0
		return fmt.Errorf("timer transport: %w", err)
	}

	return nil
}

func (t *Timer[S]) Abort() {
	t.mu.Lock()
	wasArmed := t.armed
	t.armed = false
	t.src = nil
	t.mu.Unlock()

	if wasArmed {
		t.tk.Stop()
	}
}

func (t *Timer[S]) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.length - t.cursor
}

func (t *Timer[S]) OnComplete(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done = fn
}

func (t *Timer[S]) tick() {
	t.mu.Lock()
	if !t.armed {
		t.mu.Unlock()
		return
	}

	v := t.src[t.cursor]
	t.cursor++

	finished := t.cursor == t.length
	if finished {
		t.armed = false
		t.src = nil
	}
	done := t.done
	t.mu.Unlock()

	t.tb.SetLevel(uint16(v))

	if finished {
		t.tk.Stop()
		if done != nil {
			done()
		}
	}
}
