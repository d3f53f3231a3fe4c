// SPDX-License-Identifier: EPL-2.0

package sim

import (
	"context"
	"sync"
	"time"

	"github.com/ik5/soundbox/utils"
)

// RunClock steps tb in real time until ctx is done. Every interval it runs as many update
// events as the timebase's current rate asks for, carrying the fraction over, so a clock
// change without reconfiguration is audible as a pitch change.
func RunClock(ctx context.Context, tb *Timebase, interval time.Duration) error {
	tk := time.NewTicker(interval)
	defer tk.Stop()

	last := time.Now()
	var acc float64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-tk.C:
			acc += now.Sub(last).Seconds() * tb.Rate()
			last = now

			n := int(acc)
			acc -= float64(n)
			tb.Step(n)
		}
	}
}

type tapeSample struct {
	level uint16
	on    bool
}

// Tape is a Recorder that keeps every output level.
type Tape struct {
	mu      sync.Mutex
	samples []tapeSample
}

func (t *Tape) Record(level uint16, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = append(t.samples, tapeSample{level: level, on: enabled})
}

func (t *Tape) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.samples)
}

// Levels returns the recorded levels of the enabled stretches, in order.
func (t *Tape) Levels() []uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]uint16, 0, len(t.samples))
	for _, s := range t.samples {
		if s.on {
			out = append(out, s.level)
		}
	}

	return out
}

// PCM16 converts the whole tape to signed PCM for a timebase with the given top.
// Disabled stretches are silence.
func (t *Tape) PCM16(top uint16) []int16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]int16, len(t.samples))
	for i, s := range t.samples {
		if s.on {
			out[i] = utils.LevelToInt16(s.level, top)
		}
	}

	return out
}

func (t *Tape) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = t.samples[:0]
}
