// SPDX-License-Identifier: EPL-2.0

package sim

import (
	"fmt"
	"sync"

	"github.com/ik5/soundbox/hw"
)

// Recorder receives the output level after every update event.
type Recorder interface {
	Record(level uint16, enabled bool)
}

// Timebase models a PWM slice. It implements hw.Timebase and hw.ClockSource.
type Timebase struct {
	mu       sync.Mutex
	sourceHz uint32
	period   hw.Period
	level    uint16
	enabled  bool
	dreq     []func()
	ticks    []func()
	rec      Recorder
	updates  uint64
	writes   uint64
}

func NewTimebase(sourceHz uint32) *Timebase {
	return &Timebase{sourceHz: sourceHz}
}

func (t *Timebase) SourceHz() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sourceHz
}

// SetSourceHz changes the upstream clock. The divider is kept, so the update rate
// changes until Configure is called again.
func (t *Timebase) SetSourceHz(hz uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sourceHz = hz
}

func (t *Timebase) Configure(sampleRate uint32, res hw.Resolution) (hw.Period, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := hw.ComputePeriod(t.sourceHz, sampleRate, res)
	if err != nil {
		return hw.Period{}, fmt.Errorf("sim timebase: %w", err)
	}
	t.period = p

	return p, nil
}

func (t *Timebase) SetLevel(level uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.period.Top != 0 && level > t.period.Top {
		level = t.period.Top
	}
	t.level = level
	t.writes++
}

func (t *Timebase) Enable(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = on
}

func (t *Timebase) Level() uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.level
}

func (t *Timebase) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.enabled
}

func (t *Timebase) Period() hw.Period {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.period
}

// Rate is the update rate at the current source clock.
func (t *Timebase) Rate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.period.RateAt(t.sourceHz)
}

// Updates is the number of update events seen so far.
func (t *Timebase) Updates() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.updates
}

// Writes counts SetLevel calls.
func (t *Timebase) Writes() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.writes
}

// SetRecorder attaches r to the output. A nil r detaches.
func (t *Timebase) SetRecorder(r Recorder) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rec = r
}

// onRequest registers a data request handler, raised only while the slice is enabled.
func (t *Timebase) onRequest(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dreq = append(t.dreq, fn)
}

// onTick registers a handler raised on every update event, enabled or not. It stands in
// for a free running hardware timer at the same rate.
func (t *Timebase) onTick(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ticks = append(t.ticks, fn)
}

// Step runs n update events.
func (t *Timebase) Step(n int) {
	for range n {
		t.mu.Lock()
		enabled := t.enabled
		dreq := t.dreq
		ticks := t.ticks
		t.updates++
		t.mu.Unlock()

		for _, fn := range ticks {
			fn()
		}
		if enabled {
			for _, fn := range dreq {
				fn()
			}
		}

		t.mu.Lock()
		rec, level, on := t.rec, t.level, t.enabled
		t.mu.Unlock()

		if rec != nil {
			rec.Record(level, on)
		}
	}
}
