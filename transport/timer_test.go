// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"errors"
	"testing"

	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/hw/sim"
)

func newTimer(t *testing.T) (*Timer[uint8], *sim.Timebase, *sim.Ticker) {
	t.Helper()

	tb := sim.NewTimebase(125_000_000)
	if _, err := tb.Configure(22050, hw.Resolution{Bits: 8}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	tk := sim.NewTicker(tb)

	return NewTimer[uint8](tk, tb, 22050), tb, tk
}

func TestTimer_StreamsEverySample(t *testing.T) {
	t.Parallel()

	tr, tb, tk := newTimer(t)
	tape := &sim.Tape{}
	tb.SetRecorder(tape)
	tb.Enable(true)

	completions := 0
	tr.OnComplete(func() { completions++ })

	clip := []uint8{10, 20, 30, 40, 50}
	if err := tr.Arm(clip); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}

	if got := tr.Remaining(); got != len(clip) {
		t.Errorf("Remaining() before ticks = %d, want %d", got, len(clip))
	}

	tb.Step(2)
	if got := tr.Remaining(); got != 3 {
		t.Errorf("Remaining() after 2 ticks = %d, want 3", got)
	}

	tb.Step(10)
	if got := tr.Remaining(); got != 0 {
		t.Errorf("Remaining() after drain = %d, want 0", got)
	}

	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}

	if tk.Running() {
		t.Error("ticker still running after the buffer drained")
	}

	levels := tape.Levels()
	for i, want := range clip {
		if levels[i] != uint16(want) {
			t.Errorf("level[%d] = %d, want %d", i, levels[i], want)
		}
	}
}

func TestTimer_ArmTwice(t *testing.T) {
	t.Parallel()

	tr, _, _ := newTimer(t)

	if err := tr.Arm([]uint8{1, 2, 3}); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}

	if err := tr.Arm([]uint8{4}); !errors.Is(err, hw.ErrArmed) {
		t.Errorf("second Arm() error = %v, want ErrArmed", err)
	}
}

func TestTimer_ArmEmpty(t *testing.T) {
	t.Parallel()

	tr, _, tk := newTimer(t)

	if err := tr.Arm(nil); !errors.Is(err, hw.ErrEmpty) {
		t.Errorf("Arm(nil) error = %v, want ErrEmpty", err)
	}

	if tk.Running() {
		t.Error("ticker started for an empty buffer")
	}
}

func TestTimer_AbortFreezesRemaining(t *testing.T) {
	t.Parallel()

	tr, tb, tk := newTimer(t)

	completions := 0
	tr.OnComplete(func() { completions++ })

	if err := tr.Arm(make([]uint8, 100)); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}

	tb.Step(60)
	tr.Abort()
	tb.Step(100)

	if got := tr.Remaining(); got != 40 {
		t.Errorf("Remaining() after abort = %d, want 40", got)
	}

	if completions != 0 {
		t.Errorf("completions after abort = %d, want 0", completions)
	}

	if tk.Running() {
		t.Error("ticker still running after Abort")
	}

	// The transport can be armed again after an abort.
	if err := tr.Arm([]uint8{1}); err != nil {
		t.Errorf("Arm() after Abort error = %v", err)
	}
}

type failingTicker struct{}

func (failingTicker) Start(uint32, func()) error { return errors.New("no timer") }
func (failingTicker) Stop()                      {}

func TestTimer_TickerStartFails(t *testing.T) {
	t.Parallel()

	tb := sim.NewTimebase(125_000_000)
	tr := NewTimer[uint16](failingTicker{}, tb, 22050)

	if err := tr.Arm([]uint16{1, 2}); err == nil {
		t.Fatal("Arm() error = nil, want ticker failure")
	}

	if got := tr.Remaining(); got != 0 {
		t.Errorf("Remaining() after failed Arm = %d, want 0", got)
	}
}
