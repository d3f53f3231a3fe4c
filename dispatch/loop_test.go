// SPDX-License-Identifier: EPL-2.0

package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ik5/soundbox/dispatch"
	"github.com/ik5/soundbox/engine"
	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/hw/sim"
	"github.com/ik5/soundbox/input"
	"github.com/ik5/soundbox/registry"
)

type bench struct {
	tb   *sim.Timebase
	reg  *registry.Registry[uint16]
	eng  *engine.Engine[uint16]
	capt *input.Capture
	wake *sim.Waker
	loop *dispatch.Loop[uint16]
}

func newBench(t *testing.T, opts ...dispatch.Option[uint16]) *bench {
	t.Helper()

	tb := sim.NewTimebase(125_000_000)
	if _, err := tb.Configure(22050, hw.Resolution{Bits: 10, Headroom: 65}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	dma := sim.NewDMA[uint16](tb, sim.NewChannels(1))
	if err := dma.Claim(); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	reg := registry.New[uint16](registry.DefaultButtons)
	if err := reg.Configure(0, make([]uint16, 100)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Configure(1, make([]uint16, 50)); err != nil {
		t.Fatal(err)
	}

	eng := engine.New[uint16](tb, dma)
	wake := sim.NewWaker()
	capt := input.New(0, reg, eng, input.WithNotify(wake.Notify))
	opts = append(opts, dispatch.WithWaker[uint16](wake))

	return &bench{
		tb:   tb,
		reg:  reg,
		eng:  eng,
		capt: capt,
		wake: wake,
		loop: dispatch.New[uint16](reg, eng, opts...),
	}
}

func TestTriggerPlaysClip(t *testing.T) {
	t.Parallel()

	b := newBench(t)
	b.capt.Trigger(0)

	if got := b.loop.Dispatch(); got != 0 {
		t.Fatalf("Dispatch() = %d, want 0", got)
	}
	if !b.eng.IsPlaying() {
		t.Fatal("not playing after dispatch")
	}

	last := 0
	for range 100 {
		b.tb.Step(1)
		pos := b.eng.Position()
		if pos < last {
			t.Fatalf("position went back from %d to %d", last, pos)
		}
		last = pos
	}

	if b.eng.IsPlaying() || b.eng.Position() != 100 {
		t.Errorf("after drain: playing=%v position=%d, want false and 100", b.eng.IsPlaying(), b.eng.Position())
	}
}

func TestSecondTriggerConsumed(t *testing.T) {
	t.Parallel()

	b := newBench(t)
	b.capt.Trigger(0)
	b.loop.Dispatch()
	b.tb.Step(10)

	// The busy gate rejects the edge outright.
	b.capt.Trigger(1)
	if b.reg.Pending(1) {
		t.Fatal("trigger accepted while playing")
	}

	// A flag that slipped in before the engine went busy is consumed without playing.
	b.reg.MarkPending(1)
	if got := b.loop.Dispatch(); got != -1 {
		t.Errorf("Dispatch() = %d, want -1", got)
	}
	if b.reg.Pending(1) {
		t.Error("pending flag of button 1 not cleared")
	}
	if got := b.eng.Length(); got != 100 {
		t.Errorf("Length() = %d, want button 0's 100", got)
	}

	b.tb.Step(90)
	if got := b.eng.Position(); got != 100 {
		t.Errorf("Position() = %d, want 100", got)
	}
}

func TestSamePassIndexOrder(t *testing.T) {
	t.Parallel()

	b := newBench(t)
	b.reg.MarkPending(1)
	b.reg.MarkPending(0)

	if got := b.loop.Dispatch(); got != 0 {
		t.Fatalf("Dispatch() = %d, want 0", got)
	}
	if b.reg.Pending(0) || b.reg.Pending(1) {
		t.Error("flags left pending after the pass")
	}

	want := dispatch.Stats{Passes: 1, Started: 1, Dropped: 1}
	if got := b.loop.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestRetriggerAfterCompletion(t *testing.T) {
	t.Parallel()

	b := newBench(t)
	for range 3 {
		b.capt.Trigger(1)
		b.loop.Dispatch()
		if got := b.eng.Position(); got != 0 {
			t.Fatalf("Position() = %d at start, want 0", got)
		}
		b.tb.Step(50)
		if b.eng.IsPlaying() {
			t.Fatal("clip did not finish")
		}
	}

	if got := b.loop.Stats().Started; got != 3 {
		t.Errorf("Started = %d, want 3", got)
	}
}

func TestLoopingSlot(t *testing.T) {
	t.Parallel()

	b := newBench(t, dispatch.WithLooping[uint16](func(i int) bool { return i == 1 }))
	b.capt.Trigger(1)
	b.loop.Dispatch()
	b.tb.Step(175)

	if !b.eng.IsPlaying() || b.eng.Loops() != 3 {
		t.Errorf("playing=%v loops=%d, want true and 3", b.eng.IsPlaying(), b.eng.Loops())
	}
}

func TestRunWakesOnTrigger(t *testing.T) {
	t.Parallel()

	b := newBench(t)
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() { done <- b.loop.Run(ctx) }()

	b.capt.Trigger(0)

	deadline := time.After(5 * time.Second)
	for !b.eng.IsPlaying() {
		select {
		case <-deadline:
			t.Fatal("Run never started the clip")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

// Completions from the clock goroutine interleave with edges and passes.
func TestInterleavedCompletion(t *testing.T) {
	t.Parallel()

	b := newBench(t)
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	go func() {
		for ctx.Err() == nil {
			b.tb.Step(7)
		}
	}()

	for i := range 2000 {
		b.capt.Trigger(i % 2)
		b.loop.Dispatch()

		if pos, n := b.eng.Position(), b.eng.Length(); pos < 0 || pos > n {
			t.Fatalf("Position() = %d outside [0, %d]", pos, n)
		}
	}

	s, c := b.loop.Stats(), b.capt.Stats()
	if s.Started+s.Dropped != c.Accepted {
		t.Errorf("started %d + dropped %d != accepted %d", s.Started, s.Dropped, c.Accepted)
	}
}
