// SPDX-License-Identifier: EPL-2.0

package input_test

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/input"
	"github.com/ik5/soundbox/registry"
)

type busyFlag struct{ atomic.Bool }

func (b *busyFlag) IsPlaying() bool { return b.Load() }

func setup(t *testing.T, opts ...input.Option) (*input.Capture, *registry.Registry[uint16], *busyFlag) {
	t.Helper()

	reg := registry.New[uint16](registry.DefaultButtons)
	if err := reg.Configure(0, make([]uint16, 100)); err != nil {
		t.Fatalf("Configure(0): %v", err)
	}
	if err := reg.Configure(1, make([]uint16, 50)); err != nil {
		t.Fatalf("Configure(1): %v", err)
	}

	busy := &busyFlag{}

	return input.New(0, reg, busy, opts...), reg, busy
}

func TestPins(t *testing.T) {
	t.Parallel()

	reg := registry.New[uint8](4)
	c := input.New(6, reg, &busyFlag{})

	if got, want := c.Pins(), []uint8{6, 7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("Pins() = %v, want %v", got, want)
	}
}

func TestHandle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pin     uint8
		edge    hw.Edge
		busy    bool
		pending bool
		stats   input.Stats
	}{
		{name: "activation edge", pin: 0, edge: hw.EdgeFalling, pending: true, stats: input.Stats{Accepted: 1}},
		{name: "release edge", pin: 0, edge: hw.EdgeRising, stats: input.Stats{Ignored: 1}},
		{name: "busy", pin: 0, edge: hw.EdgeFalling, busy: true, stats: input.Stats{Busy: 1}},
		{name: "empty slot", pin: 5, edge: hw.EdgeFalling, stats: input.Stats{Ignored: 1}},
		{name: "pin out of range", pin: 12, edge: hw.EdgeFalling, stats: input.Stats{Ignored: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, reg, busy := setup(t)
			busy.Store(tt.busy)

			c.Handle(tt.pin, tt.edge)

			if got := reg.Pending(int(tt.pin)); got != tt.pending {
				t.Errorf("Pending(%d) = %v, want %v", tt.pin, got, tt.pending)
			}
			if got := c.Stats(); got != tt.stats {
				t.Errorf("Stats() = %+v, want %+v", got, tt.stats)
			}
		})
	}
}

func TestRisingEdgeWiring(t *testing.T) {
	t.Parallel()

	c, reg, _ := setup(t, input.WithEdge(hw.EdgeRising))

	c.Handle(1, hw.EdgeFalling)
	if reg.Pending(1) {
		t.Fatal("falling edge accepted with rising wiring")
	}

	c.Handle(1, hw.EdgeRising)
	if !reg.Pending(1) {
		t.Fatal("rising edge not accepted")
	}
}

func TestRepeatedEdgesCollapse(t *testing.T) {
	t.Parallel()

	var wakes int
	c, reg, _ := setup(t, input.WithNotify(func() { wakes++ }))

	for range 5 {
		c.Handle(0, hw.EdgeFalling)
	}

	if !reg.TakePending(0) {
		t.Fatal("pending flag not set")
	}
	if reg.TakePending(0) {
		t.Fatal("pending flag taken twice")
	}
	if wakes != 1 {
		t.Errorf("notify called %d times, want 1", wakes)
	}
	if got := c.Stats(); got.Accepted != 1 || got.Repeats != 4 {
		t.Errorf("Stats() = %+v, want 1 accepted and 4 repeats", got)
	}
}

func TestTriggerOutOfRange(t *testing.T) {
	t.Parallel()

	c, _, _ := setup(t)
	c.Trigger(-1)
	c.Trigger(15)

	if got := c.Stats().Ignored; got != 2 {
		t.Errorf("Ignored = %d, want 2", got)
	}
}

func TestConcurrentEdges(t *testing.T) {
	t.Parallel()

	c, reg, _ := setup(t)

	var (
		taker, writers sync.WaitGroup
		taken          atomic.Uint64
		stop           atomic.Bool
	)
	taker.Go(func() {
		for !stop.Load() {
			if reg.TakePending(0) {
				taken.Add(1)
			}
		}
	})

	for range 4 {
		writers.Go(func() {
			for range 1000 {
				c.Handle(0, hw.EdgeFalling)
			}
		})
	}

	writers.Wait()
	stop.Store(true)
	taker.Wait()
	if reg.TakePending(0) {
		taken.Add(1)
	}

	if got, want := taken.Load(), c.Stats().Accepted; got != want {
		t.Errorf("taken %d flags, accepted %d", got, want)
	}
}

func BenchmarkHandle(b *testing.B) {
	reg := registry.New[uint16](registry.DefaultButtons)
	_ = reg.Configure(0, make([]uint16, 10))
	c := input.New(0, reg, &busyFlag{})

	b.ReportAllocs()
	for b.Loop() {
		c.Handle(0, hw.EdgeFalling)
		reg.TakePending(0)
	}
}
