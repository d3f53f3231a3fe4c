// SPDX-License-Identifier: EPL-2.0

package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegistry_ConfigureAndLookup(t *testing.T) {
	t.Parallel()

	reg := New[uint16](DefaultButtons)
	clip := []uint16{1, 2, 3}

	if err := reg.Configure(3, clip); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	got, ok := reg.Lookup(3)
	if !ok {
		t.Fatal("Lookup(3) ok = false, want true")
	}

	// The slot borrows the caller's buffer.
	if &got[0] != &clip[0] {
		t.Error("Lookup() returned a copy, want the configured buffer")
	}

	if !reg.Playable(3) {
		t.Error("Playable(3) = false, want true")
	}

	if reg.Slot(3).Index != 3 {
		t.Errorf("Slot(3).Index = %d, want 3", reg.Slot(3).Index)
	}
}

func TestRegistry_ConfigureRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		index   int
		data    []uint8
		wantErr error
	}{
		{name: "index past end", index: 15, data: []uint8{1}, wantErr: ErrIndexOutOfRange},
		{name: "index equal to count", index: DefaultButtons, data: []uint8{1}, wantErr: ErrIndexOutOfRange},
		{name: "negative index", index: -1, data: []uint8{1}, wantErr: ErrIndexOutOfRange},
		{name: "nil data", index: 0, data: nil, wantErr: ErrEmptySound},
		{name: "zero length", index: 0, data: []uint8{}, wantErr: ErrEmptySound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := New[uint8](DefaultButtons)
			if err := reg.Configure(0, []uint8{9, 9}); err != nil {
				t.Fatalf("Configure(0) error = %v", err)
			}

			err := reg.Configure(tt.index, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Configure(%d) error = %v, want %v", tt.index, err, tt.wantErr)
			}

			// No in-range slot changed.
			got, ok := reg.Lookup(0)
			if !ok || len(got) != 2 {
				t.Errorf("slot 0 changed after rejected Configure: %v, %v", got, ok)
			}
			for i := 1; i < reg.Len(); i++ {
				if reg.Playable(i) {
					t.Errorf("slot %d became playable", i)
				}
			}
		})
	}
}

func TestRegistry_PendingRequiresPlayableSlot(t *testing.T) {
	t.Parallel()

	reg := New[uint16](DefaultButtons)

	if reg.MarkPending(2) {
		t.Error("MarkPending() on an empty slot returned true")
	}

	if reg.Pending(2) {
		t.Error("Pending() set on an empty slot")
	}

	if reg.MarkPending(40) || reg.TakePending(40) || reg.Pending(40) {
		t.Error("out of range index reported pending")
	}
}

func TestRegistry_PendingIsIdempotent(t *testing.T) {
	t.Parallel()

	reg := New[uint16](DefaultButtons)
	_ = reg.Configure(1, []uint16{1})

	if !reg.MarkPending(1) {
		t.Fatal("first MarkPending() = false, want true")
	}

	if reg.MarkPending(1) {
		t.Error("second MarkPending() = true, want false")
	}

	if !reg.TakePending(1) {
		t.Error("TakePending() = false, want true")
	}

	if reg.TakePending(1) {
		t.Error("second TakePending() = true, want false")
	}
}

// Every accepted mark is taken exactly once even with markers and takers racing.
func TestRegistry_PendingConcurrent(t *testing.T) {
	t.Parallel()

	reg := New[uint16](DefaultButtons)
	for i := range reg.Len() {
		_ = reg.Configure(i, []uint16{1})
	}

	var marked, taken atomic.Int64
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 5000 {
				if reg.MarkPending((i + w) % reg.Len()) {
					marked.Add(1)
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			for i := range reg.Len() {
				if reg.TakePending(i) {
					taken.Add(1)
				}
			}
		}
	}()

	wg.Wait()
	close(stop)
	<-done

	for i := range reg.Len() {
		if reg.TakePending(i) {
			taken.Add(1)
		}
	}

	if marked.Load() != taken.Load() {
		t.Errorf("marked %d flags, took %d", marked.Load(), taken.Load())
	}
}
