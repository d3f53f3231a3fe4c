// SPDX-License-Identifier: EPL-2.0

package registry

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/soundbox/hw"
)

// DefaultButtons is the number of buttons on the box.
const DefaultButtons = 12

// Slot is one button binding.
type Slot[S hw.Sample] struct {
	Index   int
	Data    []S
	pending atomic.Bool
}

// Playable reports whether the slot has a clip.
func (s *Slot[S]) Playable() bool {
	return len(s.Data) > 0
}

// Registry is a fixed set of slots.
type Registry[S hw.Sample] struct {
	slots []Slot[S]
}

func New[S hw.Sample](count int) *Registry[S] {
	r := &Registry[S]{slots: make([]Slot[S], count)}
	for i := range r.slots {
		r.slots[i].Index = i
	}

	return r
}

func (r *Registry[S]) Len() int { return len(r.slots) }

// Configure binds data to the slot at index. It must only be called during startup.
func (r *Registry[S]) Configure(index int, data []S) error {
	if index < 0 || index >= len(r.slots) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(r.slots))
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: slot %d", ErrEmptySound, index)
	}

	r.slots[index].Data = data

	return nil
}

// Lookup returns the clip bound to index.
func (r *Registry[S]) Lookup(index int) ([]S, bool) {
	if index < 0 || index >= len(r.slots) {
		return nil, false
	}

	d := r.slots[index].Data

	return d, len(d) > 0
}

func (r *Registry[S]) Playable(index int) bool {
	if index < 0 || index >= len(r.slots) {
		return false
	}

	return r.slots[index].Playable()
}

// MarkPending sets the pending flag of a playable slot. It returns true only when the
// flag went from clear to set, so repeated edges before the next dispatch collapse into
// one trigger.
func (r *Registry[S]) MarkPending(index int) bool {
	if !r.Playable(index) {
		return false
	}

	return r.slots[index].pending.CompareAndSwap(false, true)
}

// TakePending clears the pending flag and reports whether it was set.
func (r *Registry[S]) TakePending(index int) bool {
	if index < 0 || index >= len(r.slots) {
		return false
	}

	return r.slots[index].pending.Swap(false)
}

func (r *Registry[S]) Pending(index int) bool {
	if index < 0 || index >= len(r.slots) {
		return false
	}

	return r.slots[index].pending.Load()
}

// Slot returns the slot at index, or nil.
func (r *Registry[S]) Slot(index int) *Slot[S] {
	if index < 0 || index >= len(r.slots) {
		return nil
	}

	return &r.slots[index]
}
