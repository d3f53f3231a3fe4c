// SPDX-License-Identifier: EPL-2.0

// Package registry binds button indices to sound clips.
//
// A Registry is a fixed array of slots populated once at startup. Each slot borrows its
// clip (the registry never copies sample data) and carries a pending flag that the input
// capture interrupt sets and the dispatch loop takes. The flag is the only mutable state
// after startup and every access to it is atomic:
//
//	reg := registry.New[uint16](12)
//	_ = reg.Configure(0, clip)
//
//	// edge interrupt
//	reg.MarkPending(0)
//
//	// dispatch loop
//	if reg.TakePending(0) {
//	    data, _ := reg.Lookup(0)
//	    eng.Play(data, false)
//	}
//
// Configure rejects out of range indices and empty clips without touching any slot. The
// returned error is informational; callers are free to ignore it.
package registry
