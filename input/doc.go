// SPDX-License-Identifier: EPL-2.0

// Package input turns button edges into pending triggers.
//
// Capture.Handle is the body of the GPIO interrupt. It never blocks, never allocates and
// never takes the engine's lock: the busy test is a single atomic load and the pending
// flag is set with a compare-and-swap, so a burst of edges on the same button collapses
// into one trigger until the dispatcher takes it.
package input
