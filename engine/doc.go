// SPDX-License-Identifier: EPL-2.0

// Package engine implements the single-voice playback state machine.
//
// An Engine is either idle or playing. Play arms the transport and the output, Stop (or
// the transport's completion) disarms them again:
//
//	IDLE --Play(samples)--> PLAYING --Stop() / completion--> IDLE
//
// Play is rejected while playing and for empty clips; Stop while idle does nothing, so
// the dispatch loop and the completion interrupt can both call it.
//
// # Position
//
// The transport streams on its own, so the engine has no software sample counter. The
// position is derived from the transport's remaining count, live while playing and frozen
// at the value seen when playback stopped:
//
//	position = clamp(total - transport.Remaining(), 0, total)
//
// The clamp tolerates a remaining count that briefly exceeds the armed length while the
// hardware reloads.
//
// # Concurrency
//
// State changes run inside a critical section provided by a sync.Locker. On the host
// that is a mutex; on a microcontroller it masks interrupts. IsPlaying is a single atomic
// load and is safe from any context without the lock.
package engine
