// SPDX-License-Identifier: EPL-2.0

// Package dispatch drains pending triggers outside interrupt context.
//
// Each pass walks the slots in index order, takes every pending flag and asks the player
// to start that slot's clip. The player rejects everything after the first start while
// it is busy, so extra presses collected during one pass are consumed without playing.
// Nothing is queued.
package dispatch
