// SPDX-License-Identifier: EPL-2.0

package hw

import "errors"

var (
	ErrArmed        = errors.New("transport already armed")
	ErrEmpty        = errors.New("empty sample buffer")
	ErrNoChannel    = errors.New("no free transport channel")
	ErrInvalidRate  = errors.New("sample rate must be positive")
	ErrResolution   = errors.New("resolution out of range")
	ErrDividerRange = errors.New("clock divider out of range")
)
