// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("audio: dst size must be a multiple of the channel count")
	ErrInvalidRate    = errors.New("audio: sample rate must be positive")
	ErrUnknownFormat  = errors.New("audio: no decoder for format")
)
