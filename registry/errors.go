// SPDX-License-Identifier: EPL-2.0

package registry

import "errors"

var (
	ErrIndexOutOfRange = errors.New("button index out of range")
	ErrEmptySound      = errors.New("sound has no samples")
)
