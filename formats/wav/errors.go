// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile = errors.New("wav: not a WAV file")
	ErrNotPCM     = errors.New("wav: only integer PCM is supported")
)
