// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Encode writes samples as a mono 16-bit PCM file at rate. The header sizes are patched
// on completion, so w must seek.
func Encode(w io.WriteSeeker, rate int, samples []int16) error {
	enc := wav.NewEncoder(w, rate, 16, 1, formatPCM)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav encode: %w", err)
	}

	return nil
}
