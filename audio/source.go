// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Source is a stream of interleaved PCM samples.
type Source interface {
	SampleRate() int
	Channels() int
	// ReadSamples fills dst with interleaved samples in [-1, 1] and returns the number
	// of values written. It returns io.EOF once the stream is exhausted.
	ReadSamples(dst []float32) (int, error)
	Close() error
}

// Decoder opens a Source over an encoded stream.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// readChunk is the number of values ReadAll asks for per call.
const readChunk = 4096

// ReadAll drains src and returns every sample it produced. src is not closed.
func ReadAll(src Source) ([]float32, error) {
	ch := max(src.Channels(), 1)
	buf := make([]float32, readChunk-readChunk%ch)

	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read samples: %w", err)
		}
		if n == 0 {
			// Guard against a source that never reports EOF.
			return out, nil
		}
	}
}
