// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/soundbox/audio"
	"github.com/ik5/soundbox/internal/pcm"
)

// formatPCM is the WAVE_FORMAT_PCM tag.
const formatPCM = 1

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	d := wav.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if d.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrNotPCM, d.WavAudioFormat)
	}

	src, err := pcm.New(d, d.Format(), int(d.BitDepth), true)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return src, nil
}
