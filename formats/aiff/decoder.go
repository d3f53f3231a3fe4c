// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/soundbox/audio"
	"github.com/ik5/soundbox/internal/pcm"
)

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	d := aiff.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	d.ReadInfo()

	src, err := pcm.New(d, d.Format(), int(d.BitDepth), false)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	return src, nil
}
