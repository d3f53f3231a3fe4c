// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/soundbox/audio"
	"github.com/ik5/soundbox/utils"
)

const channels = 2

// pcmReader is the part of gomp3.Decoder the source uses.
type pcmReader interface {
	io.Reader
	SampleRate() int
}

type source struct {
	dec pcmReader
	buf []byte
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := (len(dst) - len(dst)%channels) * 2
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}

	n, err := io.ReadFull(s.dec, s.buf[:want])
	n -= n % 2

	for i := range n / 2 {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return n / 2, io.EOF
	case err != nil:
		return n / 2, fmt.Errorf("mp3: %w", err)
	}

	return n / 2, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return &source{dec: dec}, nil
}
