// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer decoders to audio.Source.
package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

var ErrBitDepth = errors.New("pcm: unsupported bit depth")

// Reader is the buffer interface shared by the go-audio wav and aiff decoders.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer frames to float32 in [-1, 1].
type Source struct {
	r      Reader
	rate   int
	ch     int
	offset int
	scale  float32
	buf    *goaudio.IntBuffer
}

// New wraps r. Unsigned 8-bit data (WAV) is centred on 128; every other depth is signed.
func New(r Reader, format *goaudio.Format, bitDepth int, unsigned8 bool) (*Source, error) {
	if format == nil || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrBitDepth)
	}

	s := &Source{
		r:    r,
		rate: format.SampleRate,
		ch:   format.NumChannels,
		buf:  &goaudio.IntBuffer{Format: format, SourceBitDepth: bitDepth},
	}

	switch bitDepth {
	case 8, 16, 24, 32:
		s.scale = 1 / float32(int64(1)<<(bitDepth-1))
	default:
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}
	if bitDepth == 8 && unsigned8 {
		s.offset = 128
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.ch }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.ch
	if want == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.r.PCMBuffer(s.buf)
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-s.offset) * s.scale
	}

	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return n, fmt.Errorf("pcm: %w", err)
	case n == 0:
		return 0, io.EOF
	}

	return n, err
}

// Seekable returns r as an io.ReadSeeker, reading it into memory when it is not one.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer input: %w", err)
	}

	return bytes.NewReader(data), nil
}
