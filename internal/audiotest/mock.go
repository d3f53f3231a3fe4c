// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic sources and encoded files for tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrBroken is returned by a source built with Broken.
var ErrBroken = errors.New("audiotest: broken source")

// Source generates frames from a function of the frame index and channel. It satisfies
// audio.Source.
type Source struct {
	rate, channels int
	frames, pos    int
	fn             func(frame, ch int) float32
	failAt         int
	closed         bool
}

func New(rate, channels, frames int, fn func(frame, ch int) float32) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, fn: fn, failAt: -1}
}

func Silence(rate, channels, frames int) *Source {
	return New(rate, channels, frames, func(int, int) float32 { return 0 })
}

func Constant(rate, channels, frames int, v float32) *Source {
	return New(rate, channels, frames, func(int, int) float32 { return v })
}

func Sine(rate, channels, frames int, hz float64) *Source {
	return New(rate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * hz * float64(f) / float64(rate)))
	})
}

// Ramp yields frame/frames on every channel, a rising line from 0 toward 1.
func Ramp(rate, channels, frames int) *Source {
	return New(rate, channels, frames, func(f, _ int) float32 {
		return float32(f) / float32(frames)
	})
}

// Broken fails with ErrBroken once frame is reached.
func Broken(rate, channels, frames, frame int) *Source {
	s := Silence(rate, channels, frames)
	s.failAt = frame

	return s
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Closed() bool    { return s.closed }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

func (s *Source) Rewind() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.failAt >= 0 && s.pos >= s.failAt {
		return 0, ErrBroken
	}
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	if s.failAt >= 0 {
		n = min(n, s.failAt-s.pos)
	}
	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.fn(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}

	return n * s.channels, nil
}
