// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/soundbox/utils"
)

// inFrames is the number of source frames buffered per read.
const inFrames = 1024

// Resampler converts its source to another rate with cubic interpolation. When
// downsampling, a one-pole low-pass at 45% of the target rate runs on the input first.
type Resampler struct {
	src  Source
	ch   int
	rate int
	step float64 // source frames per output frame
	frac float64

	// win holds frames t-1, t, t+1, t+2 around the interpolation point. real marks the
	// ones read from the source; the rest repeat the last frame past the end.
	win    [4][]float32
	real   [4]bool
	primed bool

	in         []float32
	inPos, inN int
	eof        bool
	err        error

	alpha  float32
	lp     []float32
	lpOn   bool
	seeded bool
}

func NewResampler(src Source, rate int) *Resampler {
	ch := max(src.Channels(), 1)

	r := &Resampler{
		src:  src,
		ch:   ch,
		rate: rate,
		in:   make([]float32, inFrames*ch),
		lp:   make([]float32, ch),
	}
	for i := range r.win {
		r.win[i] = make([]float32, ch)
	}

	if rate > 0 {
		r.step = float64(src.SampleRate()) / float64(rate)
	}
	if r.step > 1 {
		fc := 0.45 * float64(rate)
		r.alpha = float32(1 - math.Exp(-2*math.Pi*fc/float64(src.SampleRate())))
		r.lpOn = true
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.ch }
func (r *Resampler) Close() error    { return r.src.Close() }

func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.rate <= 0 || r.src.SampleRate() <= 0 {
		return 0, ErrInvalidRate
	}
	if len(dst)%r.ch != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.ch
	written := 0

	for written < frames {
		for r.frac >= 1 {
			r.frac--
			r.shift()
		}
		if !r.real[1] {
			break
		}

		t := float32(r.frac)
		out := dst[written*r.ch : written*r.ch+r.ch]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], t)
		}

		written++
		r.frac += r.step
	}

	n := written * r.ch
	if written < frames {
		if r.err != nil {
			return n, r.err
		}
		return n, io.EOF
	}

	return n, nil
}

// prime loads the first three frames. The frame before the first repeats it.
func (r *Resampler) prime() error {
	r.primed = true

	if !r.next(r.win[1]) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	r.real[1] = true
	copy(r.win[0], r.win[1])
	r.real[0] = true

	r.real[2] = r.next(r.win[2])
	if !r.real[2] {
		copy(r.win[2], r.win[1])
	}
	r.real[3] = r.next(r.win[3])
	if !r.real[3] {
		copy(r.win[3], r.win[2])
	}

	return nil
}

func (r *Resampler) shift() {
	head := r.win[0]
	r.win[0], r.win[1], r.win[2] = r.win[1], r.win[2], r.win[3]
	r.real[0], r.real[1], r.real[2] = r.real[1], r.real[2], r.real[3]
	r.win[3] = head

	r.real[3] = r.next(r.win[3])
	if !r.real[3] {
		copy(r.win[3], r.win[2])
	}
}

// next copies one source frame into f. It returns false at the end of the source.
func (r *Resampler) next(f []float32) bool {
	if r.inPos+r.ch > r.inN && !r.fill() {
		return false
	}

	copy(f, r.in[r.inPos:r.inPos+r.ch])
	r.inPos += r.ch

	if r.lpOn {
		if !r.seeded {
			// Seed with the first frame so the output does not ramp up from zero.
			copy(r.lp, f)
			r.seeded = true
		}
		for c, v := range f {
			r.lp[c] += r.alpha * (v - r.lp[c])
			f[c] = r.lp[c]
		}
	}

	return true
}

// maxEmptyReads bounds how often a source may return nothing without an error.
const maxEmptyReads = 8

func (r *Resampler) fill() bool {
	for empty := 0; !r.eof && empty < maxEmptyReads; empty++ {
		n, err := r.src.ReadSamples(r.in)
		n -= n % r.ch // a trailing partial frame is dropped
		if err != nil {
			r.eof = true
			if !errors.Is(err, io.EOF) {
				r.err = fmt.Errorf("resample: %w", err)
			}
		}
		if n > 0 {
			r.inPos, r.inN = 0, n
			return true
		}
	}
	r.eof = true

	return false
}
