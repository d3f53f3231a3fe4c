// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/soundbox/audio"
	"github.com/ik5/soundbox/internal/audiotest"
)

func TestResamplerLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		frames   int
		want     int
	}{
		{name: "same rate", from: 22050, to: 22050, frames: 1000, want: 1000},
		{name: "halve", from: 44100, to: 22050, frames: 1000, want: 500},
		{name: "double", from: 11025, to: 22050, frames: 1000, want: 2000},
		{name: "48k to 22.05k", from: 48000, to: 22050, frames: 48000, want: 22050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := audio.NewResampler(audiotest.Silence(tt.from, 1, tt.frames), tt.to)
			got, err := audio.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if diff := len(got) - tt.want; diff < -1 || diff > 1 {
				t.Errorf("len = %d, want %d±1", len(got), tt.want)
			}
		})
	}
}

func TestResamplerSameRateIsIdentity(t *testing.T) {
	t.Parallel()

	got, err := audio.ReadAll(audio.NewResampler(audiotest.Ramp(8000, 2, 100), 8000))
	if err != nil {
		t.Fatal(err)
	}

	for f := range 100 {
		want := float32(f) / 100
		if got[2*f] != want || got[2*f+1] != want {
			t.Fatalf("frame %d = %v,%v, want %v", f, got[2*f], got[2*f+1], want)
		}
	}
}

func TestResamplerKeepsLevel(t *testing.T) {
	t.Parallel()

	for _, to := range []int{8000, 22050, 96000} {
		got, err := audio.ReadAll(audio.NewResampler(audiotest.Constant(44100, 1, 4410, 0.5), to))
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range got {
			if math.Abs(float64(v)-0.5) > 1e-4 {
				t.Fatalf("%d Hz: sample %d = %v, want 0.5", to, i, v)
			}
		}
	}
}

func TestResamplerSine(t *testing.T) {
	t.Parallel()

	const hz = 440
	got, err := audio.ReadAll(audio.NewResampler(audiotest.Sine(48000, 1, 48000, hz), 22050))
	if err != nil {
		t.Fatal(err)
	}

	// Count zero crossings over one second.
	crossings := 0
	for i := 1; i < len(got); i++ {
		if (got[i-1] < 0) != (got[i] < 0) {
			crossings++
		}
	}
	if crossings < 2*hz-4 || crossings > 2*hz+4 {
		t.Errorf("%d zero crossings, want about %d", crossings, 2*hz)
	}
}

func TestResamplerErrors(t *testing.T) {
	t.Parallel()

	r := audio.NewResampler(audiotest.Silence(8000, 2, 10), 16000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("odd dst = %v, want ErrInvalidDstSize", err)
	}

	r = audio.NewResampler(audiotest.Silence(8000, 1, 10), 0)
	if _, err := r.ReadSamples(make([]float32, 4)); !errors.Is(err, audio.ErrInvalidRate) {
		t.Errorf("zero rate = %v, want ErrInvalidRate", err)
	}

	r = audio.NewResampler(audiotest.Silence(8000, 1, 0), 16000)
	if _, err := r.ReadSamples(make([]float32, 4)); !errors.Is(err, io.EOF) {
		t.Errorf("empty source = %v, want io.EOF", err)
	}

	r = audio.NewResampler(audiotest.Broken(8000, 1, 10000, 1500), 16000)
	if _, err := audio.ReadAll(r); !errors.Is(err, audiotest.ErrBroken) {
		t.Errorf("broken source = %v, want ErrBroken", err)
	}
}

func BenchmarkResampler(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		r := audio.NewResampler(audiotest.Sine(44100, 2, 44100, 440), 22050)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
