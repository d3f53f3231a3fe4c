// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestInt16ToLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int16
		top   uint16
		want  uint16
	}{
		{name: "min to zero", input: math.MinInt16, top: 1088, want: 0},
		{name: "max to top", input: math.MaxInt16, top: 1088, want: 1088},
		{name: "silence to midpoint", input: 0, top: 1088, want: 544},
		{name: "8-bit min", input: math.MinInt16, top: 255, want: 0},
		{name: "8-bit max", input: math.MaxInt16, top: 255, want: 255},
		{name: "8-bit silence", input: 0, top: 255, want: 127},
		{name: "full range top", input: math.MaxInt16, top: math.MaxUint16, want: math.MaxUint16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Int16ToLevel(tt.input, tt.top); got != tt.want {
				t.Errorf("Int16ToLevel(%d, %d) = %d, want %d", tt.input, tt.top, got, tt.want)
			}
		})
	}
}

func TestLevelToInt16_RoundTrip(t *testing.T) {
	t.Parallel()

	const top = 1088
	// One level step of a 1088 top is about 60 PCM units, plus truncation on both legs.
	const tolerance = 65536/top + 2

	for s := math.MinInt16; s <= math.MaxInt16; s += 97 {
		level := Int16ToLevel(int16(s), top)
		back := LevelToInt16(level, top)

		if diff := math.Abs(float64(int(back) - s)); diff > tolerance {
			t.Fatalf("round trip of %d gave %d (level %d), diff %.0f > %d", s, back, level, diff, tolerance)
		}
	}
}

func TestLevelToInt16_Edges(t *testing.T) {
	t.Parallel()

	if got := LevelToInt16(10, 0); got != 0 {
		t.Errorf("LevelToInt16(10, 0) = %d, want 0", got)
	}

	if got := LevelToInt16(0, 255); got != math.MinInt16 {
		t.Errorf("LevelToInt16(0, 255) = %d, want %d", got, math.MinInt16)
	}

	if got := LevelToInt16(255, 255); got != math.MaxInt16 {
		t.Errorf("LevelToInt16(255, 255) = %d, want %d", got, math.MaxInt16)
	}

	// Levels above top are clamped.
	if got := LevelToInt16(4000, 255); got != math.MaxInt16 {
		t.Errorf("LevelToInt16(4000, 255) = %d, want %d", got, math.MaxInt16)
	}
}

func TestFloat32ToLevel(t *testing.T) {
	t.Parallel()

	if got := Float32ToLevel(2, 1088); got != 1088 {
		t.Errorf("Float32ToLevel(2) = %d, want 1088 (clamped)", got)
	}

	if got := Float32ToLevel(-2, 1088); got != 0 {
		t.Errorf("Float32ToLevel(-2) = %d, want 0 (clamped)", got)
	}

	prev := Float32ToLevel(-1, 1088)
	for x := float32(-0.99); x <= 1; x += 0.01 {
		cur := Float32ToLevel(x, 1088)
		if cur < prev {
			t.Fatalf("Float32ToLevel not monotonic at %v: %d < %d", x, cur, prev)
		}
		prev = cur
	}
}

func TestInt16ToLevel_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = Int16ToLevel(1234, 1088)
	})
	if allocs > 0 {
		t.Errorf("Int16ToLevel allocated %v times, want 0", allocs)
	}
}

func BenchmarkInt16ToLevel(b *testing.B) {
	b.ReportAllocs()

	pcm := make([]int16, 22050)
	for i := range pcm {
		pcm[i] = int16(math.Sin(float64(i)*0.05) * 30000)
	}
	levels := make([]uint16, len(pcm))

	for b.Loop() {
		for i, s := range pcm {
			levels[i] = Int16ToLevel(s, 1088)
		}
	}
}
