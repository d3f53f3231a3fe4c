// SPDX-License-Identifier: EPL-2.0

package assets

import (
	"math"
	"time"

	"github.com/ik5/soundbox/hw"
)

// fade is the length of the attack and release ramps.
const fade = 5 * time.Millisecond

// Tone synthesizes a sine at hz for d. The ends are ramped to avoid clicks.
func Tone[S hw.Sample](hz float64, d time.Duration, f Format) []S {
	n := int(math.Round(d.Seconds() * float64(f.Rate)))
	if n <= 0 {
		return nil
	}

	ramp := min(int(fade.Seconds()*float64(f.Rate)), n/2)
	samples := make([]float32, n)
	for i := range samples {
		env := 1.0
		if ramp > 0 {
			env = min(1, float64(i)/float64(ramp), float64(n-1-i)/float64(ramp))
		}
		samples[i] = float32(0.8 * env * math.Sin(2*math.Pi*hz*float64(i)/float64(f.Rate)))
	}

	return Quantize[S](samples, f.Top)
}

// pentatonic holds the C major pentatonic scale from C5 upward.
var pentatonic = []float64{
	523.25, 587.33, 659.25, 783.99, 880.00,
	1046.50, 1174.66, 1318.51, 1567.98, 1760.00,
	2093.00, 2349.32,
}

// ToneBank returns n clips, one rising pentatonic note per button.
func ToneBank[S hw.Sample](n int, f Format) map[int][]S {
	out := make(map[int][]S, n)
	for i := range n {
		hz := pentatonic[i%len(pentatonic)] * float64(int(1)<<(i/len(pentatonic)))
		out[i] = Tone[S](hz, 250*time.Millisecond, f)
	}

	return out
}
