// SPDX-License-Identifier: EPL-2.0

package audio

// Gain scales its source and clips the result to [-1, 1].
type Gain struct {
	src    Source
	factor float32
}

func NewGain(src Source, factor float64) *Gain {
	return &Gain{src: src, factor: float32(factor)}
}

func (g *Gain) SampleRate() int { return g.src.SampleRate() }
func (g *Gain) Channels() int   { return g.src.Channels() }
func (g *Gain) Close() error    { return g.src.Close() }

func (g *Gain) ReadSamples(dst []float32) (int, error) {
	n, err := g.src.ReadSamples(dst)
	if g.factor == 1 {
		return n, err
	}

	for i, v := range dst[:n] {
		dst[i] = min(max(v*g.factor, -1), 1)
	}

	return n, err
}
