// SPDX-License-Identifier: EPL-2.0

package audio

// MonoMixer averages all channels of its source into one.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) Close() error    { return m.src.Close() }

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	ch := m.src.Channels()
	if ch <= 1 || len(dst) == 0 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * ch
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	tmp := m.tmp[:need]

	n, err := m.src.ReadSamples(tmp)
	frames := n / ch
	inv := 1 / float32(ch)

	if ch == 2 {
		for f := range frames {
			dst[f] = (tmp[2*f] + tmp[2*f+1]) * 0.5
		}
		return frames, err
	}

	for f := range frames {
		var sum float32
		for _, v := range tmp[f*ch : f*ch+ch] {
			sum += v
		}
		dst[f] = sum * inv
	}

	return frames, err
}
