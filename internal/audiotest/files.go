// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"math"
)

// WAV16 encodes interleaved 16-bit samples as a canonical PCM WAV file.
func WAV16(rate, channels int, samples []int16) []byte {
	data := len(samples) * 2
	b := make([]byte, 44, 44+data)

	copy(b[0:], "RIFF")
	binary.LittleEndian.PutUint32(b[4:], uint32(36+data))
	copy(b[8:], "WAVE")
	copy(b[12:], "fmt ")
	binary.LittleEndian.PutUint32(b[16:], 16)
	binary.LittleEndian.PutUint16(b[20:], 1)
	binary.LittleEndian.PutUint16(b[22:], uint16(channels))
	binary.LittleEndian.PutUint32(b[24:], uint32(rate))
	binary.LittleEndian.PutUint32(b[28:], uint32(rate*channels*2))
	binary.LittleEndian.PutUint16(b[32:], uint16(channels*2))
	binary.LittleEndian.PutUint16(b[34:], 16)
	copy(b[36:], "data")
	binary.LittleEndian.PutUint32(b[40:], uint32(data))

	for _, s := range samples {
		b = binary.LittleEndian.AppendUint16(b, uint16(s))
	}

	return b
}

// AIFF16 encodes interleaved 16-bit samples as an AIFF file.
func AIFF16(rate, channels int, samples []int16) []byte {
	frames := len(samples) / channels
	data := len(samples) * 2

	b := make([]byte, 0, 54+data)
	b = append(b, "FORM"...)
	b = binary.BigEndian.AppendUint32(b, uint32(46+data))
	b = append(b, "AIFF"...)

	b = append(b, "COMM"...)
	b = binary.BigEndian.AppendUint32(b, 18)
	b = binary.BigEndian.AppendUint16(b, uint16(channels))
	b = binary.BigEndian.AppendUint32(b, uint32(frames))
	b = binary.BigEndian.AppendUint16(b, 16)
	b = append(b, extended(float64(rate))...)

	b = append(b, "SSND"...)
	b = binary.BigEndian.AppendUint32(b, uint32(8+data))
	b = binary.BigEndian.AppendUint32(b, 0) // offset
	b = binary.BigEndian.AppendUint32(b, 0) // block size
	for _, s := range samples {
		b = binary.BigEndian.AppendUint16(b, uint16(s))
	}

	return b
}

// extended encodes v as an 80-bit IEEE 754 extended float, as AIFF stores its rate.
func extended(v float64) []byte {
	out := make([]byte, 10)
	if v == 0 {
		return out
	}

	frac, exp := math.Frexp(v) // v = frac * 2^exp, frac in [0.5, 1)
	binary.BigEndian.PutUint16(out[0:], uint16(exp-1+16383))
	binary.BigEndian.PutUint64(out[2:], uint64(frac*(1<<64)))

	return out
}
