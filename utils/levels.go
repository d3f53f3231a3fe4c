// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Int16ToLevel maps signed PCM onto the duty-cycle range [0, top]:
// (s + 32768) * top / 65535. Silence lands on the midpoint.
func Int16ToLevel(s int16, top uint16) uint16 {
	return uint16(uint32(int32(s)+32768) * uint32(top) / math.MaxUint16)
}

// LevelToInt16 is the inverse of Int16ToLevel, up to the quantization of top.
func LevelToInt16(level uint16, top uint16) int16 {
	if top == 0 {
		return 0
	}
	if level > top {
		level = top
	}

	v := int64(level)*math.MaxUint16/int64(top) - 32768
	if v > math.MaxInt16 {
		v = math.MaxInt16
	}

	return int16(v)
}

// Float32ToLevel maps a normalized sample in [-1, 1] onto [0, top].
func Float32ToLevel(x float32, top uint16) uint16 {
	return Int16ToLevel(Float32ToInt16(x), top)
}
