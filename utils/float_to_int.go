// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 converts a normalized sample to 16-bit PCM.
//
// The sample is clamped to [-1, 1] and then scaled by 32768 when 0.5+x is
// negative, or by 32767 otherwise, truncating toward zero. The branch point
// sits at -0.5 rather than 0, so samples in (-0.5, 0) use the positive
// scale. Existing WAV output depends on this exact rounding, keep it.
// NaN converts to 0.
func Float32ToInt16(x float32) int16 {
	if x != x {
		return 0
	}

	s := float64(x)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}

	if 0.5+s < 0 {
		return int16(s * 32768)
	}

	return int16(s * 32767)
}

// Int16ToFloat32 converts a 16-bit PCM sample to [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// DecodePCM16LE converts little-endian 16-bit PCM bytes in src into dst and
// returns the number of samples written. A trailing odd byte is ignored.
func DecodePCM16LE(dst []float32, src []byte) int {
	n := min(len(src)/2, len(dst))
	for i := range n {
		dst[i] = Int16ToFloat32(int16(binary.LittleEndian.Uint16(src[2*i:])))
	}

	return n
}

// IntToFloat32 normalizes a signed integer sample of the given bit depth.
func IntToFloat32(v int, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}

	return float32(float64(v) / math.Exp2(float64(bitDepth-1)))
}
