// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff. It accepts uncompressed
// big-endian PCM at 8, 16, 24 or 32 bits and normalizes samples to
// float32 by the bit depth, so full scale maps to [-1.0, 1.0).
//
//	file, _ := os.Open("audio.aiff")
//	source, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not an AIFF file
//	}
//
// go-audio needs an io.ReadSeeker; other readers are buffered in memory.
package aiff
