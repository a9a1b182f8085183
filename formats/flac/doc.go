// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC (Free Lossless Audio Codec) decoding.
//
// This package uses github.com/mewkiz/flac. Frames are decoded one at a
// time and interleaved into the caller's buffer, so memory stays bounded
// by a single FLAC block regardless of file length. Samples are normalized
// by each frame's bit depth.
//
//	file, _ := os.Open("audio.flac")
//	source, err := flac.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, flac.ErrNotFlacFile)
//	}
//	defer source.Close()
package flac
