// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis. Vorbis already decodes
// to float32 in [-1.0, 1.0], so samples pass through unchanged.
//
//	file, _ := os.Open("audio.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, vorbis.ErrInvalidVorbis)
//	}
//
// Channel count and sample rate come from the identification header. Reads
// return whole interleaved frames; a destination shorter than one frame
// reads nothing.
package vorbis
