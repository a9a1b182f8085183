// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into an audio.Registry.
package formats

import (
	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/formats/aiff"
	"github.com/ik5/audmark/formats/flac"
	"github.com/ik5/audmark/formats/mp3"
	"github.com/ik5/audmark/formats/vorbis"
	"github.com/ik5/audmark/formats/wav"
)

// NewRegistry returns a registry keyed by file extension.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()

	r.Register(wav.Decoder{}, "wav", "wave")
	r.Register(mp3.Decoder{}, "mp3")
	r.Register(vorbis.Decoder{}, "ogg", "oga")
	r.Register(aiff.Decoder{}, "aif", "aiff")
	r.Register(flac.Decoder{}, "flac")

	return r
}
