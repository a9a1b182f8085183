// SPDX-License-Identifier: EPL-2.0

// Package assets embeds the stock watermark used when no other is given.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/formats"
	"github.com/ik5/audmark/formats/wav"
)

// DefaultWatermarkName is the file name of the embedded watermark.
const DefaultWatermarkName = "watermark_default.wav"

//go:embed watermark_default.wav
var defaultWatermark []byte

// DefaultWatermarkWAV returns a copy of the embedded WAV bytes.
func DefaultWatermarkWAV() []byte {
	return bytes.Clone(defaultWatermark)
}

// DefaultWatermark decodes the embedded watermark, one second of 8 kHz
// mono with two soft 1.5 kHz beeps.
func DefaultWatermark() (*audio.Signal, error) {
	src, err := wav.Decoder{}.Decode(bytes.NewReader(defaultWatermark))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", DefaultWatermarkName, err)
	}
	defer src.Close()

	sig, err := audio.ReadSignal(src)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", DefaultWatermarkName, err)
	}

	return sig, nil
}

// LoadWatermark decodes the watermark at path, picking the decoder by file
// extension. An empty path yields DefaultWatermark.
func LoadWatermark(path string) (*audio.Signal, error) {
	if path == "" {
		return DefaultWatermark()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening watermark: %w", err)
	}
	defer f.Close()

	return formats.NewRegistry().DecodeSignal(path, f)
}
