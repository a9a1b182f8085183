// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// # Decoding WAV Files
//
// The Decoder reads integer PCM WAV files (8, 16, 24 and 32 bit, plain or
// WAVE_FORMAT_EXTENSIBLE) through github.com/go-audio/wav:
//
//	file, _ := os.Open("audio.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// Samples come back as float32 values in [-1.0, 1.0). Inputs that are not
// an io.ReadSeeker are buffered in memory first.
//
// # Encoding WAV Files
//
// Encode turns an audio.Signal into a canonical 16-bit PCM WAV:
//
//	data, err := wav.Encode(sig, sig.FrameCount())
//
// The output is always a 44 byte header (RIFF, fmt and data chunk headers,
// all little-endian) followed by interleaved int16 samples. Float samples
// are clamped to [-1, 1]. A sample s is scaled by 32768 when 0.5+s is
// negative and by 32767 otherwise, then truncated toward zero. NaN becomes
// silence.
//
// Write streams the same bytes to an io.Writer in blocks of at most 8 KiB,
// which keeps memory flat for long signals.
//
// # Error Handling
//
// Decoding errors wrap ErrNotWavFile, ErrUnsupportedFormat,
// ErrUnsupportedBitDepth or ErrNoPCMData. Encoding errors wrap
// audio.ErrInvalidInput:
//
//	if errors.Is(err, audio.ErrInvalidInput) {
//	    // frames beyond a channel, no channels, bad sample rate
//	}
package wav
