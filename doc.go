// SPDX-License-Identifier: EPL-2.0

// Package audmark overlays a quiet watermark signal onto primary audio and
// renders the result as a 16-bit PCM WAV.
//
// Every output sample is
//
//	out[c][i] = primary[c][i] + gain * watermark[c % wc][i % wn]
//
// where wc is the watermark's channel count and wn its frame count, so a
// short or mono watermark loops across time and channels. The output keeps
// the primary's sample rate, channel count and length. Nothing is clamped
// until the WAV encoder converts to int16.
//
// # Quick Start
//
//	primary, _ := wav.Decoder{}.Decode(song)
//	mark, _ := wav.Decoder{}.Decode(tag)
//
//	data, err := audmark.Watermark(primary, mark)
//	if errors.Is(err, audio.ErrInvalidInput) {
//	    // empty watermark, ragged channels, ...
//	}
//
// # Options
//
//   - WithGain sets the watermark amplitude (default 0.1)
//   - WithMono averages the primary down to one channel first
//   - WithRateMatch resamples the watermark to the primary's rate
//   - WithBufferSize tunes the read buffer used to drain sources
//   - WithLogger emits debug logs for each pipeline step
//
// Without options the watermark is mixed sample-for-sample even when the
// two rates differ.
//
// # Lower Level
//
// The audio package holds the Signal type, Mix, Downmix and Resample. The
// formats packages decode WAV, MP3, Ogg Vorbis, AIFF and FLAC, and
// formats/wav also encodes. formats.NewRegistry picks a decoder by file
// extension.
package audmark
