// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM primitives used to watermark audio.
//
// # Streams and Signals
//
// Decoders produce a Source, an interleaved float32 stream:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSignal drains a Source into a Signal, a planar in-memory block where
// Data[c] holds every sample of channel c. Signal.Source replays a Signal as
// a Source again so it can pass through streaming stages such as MonoMixer.
//
// # Mixing
//
// Mix blends a watermark into a primary signal:
//
//	out[c][i] = primary[c][i] + gain * watermark[c % wmChannels][i % wmFrames]
//
// The output has the primary's rate, channel count and length. The
// watermark loops when it is shorter than the primary. Mix never clamps;
// clamping happens when the signal is encoded to 16-bit PCM.
//
// # Optional stages
//
//   - MonoMixer / Downmix average all channels into one.
//   - Resample converts a Signal to another rate using a polyphase FIR
//     resampler.
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register(wav.Decoder{}, "wav", "wave")
//	sig, err := registry.DecodeSignal("input.wav", file)
//
// # Sample Format
//
// Samples are float32 nominally in [-1.0, 1.0]. Intermediate values may
// exceed that range.
//
// # Error Handling
//
// Precondition failures wrap ErrInvalidInput and carry an *InputError
// naming the operation:
//
//	if errors.Is(err, audio.ErrInvalidInput) {
//	    // malformed signal, not an I/O problem
//	}
//
// Streams return io.EOF when no more data is available.
package audio
