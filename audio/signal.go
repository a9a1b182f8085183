// SPDX-License-Identifier: EPL-2.0

package audio

// Signal is a fully decoded block of PCM audio.
//
// Data is planar: Data[c] holds every sample of channel c, nominally in
// [-1, 1]. Values outside that range are allowed until the signal is
// encoded. A valid Signal has at least one channel and all channels share
// the same length.
type Signal struct {
	SampleRate int
	Data       [][]float32
}

// NewSignal allocates a silent signal.
func NewSignal(sampleRate, channels, frames int) *Signal {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}

	return &Signal{SampleRate: sampleRate, Data: data}
}

// FromInterleaved splits interleaved samples into a planar Signal.
// A trailing partial frame is dropped.
func FromInterleaved(sampleRate, channels int, samples []float32) (*Signal, error) {
	if channels < 1 {
		return nil, InvalidInput("deinterleave", "channel count %d", channels)
	}

	frames := len(samples) / channels
	sig := NewSignal(sampleRate, channels, frames)
	for f := range frames {
		base := f * channels
		for c := range channels {
			sig.Data[c][f] = samples[base+c]
		}
	}

	return sig, nil
}

func (s *Signal) ChannelCount() int { return len(s.Data) }

// FrameCount is the number of samples per channel.
func (s *Signal) FrameCount() int {
	if len(s.Data) == 0 {
		return 0
	}

	return len(s.Data[0])
}

// Validate checks the structural invariants of s.
func (s *Signal) Validate() error {
	if s == nil {
		return InvalidInput("validate", "nil signal")
	}

	if s.SampleRate <= 0 {
		return InvalidInput("validate", "sample rate %d", s.SampleRate)
	}

	if len(s.Data) == 0 {
		return InvalidInput("validate", "no channels")
	}

	frames := len(s.Data[0])
	for c, ch := range s.Data {
		if len(ch) != frames {
			return InvalidInput("validate", "channel %d has %d samples, channel 0 has %d", c, len(ch), frames)
		}
	}

	return nil
}

// Clone returns a deep copy of s.
func (s *Signal) Clone() *Signal {
	out := &Signal{SampleRate: s.SampleRate, Data: make([][]float32, len(s.Data))}
	for c, ch := range s.Data {
		out.Data[c] = append([]float32(nil), ch...)
	}

	return out
}

// Interleave returns the samples frame by frame.
func (s *Signal) Interleave() []float32 {
	channels := s.ChannelCount()
	frames := s.FrameCount()
	out := make([]float32, frames*channels)
	for c, ch := range s.Data {
		for f := range frames {
			out[f*channels+c] = ch[f]
		}
	}

	return out
}
