// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

const defaultBufSize = 4096

// ReadSignal drains src into a planar Signal. src is not closed.
func ReadSignal(src Source) (*Signal, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, InvalidInput("read", "source reports %d channels", channels)
	}

	if src.SampleRate() <= 0 {
		return nil, InvalidInput("read", "source reports sample rate %d", src.SampleRate())
	}

	bufSize := src.BufSize()
	if bufSize < channels {
		bufSize = defaultBufSize
	}
	// Whole frames only, so every read ends on a frame boundary.
	bufSize -= bufSize % channels

	var interleaved []float32
	buf := make([]float32, bufSize)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			interleaved = append(interleaved, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}

		if n == 0 {
			// Some decoders report a drained stream as (0, nil).
			break
		}
	}

	return FromInterleaved(src.SampleRate(), channels, interleaved)
}

type signalSource struct {
	sig *Signal
	pos int
}

// Source replays s as an interleaved Source.
func (s *Signal) Source() Source {
	return &signalSource{sig: s}
}

func (s *signalSource) SampleRate() int { return s.sig.SampleRate }
func (s *signalSource) Channels() int   { return s.sig.ChannelCount() }
func (s *signalSource) BufSize() int    { return defaultBufSize }
func (s *signalSource) Close() error    { return nil }

func (s *signalSource) ReadSamples(dst []float32) (int, error) {
	channels := s.sig.ChannelCount()
	if channels == 0 {
		return 0, io.EOF
	}

	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := s.sig.FrameCount() - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, remaining)
	for f := range frames {
		for c, ch := range s.sig.Data {
			dst[f*channels+c] = ch[s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= s.sig.FrameCount() {
		return frames * channels, io.EOF
	}

	return frames * channels, nil
}
