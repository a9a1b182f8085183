// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/utils"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameReader is the part of flac.Stream the source needs.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	dec        frameReader
	sampleRate int
	channels   int
	bitDepth   int

	// current frame and the next unread sample within it
	cur  *frame.Frame
	pos  int
	done bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 - 4096%s.channels }

func (s *source) Close() error {
	if err := s.dec.Close(); err != nil {
		return fmt.Errorf("closing flac stream: %w", err)
	}

	return nil
}

func (s *source) next() error {
	f, err := s.dec.ParseNext()
	if err != nil {
		return err
	}

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: %d subframes, want %d", ErrChannelMismatch, len(f.Subframes), s.channels)
	}

	s.cur, s.pos = f, 0

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / s.channels
	n := 0

	for n < frames*s.channels {
		if s.done {
			return n, io.EOF
		}

		if s.cur == nil || s.pos >= len(s.cur.Subframes[0].Samples) {
			if err := s.next(); err != nil {
				if errors.Is(err, io.EOF) {
					s.done = true
					return n, io.EOF
				}

				return n, fmt.Errorf("decoding flac frame: %w", err)
			}

			continue
		}

		bits := int(s.cur.BitsPerSample)
		if bits == 0 {
			bits = s.bitDepth
		}

		avail := len(s.cur.Subframes[0].Samples) - s.pos
		take := min(avail, frames-n/s.channels)

		for i := range take {
			for c, sub := range s.cur.Subframes {
				dst[n+i*s.channels+c] = utils.IntToFloat32(int(sub.Samples[s.pos+i]), bits)
			}
		}

		s.pos += take
		n += take * s.channels
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info == nil || info.NChannels == 0 || info.SampleRate == 0 {
		stream.Close()
		return nil, ErrNotFlacFile
	}

	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		stream.Close()
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return &source{
		dec:        stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
