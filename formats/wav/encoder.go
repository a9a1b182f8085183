// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/utils"
)

const (
	// MIMEType is the media type of the encoder output.
	MIMEType = "audio/wav"

	// HeaderSize is the length of the canonical RIFF/fmt/data header.
	HeaderSize = 44

	bytesPerSample = 2
	chunkBytes     = 8192
)

// headerWriter writes little-endian header fields at an advancing cursor.
type headerWriter struct {
	buf []byte
	pos int
}

func (h *headerWriter) tag(id string) {
	copy(h.buf[h.pos:h.pos+4], id)
	h.pos += 4
}

func (h *headerWriter) u16(v uint16) {
	binary.LittleEndian.PutUint16(h.buf[h.pos:], v)
	h.pos += 2
}

func (h *headerWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(h.buf[h.pos:], v)
	h.pos += 4
}

func putHeader(dst []byte, sampleRate, channels, frames int) {
	dataSize := uint32(frames * channels * bytesPerSample)
	h := headerWriter{buf: dst}

	// RIFF header (12 bytes)
	h.tag("RIFF")
	h.u32(HeaderSize - 8 + dataSize)
	h.tag("WAVE")

	// fmt chunk (24 bytes)
	h.tag("fmt ")
	h.u32(16)
	h.u16(1) // PCM
	h.u16(uint16(channels))
	h.u32(uint32(sampleRate))
	h.u32(uint32(sampleRate * bytesPerSample * channels))
	h.u16(uint16(channels * bytesPerSample))
	h.u16(16)

	// data chunk header (8 bytes)
	h.tag("data")
	h.u32(dataSize)
}

// putFrames interleaves frames [from, to) of data into dst and returns
// the number of bytes written.
func putFrames(dst []byte, data [][]float32, from, to int) int {
	off := 0
	for i := from; i < to; i++ {
		for _, ch := range data {
			binary.LittleEndian.PutUint16(dst[off:], uint16(utils.Float32ToInt16(ch[i])))
			off += bytesPerSample
		}
	}

	return off
}

func checkEncodable(sig *audio.Signal, frames int) error {
	if sig == nil {
		return audio.InvalidInput("encode", "nil signal")
	}

	channels := sig.ChannelCount()
	if channels == 0 {
		return audio.InvalidInput("encode", "no channels")
	}

	if channels > math.MaxUint16 {
		return audio.InvalidInput("encode", "%d channels do not fit the fmt chunk", channels)
	}

	if sig.SampleRate <= 0 || int64(sig.SampleRate)*bytesPerSample*int64(channels) > math.MaxUint32 {
		return audio.InvalidInput("encode", "sample rate %d", sig.SampleRate)
	}

	if frames < 0 {
		return audio.InvalidInput("encode", "frame count %d", frames)
	}

	for c, ch := range sig.Data {
		if frames > len(ch) {
			return audio.InvalidInput("encode", "%d frames requested, channel %d has %d", frames, c, len(ch))
		}
	}

	if int64(frames)*int64(channels)*bytesPerSample > math.MaxUint32-(HeaderSize-8) {
		return audio.InvalidInput("encode", "%d frames exceed the 4 GiB RIFF limit", frames)
	}

	return nil
}

// Encode serializes the first frames frames of sig as a 16-bit PCM WAV.
// The result is exactly HeaderSize + frames*channels*2 bytes long.
func Encode(sig *audio.Signal, frames int) ([]byte, error) {
	if err := checkEncodable(sig, frames); err != nil {
		return nil, err
	}

	channels := sig.ChannelCount()
	out := make([]byte, HeaderSize+frames*channels*bytesPerSample)
	putHeader(out, sig.SampleRate, channels, frames)
	putFrames(out[HeaderSize:], sig.Data, 0, frames)

	return out, nil
}

// EncodeSignal encodes every frame of sig.
func EncodeSignal(sig *audio.Signal) ([]byte, error) {
	if sig == nil {
		return nil, audio.InvalidInput("encode", "nil signal")
	}

	return Encode(sig, sig.FrameCount())
}

// Write streams the same bytes as EncodeSignal to w in blocks of at most
// 8 KiB after the header. Nothing is written if sig is not encodable.
func Write(w io.Writer, sig *audio.Signal) error {
	if sig == nil {
		return audio.InvalidInput("encode", "nil signal")
	}

	frames := sig.FrameCount()
	if err := checkEncodable(sig, frames); err != nil {
		return err
	}

	channels := sig.ChannelCount()
	header := make([]byte, HeaderSize)
	putHeader(header, sig.SampleRate, channels, frames)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}

	chunkFrames := max(1, chunkBytes/(channels*bytesPerSample))
	buf := make([]byte, min(chunkFrames, max(frames, 1))*channels*bytesPerSample)

	for from := 0; from < frames; from += chunkFrames {
		to := min(from+chunkFrames, frames)
		n := putFrames(buf, sig.Data, from, to)

		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("writing wav samples: %w", err)
		}
	}

	return nil
}
