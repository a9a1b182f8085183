// SPDX-License-Identifier: EPL-2.0

package audmark

import (
	"fmt"
	"log/slog"

	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/formats/wav"
)

// Option configures Watermark and WatermarkSignal.
type Option func(*options)

type options struct {
	gain      float32
	mono      bool
	rateMatch bool
	quality   audio.Quality
	bufSize   int
	logger    *slog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		gain:   audio.DefaultWatermarkGain,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithGain sets the watermark amplitude multiplier. The default is
// audio.DefaultWatermarkGain.
func WithGain(gain float32) Option {
	return func(o *options) { o.gain = gain }
}

// WithMono folds the primary down to one channel before mixing.
func WithMono(enabled bool) Option {
	return func(o *options) { o.mono = enabled }
}

// WithRateMatch resamples the watermark to the primary's rate when they
// differ. Without it the watermark is mixed sample-for-sample.
func WithRateMatch(quality audio.Quality) Option {
	return func(o *options) {
		o.rateMatch = true
		o.quality = quality
	}
}

// WithBufferSize overrides the read buffer, in samples, used when draining
// sources. Values below one frame fall back to the source's own size.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufSize = n }
}

// WithLogger routes pipeline debug logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// sizedSource overrides the buffer size a Source reports.
type sizedSource struct {
	audio.Source
	n int
}

func (s sizedSource) BufSize() int { return s.n }

func (o options) read(name string, src audio.Source) (*audio.Signal, error) {
	if o.bufSize > 0 {
		src = sizedSource{Source: src, n: o.bufSize}
	}

	sig, err := audio.ReadSignal(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	o.logger.Debug("decoded", "input", name,
		"sample_rate", sig.SampleRate, "channels", sig.ChannelCount(), "frames", sig.FrameCount())

	return sig, nil
}

// ReadSignal drains src using the buffer size and logger set by opts. The
// caller keeps ownership of src.
func ReadSignal(src audio.Source, opts ...Option) (*audio.Signal, error) {
	return newOptions(opts).read("input", src)
}

// WatermarkSignal mixes watermark into primary. The output keeps the
// primary's rate and frame count, and its channel count unless WithMono
// is set. Inputs are never modified.
func WatermarkSignal(primary, watermark *audio.Signal, opts ...Option) (*audio.Signal, error) {
	return newOptions(opts).apply(primary, watermark)
}

func (o options) apply(primary, watermark *audio.Signal) (*audio.Signal, error) {
	var err error

	if o.mono && primary != nil && primary.ChannelCount() > 1 {
		primary, err = audio.Downmix(primary)
		if err != nil {
			return nil, err
		}
		o.logger.Debug("downmixed primary to mono")
	}

	if o.rateMatch && primary != nil && watermark != nil && watermark.SampleRate != primary.SampleRate {
		from := watermark.SampleRate
		watermark, err = audio.Resample(watermark, primary.SampleRate, o.quality)
		if err != nil {
			return nil, fmt.Errorf("matching watermark rate: %w", err)
		}
		o.logger.Debug("resampled watermark", "from", from, "to", watermark.SampleRate, "frames", watermark.FrameCount())
	}

	out, err := audio.Mix(primary, watermark, o.gain)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("mixed", "gain", o.gain, "frames", out.FrameCount())

	return out, nil
}

// Watermark drains both sources, mixes them and returns the result as a
// 16-bit PCM WAV. The caller keeps ownership of the sources.
func Watermark(primary, watermark audio.Source, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	p, err := o.read("primary", primary)
	if err != nil {
		return nil, err
	}

	w, err := o.read("watermark", watermark)
	if err != nil {
		return nil, err
	}

	out, err := o.apply(p, w)
	if err != nil {
		return nil, err
	}

	data, err := wav.EncodeSignal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding wav: %w", err)
	}
	o.logger.Debug("encoded", "bytes", len(data))

	return data, nil
}
