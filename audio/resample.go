// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"strings"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Quality names a resampling preset.
type Quality string

const (
	QualityQuick    Quality = "quick"
	QualityLow      Quality = "low"
	QualityMedium   Quality = "medium"
	QualityHigh     Quality = "high"
	QualityVeryHigh Quality = "veryhigh"
)

// ParseQuality accepts a preset name in any case.
func ParseQuality(s string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	if _, err := q.spec(); err != nil {
		return "", err
	}

	return q, nil
}

func (q Quality) spec() (resampling.QualitySpec, error) {
	switch q {
	case QualityQuick:
		return resampling.QualitySpec{Preset: resampling.QualityQuick}, nil
	case QualityLow:
		return resampling.QualitySpec{Preset: resampling.QualityLow}, nil
	case QualityMedium:
		return resampling.QualitySpec{Preset: resampling.QualityMedium}, nil
	case QualityHigh, "":
		return resampling.QualitySpec{Preset: resampling.QualityHigh}, nil
	case QualityVeryHigh:
		return resampling.QualitySpec{Preset: resampling.QualityVeryHigh}, nil
	default:
		return resampling.QualitySpec{}, InvalidInput("resample", "unknown quality %q", string(q))
	}
}

// Resample converts sig to rate, channel by channel. A signal already at
// rate is returned as a copy.
func Resample(sig *Signal, rate int, quality Quality) (*Signal, error) {
	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	if rate <= 0 {
		return nil, InvalidInput("resample", "target rate %d", rate)
	}

	spec, err := quality.spec()
	if err != nil {
		return nil, err
	}

	if sig.SampleRate == rate {
		return sig.Clone(), nil
	}

	out := &Signal{SampleRate: rate, Data: make([][]float32, sig.ChannelCount())}
	for c, ch := range sig.Data {
		r, err := resampling.New(&resampling.Config{
			InputRate:  float64(sig.SampleRate),
			OutputRate: float64(rate),
			Channels:   1,
			Quality:    spec,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler: %w", err)
		}

		in := make([]float64, len(ch))
		for i, v := range ch {
			in[i] = float64(v)
		}

		body, err := r.Process(in)
		if err != nil {
			return nil, fmt.Errorf("resample channel %d: %w", c, err)
		}

		tail, err := r.Flush()
		if err != nil {
			return nil, fmt.Errorf("resample channel %d: %w", c, err)
		}

		res := make([]float32, 0, len(body)+len(tail))
		for _, v := range body {
			res = append(res, float32(v))
		}
		for _, v := range tail {
			res = append(res, float32(v))
		}
		out.Data[c] = res
	}

	// Filter delay can leave channels a sample apart; trim to the shortest.
	frames := len(out.Data[0])
	for _, ch := range out.Data[1:] {
		frames = min(frames, len(ch))
	}
	for c := range out.Data {
		out.Data[c] = out.Data[c][:frames]
	}

	return out, nil
}
