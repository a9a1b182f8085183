// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// DefaultWatermarkGain is the weight applied to the watermark by Mix when
// callers have no preference.
const DefaultWatermarkGain float32 = 0.1

// Mix adds gain*watermark onto primary and returns a new signal with the
// primary's sample rate, channel count and length.
//
// Output channel c reads watermark channel c mod watermark.ChannelCount(),
// so a mono watermark covers every channel of a stereo primary. Frame i
// reads watermark sample i mod len(that channel), looping a short
// watermark over the whole primary. The result is not clamped; sample
// rates are not compared.
func Mix(primary, watermark *Signal, gain float32) (*Signal, error) {
	if err := primary.Validate(); err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}

	if err := watermark.Validate(); err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}

	if watermark.FrameCount() == 0 {
		return nil, InvalidInput("mix", "watermark has no frames")
	}

	out := NewSignal(primary.SampleRate, primary.ChannelCount(), primary.FrameCount())
	wmChannels := watermark.ChannelCount()

	for c, dst := range out.Data {
		src := primary.Data[c]
		wm := watermark.Data[c%wmChannels]
		period := len(wm)

		for i := range dst {
			dst[i] = src[i] + gain*wm[i%period]
		}
	}

	return out, nil
}
