// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/oov/audio/resampler"
)

const (
	// quality passed to the offline windowed-sinc resampler (0..10)
	convertQuality = 10

	// zero frames appended to flush the filter tail
	convertFlushFrames = 256
)

// Convert returns a copy of the clip resampled to rate with a high quality
// windowed-sinc filter. This is meant for load time: baking assets to the
// internal render rate removes the per-stream conversion cost at playback.
// The loop section is scaled to the new rate.
func (c *Clip) Convert(rate int) (*Clip, error) {
	if rate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if rate == c.sampleRate {
		return c, nil
	}

	frames := c.Frames()
	scale := float64(rate) / float64(c.sampleRate)
	outFrames := max(1, int(float64(frames)*scale))

	r := resampler.New(c.channels, c.sampleRate, rate, convertQuality)
	in := make([]float32, frames+convertFlushFrames)
	out := make([]float32, outFrames+int(float64(convertFlushFrames)*scale)+1)
	samples := make([]float32, outFrames*c.channels)

	for ch := range c.channels {
		clear(in)
		for i := range frames {
			in[i] = c.samples[i*c.channels+ch]
		}

		read, written := 0, 0
		for read < len(in) && written < len(out) {
			rd, wr := r.ProcessFloat32(ch, in[read:], out[written:])
			if rd == 0 && wr == 0 {
				break
			}
			read += rd
			written += wr
		}

		for i := 0; i < outFrames && i < written; i++ {
			samples[i*c.channels+ch] = out[i]
		}
	}

	loopStart := int(float64(c.loopStart) * scale)
	loopFrames := max(1, int(float64(c.loopFrames)*scale))
	if loopStart+loopFrames > outFrames {
		loopStart = 0
		loopFrames = outFrames
	}

	return NewClipWithLoop(rate, c.channels, samples, loopStart, loopFrames)
}
