// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Clip is a fully decoded, immutable sample buffer (mono or stereo).
// A single Clip is shared by every Stream that plays it; nothing writes to
// its samples after construction.
type Clip struct {
	sampleRate int
	channels   int
	samples    []float32

	loopStart  int
	loopFrames int
}

// NewClip wraps interleaved samples. The whole clip is the loop section.
func NewClip(sampleRate, channels int, samples []float32) (*Clip, error) {
	frames := 0
	if channels > 0 {
		frames = len(samples) / channels
	}
	return NewClipWithLoop(sampleRate, channels, samples, 0, frames)
}

// NewClipWithLoop wraps interleaved samples and restricts looping playback
// to [loopStart, loopStart+loopFrames).
func NewClipWithLoop(sampleRate, channels int, samples []float32, loopStart, loopFrames int) (*Clip, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if channels != 1 && channels != 2 {
		return nil, ErrUnsupportedChannels
	}
	if len(samples)%channels != 0 {
		return nil, ErrInvalidDstSize
	}

	frames := len(samples) / channels
	if frames == 0 {
		return nil, ErrEmptyClip
	}
	if loopStart < 0 || loopFrames <= 0 || loopStart+loopFrames > frames {
		return nil, ErrInvalidLoopSection
	}

	return &Clip{
		sampleRate: sampleRate,
		channels:   channels,
		samples:    samples,
		loopStart:  loopStart,
		loopFrames: loopFrames,
	}, nil
}

// LoadClip drains a decoded Source into a Clip. Sources with more than two
// channels are averaged down to mono. The Source is not closed.
func LoadClip(src Source) (*Clip, error) {
	if src.Channels() > 2 {
		src = NewMonoMixer(src)
	}
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrUnsupportedChannels
	}

	samples := make([]float32, 0, src.SampleRate()*channels)
	buf := make([]float32, 4096*channels)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load clip: %w", err)
		}
		if n == 0 {
			// a well behaved decoder never stalls without EOF
			break
		}
	}

	samples = samples[:len(samples)-len(samples)%channels]
	return NewClip(src.SampleRate(), channels, samples)
}

func (c *Clip) SampleRate() int { return c.sampleRate }
func (c *Clip) Channels() int   { return c.channels }
func (c *Clip) Frames() int     { return len(c.samples) / c.channels }

// Duration of the whole clip at its native rate.
func (c *Clip) Duration() time.Duration {
	return time.Duration(float64(c.Frames()) / float64(c.sampleRate) * float64(time.Second))
}

// LoopSection reports the first frame and length of the looped region.
func (c *Clip) LoopSection() (start, frames int) {
	return c.loopStart, c.loopFrames
}

// Frame returns frame i. For mono clips the right value is zero.
func (c *Clip) Frame(i int) (l, r float32) {
	if c.channels == 1 {
		return c.samples[i], 0
	}
	return c.samples[2*i], c.samples[2*i+1]
}
