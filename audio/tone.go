// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// Tone is an endless stereo sine generator, mostly useful for checking that
// an output device is alive.
type Tone struct {
	frequency  float64
	sampleRate int
	phase      float64 // in cycles, kept in [0, 1)
}

func NewTone(frequency float64, sampleRate int) *Tone {
	return &Tone{
		frequency:  frequency,
		sampleRate: sampleRate,
	}
}

func (t *Tone) SampleRate() int { return t.sampleRate }

// Next returns the next sample and advances the phase.
func (t *Tone) Next() float32 {
	v := float32(math.Sin(t.phase * 2 * math.Pi))

	t.phase += t.frequency / float64(t.sampleRate)
	if t.phase >= 1 {
		t.phase -= math.Floor(t.phase)
	}

	return v
}
