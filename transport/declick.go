// SPDX-License-Identifier: EPL-2.0

package transport

const (
	fadeOutStep = 1.0 / 2048
	fadeInStep  = 1.0 / 4096
)

type fadeState uint8

const (
	fadedOut fadeState = iota
	fadingIn
	fadingOut
)

// Declicker smooths the edges of an underrun on the consumer side. When
// frames run out it fades the last delivered frame to silence instead of
// dropping to zero. A fade out always runs to silence on that held frame,
// even if data returns meanwhile; frames arriving during it are dropped,
// and the fade in starts once the output is silent. A new Declicker
// starts faded out, so playback also starts with a fade in.
type Declicker struct {
	channels int
	state    fadeState
	gain     float32
	last     []float32
}

func NewDeclicker(channels int) *Declicker {
	return &Declicker{
		channels: channels,
		last:     make([]float32, channels),
	}
}

// Gain is the fader value applied to the last processed frame.
func (d *Declicker) Gain() float32 { return d.gain }

// Process rewrites interleaved dst in place. The first got frames are real
// data, the rest are missing.
func (d *Declicker) Process(dst []float32, got int) {
	frames := len(dst) / d.channels

	for f := range frames {
		frame := dst[f*d.channels : (f+1)*d.channels]

		switch d.state {
		case fadingOut:
			d.gain -= fadeOutStep
			if d.gain <= 0 {
				d.gain = 0
				d.state = fadedOut
			}
		case fadedOut:
			d.gain = 0
		case fadingIn:
			d.gain = min(1, d.gain+fadeInStep)
		}

		switch {
		case f >= got:
			d.state = fadingOut
		case d.state == fadedOut:
			d.state = fadingIn
			copy(d.last, frame)
		case d.state == fadingIn:
			copy(d.last, frame)
		}

		for c := range frame {
			frame[c] = d.last[c] * d.gain
		}
	}
}
