// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

const (
	minSpeed = 1.0 / 64
	maxSpeed = 8
)

// PlayParams are the initial settings of a new stream.
type PlayParams struct {
	// Volume in [0, 1].
	Volume float32
	Loop   bool
	Group  GroupID
	// Pan in [-1, 1]. Mono sources are panned, stereo ones balanced.
	Pan float32
	// Speed scales the playback rate, which also shifts the pitch.
	// Zero means normal speed.
	Speed float32
	// Delay postpones the first audible frame.
	Delay time.Duration
	// Schedule snaps the start to a musical grid.
	Schedule Schedule
}

// DefaultPlayParams plays once at full volume in the default group.
func DefaultPlayParams() PlayParams {
	return PlayParams{Volume: 1, Speed: 1}
}

// Stream is one playing instance, owned by the render side.
type Stream struct {
	handle Handle
	source SourceID
	group  GroupID

	cursor    *audio.Cursor
	rs        *audio.Resampler
	baseRatio float64
	speed     float32

	volume float32
	level  float32 // level applied to the last rendered frame
	bus    float32 // group, mute and master gain of the last rendered frame
	fade   fade
	pan    float32
	mute   bool

	stopAfterFade bool
	delay         int
	primed        bool
	finished      bool

	scratch []float32
}

func newStream(mode audio.Interpolation) *Stream {
	return &Stream{
		rs:      audio.NewResampler(mode),
		scratch: make([]float32, 2*audio.ChunkFrames),
	}
}

// start readies a pooled stream for a new playback.
func (s *Stream) start(h Handle, asset Asset, cursor *audio.Cursor, renderRate int, p PlayParams) {
	s.handle = h
	s.source = asset.ID
	s.group = p.Group
	s.cursor = cursor
	s.rs.Reset()
	s.baseRatio = float64(cursor.SampleRate()) / float64(renderRate)
	s.speed = 1
	s.setSpeed(p.Speed)
	s.volume = utils.Clamp01(p.Volume)
	s.level = s.volume
	s.bus = 0
	s.fade = fade{}
	s.pan = clampPan(p.Pan)
	s.mute = false
	s.stopAfterFade = false
	s.delay = int(p.Delay.Seconds()*float64(renderRate) + 0.5)
	s.primed = false
	s.finished = false
}

// release drops the references held for the last playback.
func (s *Stream) release() error {
	var err error
	if s.cursor != nil {
		err = s.cursor.Close()
	}
	s.cursor = nil
	return err
}

func (s *Stream) Handle() Handle   { return s.handle }
func (s *Stream) Source() SourceID { return s.source }
func (s *Stream) Finished() bool   { return s.finished }
func (s *Stream) Volume() float32  { return s.volume }
func (s *Stream) Level() float32   { return s.level }

func (s *Stream) Cursor() *audio.Cursor { return s.cursor }

// progress is the share of the clip played so far, or -1 while the stream
// has not started or its length is unknown.
func (s *Stream) progress() float32 {
	if !s.primed {
		return -1
	}
	p, ok := s.cursor.Progress()
	if !ok {
		return -1
	}
	return float32(p)
}

func (s *Stream) setVolume(v float32) {
	s.fade = fade{}
	s.stopAfterFade = false
	s.volume = utils.Clamp01(v)
}

// fadeTo ramps from the level currently heard, not from an earlier target.
func (s *Stream) fadeTo(target float32, frames int, stop bool) {
	target = utils.Clamp01(target)

	from := s.volume
	if s.primed {
		from = s.level
	}

	if frames <= 0 {
		s.setVolume(target)
		if stop {
			s.finished = true
		}
		return
	}

	s.fade.start(from, target, frames)
	s.stopAfterFade = stop
}

func (s *Stream) setSpeed(v float32) {
	switch {
	case v <= 0:
		v = 1
	case v < minSpeed:
		v = minSpeed
	case v > maxSpeed:
		v = maxSpeed
	}
	s.speed = v
}

func (s *Stream) ratio() float64 {
	return s.baseRatio * float64(s.speed)
}

func clampPan(p float32) float32 {
	if p < -1 {
		return -1
	}
	if p > 1 {
		return 1
	}
	return p
}

// panGains maps pan onto channel gains. Mono sources follow a square-root
// crossfade scaled so the centre leaves them at unity; stereo sources use a
// balance control.
func (s *Stream) panGains() (l, r float32) {
	if s.pan == 0 {
		return 1, 1
	}
	if s.cursor.Channels() == 2 {
		return utils.BalanceGains(s.pan)
	}

	l, r = utils.PanGains(s.pan)
	return min(l*math.Sqrt2, 1), min(r*math.Sqrt2, 1)
}

// levelAt is the stream level of frame i of an n frame block.
func (s *Stream) levelAt(i, n int) float32 {
	if s.fade.active {
		return s.fade.at(i)
	}
	return s.level + (s.volume-s.level)*float32(i+1)/float32(n)
}

// advance commits the envelope for n rendered frames.
func (s *Stream) advance(n int, bus float32) {
	s.bus = bus

	if !s.fade.active {
		s.level = s.volume
		return
	}

	s.level = s.fade.at(n - 1)
	if s.fade.advance(n) {
		s.volume = s.fade.to
		s.level = s.fade.to
		if s.stopAfterFade {
			s.finished = true
		}
	}
}

// render adds one chunk of this stream into mix, a stereo buffer at the
// render rate, ramping both the stream level and the bus gain across the
// chunk. It reports whether the source was starved; a starved stream adds
// nothing but its envelope keeps moving.
func (s *Stream) render(mix []float32, bus float32) (starved bool) {
	n := len(mix) / 2

	offset := 0
	if s.delay > 0 {
		if s.delay >= n {
			s.delay -= n
			return false
		}
		offset = s.delay
		s.delay = 0
	}
	frames := n - offset

	if !s.primed {
		s.level = s.volume
		if s.fade.active {
			s.level = s.fade.from
		}
		s.bus = bus
		s.primed = true
	}

	ratio := s.ratio()
	if !s.cursor.Ready(s.rs.Need(frames, ratio)) {
		s.advance(frames, bus)
		return true
	}

	out := s.scratch[:2*frames]
	_, finished := s.rs.Pull(s.cursor, out, ratio)

	busFrom := s.bus
	if busFrom != 0 || bus != 0 {
		gl, gr := s.panGains()
		mono := s.cursor.Channels() == 1
		step := (bus - busFrom) / float32(frames)
		dst := mix[2*offset:]

		for i := range frames {
			g := s.levelAt(i, frames) * (busFrom + step*float32(i+1))
			l, r := out[2*i], out[2*i+1]
			if mono {
				r = l
			}
			dst[2*i] += l * g * gl
			dst[2*i+1] += r * g * gr
		}
	}

	s.advance(frames, bus)
	if finished {
		s.finished = true
	}
	return false
}
