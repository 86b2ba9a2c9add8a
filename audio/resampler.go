// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audmix/utils"

// Interpolation selects how the Resampler reconstructs values between
// source frames.
type Interpolation uint8

const (
	Linear Interpolation = iota
	Cubic
)

// Resampler converts frames read from a Cursor to another rate by
// interpolating over a fractional read position. The position and the
// frames around it survive between pulls, so pulling n1 then n2 frames
// yields exactly what a single pull of n1+n2 would.
//
// Slot 1 holds the current frame and slot 2 the next one. Cubic mode also
// keeps the previous frame in slot 0 and the one after next in slot 3.
type Resampler struct {
	mode Interpolation
	pos  float64

	l, r   [4]float32
	valid  [4]bool
	primed bool
	ended  bool
}

func NewResampler(mode Interpolation) *Resampler {
	return &Resampler{mode: mode}
}

// Reset drops the position and every remembered frame.
func (rs *Resampler) Reset() {
	*rs = Resampler{mode: rs.mode}
}

// Position is the fractional offset between the current and next frame.
func (rs *Resampler) Position() float64 { return rs.pos }

// Need reports how many source frames a pull of frames output frames at
// ratio may read from the cursor.
func (rs *Resampler) Need(frames int, ratio float64) int {
	n := int(rs.pos+float64(frames)*ratio) + 1
	if !rs.primed {
		n += 2
		if rs.mode == Cubic {
			n++
		}
	}
	return n
}

// Finished reports whether the current frame lies past the end of data.
func (rs *Resampler) Finished() bool {
	return rs.primed && !rs.valid[1]
}

func (rs *Resampler) fetch(c *Cursor, slot int) {
	if rs.ended {
		rs.l[slot], rs.r[slot], rs.valid[slot] = 0, 0, false
		return
	}

	l, r, ok := c.ReadFrame()
	if !ok {
		rs.ended = true
		l, r = 0, 0
	}
	rs.l[slot], rs.r[slot], rs.valid[slot] = l, r, ok
}

func (rs *Resampler) prime(c *Cursor) {
	rs.fetch(c, 1)
	rs.fetch(c, 2)
	if rs.mode == Cubic {
		rs.l[0], rs.r[0], rs.valid[0] = rs.l[1], rs.r[1], rs.valid[1]
		rs.fetch(c, 3)
	}
	rs.primed = true
}

func (rs *Resampler) shift(c *Cursor) {
	if rs.mode == Cubic {
		rs.l[0], rs.r[0], rs.valid[0] = rs.l[1], rs.r[1], rs.valid[1]
		rs.l[1], rs.r[1], rs.valid[1] = rs.l[2], rs.r[2], rs.valid[2]
		rs.l[2], rs.r[2], rs.valid[2] = rs.l[3], rs.r[3], rs.valid[3]
		rs.fetch(c, 3)
		return
	}

	rs.l[1], rs.r[1], rs.valid[1] = rs.l[2], rs.r[2], rs.valid[2]
	rs.fetch(c, 2)
}

// Pull writes len(dst)/2 stereo frames into dst, reading c at ratio source
// frames per output frame. Mono sources leave the right value at zero.
// Frames past the end of a non looping source are silence; finished
// reports that the end was reached during or before this pull.
func (rs *Resampler) Pull(c *Cursor, dst []float32, ratio float64) (frames int, finished bool) {
	frames = len(dst) / 2
	if !rs.primed {
		rs.prime(c)
	}

	for i := range frames {
		t := float32(rs.pos)

		var l, r float32
		if rs.mode == Cubic {
			l = utils.CubicInterpolate(rs.l[0], rs.l[1], rs.l[2], rs.l[3], t)
			r = utils.CubicInterpolate(rs.r[0], rs.r[1], rs.r[2], rs.r[3], t)
		} else {
			l = utils.Lerp(rs.l[1], rs.l[2], t)
			r = utils.Lerp(rs.r[1], rs.r[2], t)
		}
		if !rs.valid[1] {
			l, r = 0, 0
		}
		dst[2*i] = l
		dst[2*i+1] = r

		rs.pos += ratio
		for rs.pos >= 1 {
			rs.pos--
			rs.shift(c)
		}
	}

	return frames, !rs.valid[1]
}
