// SPDX-License-Identifier: EPL-2.0

package mixer

// fade is a linear ramp of a stream's level measured in render frames.
type fade struct {
	active  bool
	from    float32
	to      float32
	total   int
	elapsed int
}

func (f *fade) start(from, to float32, frames int) {
	*f = fade{
		active: true,
		from:   from,
		to:     to,
		total:  max(frames, 1),
	}
}

// at returns the level i frames after the current position. The level
// reaches the target on the last frame of the ramp.
func (f *fade) at(i int) float32 {
	k := f.elapsed + i + 1
	if k >= f.total {
		return f.to
	}
	return f.from + (f.to-f.from)*float32(k)/float32(f.total)
}

// advance moves the ramp forward and reports whether it completed.
func (f *fade) advance(frames int) bool {
	f.elapsed += frames
	if f.elapsed >= f.total {
		f.active = false
		return true
	}
	return false
}
