// SPDX-License-Identifier: EPL-2.0

package mixer

import "math"

// Quantum is the musical grid a scheduled start snaps to.
type Quantum uint8

const (
	Immediately Quantum = iota
	NextQuarterBeat
	NextHalfBeat
	NextBeat
	NextMeasure
)

// DefaultBeatsPerMeasure is used by NextMeasure when a Schedule names none.
const DefaultBeatsPerMeasure = 4

// Schedule holds a new stream back until the next grid line of a tempo,
// counted on the mixer clock from its first rendered frame. Any Delay in
// PlayParams runs from that grid line.
type Schedule struct {
	Quantum         Quantum
	BPM             float64
	BeatsPerMeasure int
}

// segment is the grid spacing in seconds, or zero for an immediate start.
func (s Schedule) segment() float64 {
	if s.BPM <= 0 {
		return 0
	}

	beat := 60 / s.BPM
	switch s.Quantum {
	case NextQuarterBeat:
		return beat / 4
	case NextHalfBeat:
		return beat / 2
	case NextBeat:
		return beat
	case NextMeasure:
		beats := s.BeatsPerMeasure
		if beats <= 0 {
			beats = DefaultBeatsPerMeasure
		}
		return beat * float64(beats)
	default:
		return 0
	}
}

// wait returns the frames from clock to the next grid line. A clock that
// sits on a grid line starts right away.
func (s Schedule) wait(clock int64, rate int) int {
	seg := s.segment() * float64(rate)
	if seg <= 0 {
		return 0
	}

	start := int64(math.Ceil(float64(clock)/seg) * seg)
	return int(max(start-clock, 0))
}
