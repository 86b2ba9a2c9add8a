// SPDX-License-Identifier: EPL-2.0

package audio

// FrameQueue is a fixed-capacity FIFO of interleaved frames. It is not safe
// for concurrent use: it lives entirely on the render side, as the lookahead
// of a streaming decoder or as the feed of the output stage.
type FrameQueue struct {
	channels int
	capacity int // frames
	buf      []float32

	head  int // frame index of the oldest frame
	count int // frames stored
}

func NewFrameQueue(channels, capacity int) *FrameQueue {
	return &FrameQueue{
		channels: channels,
		capacity: capacity,
		buf:      make([]float32, channels*capacity),
	}
}

func (q *FrameQueue) Channels() int { return q.channels }
func (q *FrameQueue) Cap() int      { return q.capacity }
func (q *FrameQueue) Len() int      { return q.count }
func (q *FrameQueue) Free() int     { return q.capacity - q.count }

// Push appends as many whole frames from interleaved samples as fit and
// returns the number of frames stored.
func (q *FrameQueue) Push(samples []float32) int {
	frames := min(len(samples)/q.channels, q.Free())

	tail := (q.head + q.count) % q.capacity
	for f := range frames {
		dst := ((tail + f) % q.capacity) * q.channels
		copy(q.buf[dst:dst+q.channels], samples[f*q.channels:(f+1)*q.channels])
	}
	q.count += frames

	return frames
}

// PopFrame removes the oldest frame. Mono frames report r as zero.
func (q *FrameQueue) PopFrame() (l, r float32, ok bool) {
	if q.count == 0 {
		return 0, 0, false
	}

	idx := q.head * q.channels
	l = q.buf[idx]
	if q.channels > 1 {
		r = q.buf[idx+1]
	}

	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.count--

	return l, r, true
}

// Reset drops every queued frame.
func (q *FrameQueue) Reset() {
	q.head = 0
	q.count = 0
}
