// SPDX-License-Identifier: EPL-2.0

package transport

import "sync/atomic"

// Ring is a fixed-capacity single-producer single-consumer queue of
// interleaved float32 frames.
//
// The producer owns the write cursor and the consumer the read cursor. Both
// only grow; their difference is the number of queued frames, so a full
// ring and an empty ring never look alike. No locks are taken, which makes
// Pull safe to call from a real-time device callback.
type Ring struct {
	buf      []float32
	channels int
	capacity uint64 // frames

	write atomic.Uint64
	read  atomic.Uint64

	overruns       atomic.Uint64
	underruns      atomic.Uint64
	underrunFrames atomic.Uint64
}

// RingStats counts the transport events seen so far.
type RingStats struct {
	Written        uint64
	Read           uint64
	Overruns       uint64
	Underruns      uint64
	UnderrunFrames uint64
}

func NewRing(channels, capacityFrames int) (*Ring, error) {
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	if capacityFrames < 1 {
		return nil, ErrInvalidCapacity
	}

	return &Ring{
		buf:      make([]float32, channels*capacityFrames),
		channels: channels,
		capacity: uint64(capacityFrames),
	}, nil
}

func (r *Ring) Channels() int { return r.channels }
func (r *Ring) Cap() int      { return int(r.capacity) }

// Len is the number of queued frames. It never exceeds Cap, which bounds
// the latency the ring adds.
func (r *Ring) Len() int {
	return int(r.write.Load() - r.read.Load())
}

func (r *Ring) Free() int {
	return r.Cap() - r.Len()
}

// Push queues every whole frame of samples, or nothing when they do not
// all fit. A refused push is counted as an overrun. Producer side only.
func (r *Ring) Push(samples []float32) bool {
	frames := uint64(len(samples) / r.channels)
	w := r.write.Load()
	rd := r.read.Load()

	if frames > r.capacity-(w-rd) {
		r.overruns.Add(1)
		return false
	}

	total := int(frames) * r.channels
	start := int(w%r.capacity) * r.channels
	n := copy(r.buf[start:], samples[:total])
	copy(r.buf, samples[n:total])

	r.write.Store(w + frames)
	return true
}

// Pull fills dst with queued frames and returns how many were available.
// The rest of dst is silence and the shortfall is counted as an underrun.
// Consumer side only.
func (r *Ring) Pull(dst []float32) int {
	want := uint64(len(dst) / r.channels)
	rd := r.read.Load()
	w := r.write.Load()

	got := min(w-rd, want)
	total := int(got) * r.channels
	start := int(rd%r.capacity) * r.channels
	n := copy(dst[:total], r.buf[start:])
	copy(dst[n:total], r.buf)
	clear(dst[total:])

	r.read.Store(rd + got)

	if got < want {
		r.underruns.Add(1)
		r.underrunFrames.Add(want - got)
	}
	return int(got)
}

func (r *Ring) Stats() RingStats {
	return RingStats{
		Written:        r.write.Load(),
		Read:           r.read.Load(),
		Overruns:       r.overruns.Load(),
		Underruns:      r.underruns.Load(),
		UnderrunFrames: r.underrunFrames.Load(),
	}
}
