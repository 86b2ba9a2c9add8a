// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"

	"github.com/ik5/audmix/audio"
)

// Renderer produces chunks at a fixed internal rate. *Mixer is one.
type Renderer interface {
	RenderChunk() *audio.Chunk
	SampleRate() int
	Channels() int
}

// OutputStage converts rendered chunks from the internal rate to the device
// rate. It renders new chunks only when its resampler needs more input, so
// it can serve any number of output frames per call.
type OutputStage struct {
	src      Renderer
	rate     int
	channels int
	ratio    float64

	queue  *audio.FrameQueue
	cursor *audio.Cursor
	rs     *audio.Resampler

	scratch []float32
	chunk   *audio.Chunk
}

func NewOutputStage(src Renderer, rate int, mode audio.Interpolation) (*OutputStage, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}

	ratio := float64(src.SampleRate()) / float64(rate)
	capacity := int(math.Ceil(float64(audio.ChunkFrames)*ratio)) + audio.ChunkFrames + 8
	queue := audio.NewFrameQueue(src.Channels(), capacity)

	return &OutputStage{
		src:      src,
		rate:     rate,
		channels: src.Channels(),
		ratio:    ratio,
		queue:    queue,
		cursor:   audio.NewFeedCursor(queue, src.SampleRate()),
		rs:       audio.NewResampler(mode),
		scratch:  make([]float32, 2*audio.ChunkFrames),
		chunk:    audio.NewChunk(src.Channels()),
	}, nil
}

func (o *OutputStage) SampleRate() int { return o.rate }
func (o *OutputStage) Channels() int   { return o.channels }

// Fill writes len(dst)/Channels() interleaved frames at the device rate.
func (o *OutputStage) Fill(dst []float32) {
	frames := len(dst) / o.channels

	for done := 0; done < frames; {
		n := min(frames-done, audio.ChunkFrames)

		need := o.rs.Need(n, o.ratio)
		for o.queue.Len() < need {
			o.queue.Push(o.src.RenderChunk().Samples)
		}

		out := o.scratch[:2*n]
		o.rs.Pull(o.cursor, out, o.ratio)

		if o.channels == 2 {
			copy(dst[2*done:], out)
		} else {
			for i := range n {
				dst[done+i] = out[2*i]
			}
		}
		done += n
	}
}

// RenderChunk fills one chunk of ChunkFrames frames at the device rate.
// The chunk is reused by the next call.
func (o *OutputStage) RenderChunk() *audio.Chunk {
	o.Fill(o.chunk.Samples)
	return o.chunk
}
