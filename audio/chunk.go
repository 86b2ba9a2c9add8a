// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audmix/utils"

// ChunkFrames is the number of frames in every rendered chunk.
//
// The render side produces chunks of exactly this size and the transport
// frames its pushes with it, so both sides must agree on the value.
const ChunkFrames = 512

// Chunk is a fixed-length block of interleaved frames.
type Chunk struct {
	Channels int
	Samples  []float32
}

// NewChunk allocates a zeroed chunk of ChunkFrames frames.
func NewChunk(channels int) *Chunk {
	return NewChunkFrames(channels, ChunkFrames)
}

// NewChunkFrames allocates a zeroed chunk with a custom frame count.
func NewChunkFrames(channels, frames int) *Chunk {
	return &Chunk{
		Channels: channels,
		Samples:  make([]float32, channels*frames),
	}
}

func (c *Chunk) Frames() int { return len(c.Samples) / c.Channels }

// Zero fills the chunk with silence.
func (c *Chunk) Zero() {
	clear(c.Samples)
}

// Clamp limits every sample to [-1, 1]. No dithering is applied.
func (c *Chunk) Clamp() {
	for i, v := range c.Samples {
		c.Samples[i] = utils.ClampUnit(v)
	}
}
