// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"github.com/ik5/audmix/transport"
	"github.com/ik5/audmix/utils"
)

// RenderPCM16 renders frames frames from src and returns them as
// interleaved 16-bit PCM. src is usually a *mixer.Mixer or a
// *mixer.OutputStage; commands already queued on a mixer are applied by
// the first chunk.
func RenderPCM16(src transport.Producer, frames int) []int16 {
	if frames <= 0 {
		return nil
	}

	var pcm16 []int16
	for remaining := frames; remaining > 0; {
		chunk := src.RenderChunk()
		if pcm16 == nil {
			pcm16 = make([]int16, 0, frames*chunk.Channels)
		}

		n := min(chunk.Frames(), remaining)
		for _, v := range chunk.Samples[:n*chunk.Channels] {
			pcm16 = append(pcm16, utils.Float32ToInt16(v))
		}
		remaining -= n
	}

	return pcm16
}
