// SPDX-License-Identifier: EPL-2.0

package audmix_test

import (
	"fmt"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/mixer"
)

// Example_renderPCM16 mixes two overlapping sounds offline.
func Example_renderPCM16() {
	bank := mixer.NewBank()

	step, _ := audio.LoadClip(audiotest.NewConstantSource(8000, 1, 8000, 0.25))
	_ = bank.AddClip("step", step)

	m, err := mixer.New(bank, mixer.Config{SampleRate: 8000, Channels: 1})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer m.Close()

	_, _ = m.Play("step", mixer.DefaultPlayParams())
	_, _ = m.Play("step", mixer.DefaultPlayParams())

	pcm := audmix.RenderPCM16(m, 4)
	fmt.Println(pcm)
	// Output: [16383 16383 16383 16383]
}
