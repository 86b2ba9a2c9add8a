// SPDX-License-Identifier: EPL-2.0

// Package mixer renders many playing sounds into a single stream of chunks.
//
// A Bank holds the assets. A Mixer plays them: control calls such as Play,
// SetVolume or FadeTo only queue a command and return, while RenderChunk,
// called from one render goroutine, applies the queued commands at the
// chunk boundary and mixes every active Stream.
//
//	bank := mixer.NewBank()
//	_ = bank.AddClip("jump", clip)
//
//	m, _ := mixer.New(bank, mixer.Config{SampleRate: 22050})
//	h, _ := m.Play("jump", mixer.DefaultPlayParams())
//	m.FadeTo(h, 0, 250*time.Millisecond)
//
//	chunk := m.RenderChunk()
//
// Volume, group and master changes ramp across a chunk instead of
// stepping. Stale handles are ignored. A streaming source that runs dry
// plays silence for that tick and resumes once its decoder catches up.
//
// OutputStage converts the internal render rate to the device rate.
package mixer
