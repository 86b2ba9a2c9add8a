// SPDX-License-Identifier: EPL-2.0

// Package audmix is a real-time audio mixer for games.
//
// Many sounds play at once: short effects fully decoded in memory and long
// music or ambience decoded progressively while playing. Game code starts,
// stops and fades them through a Mixer from any goroutine, and a render
// goroutine mixes them into fixed chunks that flow through a lock-free ring
// to the platform audio callback.
//
// # Packages
//
//   - audio: sources, clips, streaming decoders, cursors and the resampler
//   - mixer: the asset Bank, the Mixer with its streams and groups, and the
//     OutputStage that converts the mix to the device rate
//   - transport: the SPSC Ring, the underrun Declicker and the render Scheduler
//   - output: the oto device sink, the PCM callback reader and a WAV recorder
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff, formats/flac:
//     decoders
//   - config: viper backed settings and slog setup
//
// # Quick Start
//
//	settings, _ := config.Load("audmix.yaml")
//
//	bank := mixer.NewBank()
//	reg := audmix.NewRegistry()
//	_ = audmix.LoadAsset(bank, reg, "jump", "sfx/jump.wav", false, settings.SampleRate)
//	_ = audmix.LoadAsset(bank, reg, "theme", "music/theme.ogg", true, 0)
//
//	engine, err := audmix.New(bank, settings)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//	if err := engine.Start(ctx); err != nil {
//	    return err
//	}
//
//	m := engine.Mixer()
//	music, _ := m.Play("theme", mixer.PlayParams{Volume: 0.8, Loop: true, Speed: 1})
//	_ = m.PlayOneShot("jump", mixer.DefaultPlayParams())
//	m.FadeOut(music, 2*time.Second)
//
// # Offline Rendering
//
// RenderPCM16 renders a mixer without any device, which is handy for tests
// and for baking previews:
//
//	pcm := audmix.RenderPCM16(m, 48000) // one second at 48 kHz
package audmix
