// SPDX-License-Identifier: EPL-2.0

// Package wav decodes PCM WAV files into an audio.Source using
// github.com/go-audio/wav.
//
//	f, _ := os.Open("jump.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    // not a WAV file, or not integer PCM
//	}
//	clip, err := audio.LoadClip(src)
//
// Samples are normalized to [-1, 1]. Channel count and sample rate are
// taken from the file as is.
package wav
