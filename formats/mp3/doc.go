// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding on top of github.com/hajimehoshi/go-mp3.
//
// # Decoding
//
//	f, _ := os.Open("music.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    // Handle error
//	}
//	defer src.Close() // closes f as well
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0)
//   - Channels: always 2, go-mp3 duplicates mono streams
//   - Sample rate: as encoded in the file
//
// MP3 is a good fit for streaming assets (music, ambience). Register the
// decoder with an audio.Registry and hand the mixer an audio.Opener that
// reopens the file for every playing instance.
package mp3
