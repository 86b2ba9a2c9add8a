// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level building blocks of the mixer.
//
// Decoded material enters through the Source interface, produced by the
// format decoders in formats/*. From there it is either loaded whole into a
// shared, immutable Clip or driven progressively by a StreamingDecoder that
// keeps a bounded lookahead of decoded frames.
//
// # Cursors and resampling
//
// A Cursor is a closed set of frame sources (static clip, streaming decoder,
// tone generator, feed queue) read one native frame at a time. The
// Resampler pulls from a Cursor at any ratio of source to output frames:
//
//	cur := audio.NewStaticCursor(clip, false)
//	rs := audio.NewResampler(audio.Linear)
//	out := make([]float32, 2*audio.ChunkFrames)
//	_, finished := rs.Pull(cur, out, 44100.0/22050.0)
//
// The read position and the surrounding frames are kept between pulls, so
// consecutive chunks join without seams.
//
// # Real-time use
//
// Cursor, Resampler, FrameQueue and StreamingDecoder.ReadFrame never
// allocate. StreamingDecoder.Refill decodes and belongs on the render
// side, never inside the device callback.
package audio
