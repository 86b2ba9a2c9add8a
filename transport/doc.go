// SPDX-License-Identifier: EPL-2.0

// Package transport moves rendered audio from the render goroutine to the
// device callback.
//
// Ring is the only thing both sides share. The render side pushes whole
// chunks of audio.ChunkFrames frames, paced by a Scheduler; the callback
// pulls whatever frame count the device asks for and gets silence for any
// shortfall. A Declicker on the callback side fades across those gaps.
package transport
