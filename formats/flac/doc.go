// SPDX-License-Identifier: EPL-2.0

// Package flac decodes native FLAC files using github.com/mewkiz/flac.
//
// Any bit depth from 4 to 32 bits is normalized to [-1, 1). Decoding is frame
// by frame, so long FLAC tracks work well as streaming assets.
package flac
