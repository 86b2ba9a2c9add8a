// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize      = errors.New("dst size must be multiple of channels")
	ErrUnsupportedChannels = errors.New("only mono and stereo are supported")
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
	ErrEmptyClip           = errors.New("clip has no frames")
	ErrInvalidLoopSection  = errors.New("loop section out of range")
	ErrUnknownFormat       = errors.New("unknown audio format")
	ErrNilOpener           = errors.New("streaming source needs an opener")
)
