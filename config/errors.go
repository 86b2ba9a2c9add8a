// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrInvalidLogLevel      = errors.New("unexpected log level")
	ErrInvalidSampleRate    = errors.New("sample rate must be positive")
	ErrInvalidChannels      = errors.New("channels must be 1 or 2")
	ErrInvalidInterpolation = errors.New("interpolation must be linear or cubic")
	ErrInvalidFormat        = errors.New("format must be f32le or s16le")
	ErrInvalidRingSize      = errors.New("ring must hold at least two chunks")
	ErrInvalidLookahead     = errors.New("low water mark must be below the lookahead")
	ErrInvalidBudget        = errors.New("decode budget and chunks per tick must not be negative")
)
