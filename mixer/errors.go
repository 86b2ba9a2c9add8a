// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSource   = errors.New("unknown audio source")
	ErrDuplicateSource = errors.New("audio source already registered")
	ErrInvalidRate     = errors.New("render sample rate must be positive")
	ErrInvalidChannels = errors.New("render channels must be 1 or 2")
	ErrNilClip         = errors.New("clip must not be nil")
)

// StreamError is a diagnostic raised on the render side for one stream.
// The stream it names has already been finished.
type StreamError struct {
	Handle Handle
	Source SourceID
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream %d (%s): %v", e.Handle, e.Source, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
