// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported sample format")
	ErrChannelMismatch   = errors.New("channel count mismatch")
)
