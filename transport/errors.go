// SPDX-License-Identifier: EPL-2.0

package transport

import "errors"

var (
	ErrInvalidChannels = errors.New("ring needs at least one channel")
	ErrInvalidCapacity = errors.New("ring capacity must be positive")
)
