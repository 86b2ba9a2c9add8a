// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// PanGains returns the left and right gains for a pan position in [-1, 1]
// using a square-root (constant power) crossfade. -1 is hard left,
// 0 is center, 1 is hard right.
func PanGains(pan float32) (left, right float32) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	percent := 0.5 * (pan + 1) // [-1,1] -> [0,1]
	left = float32(math.Sqrt(float64(1 - percent)))
	right = float32(math.Sqrt(float64(percent)))
	return left, right
}

// BalanceGains returns channel gains for a stereo balance in [-1, 1].
// Unlike PanGains the centered position leaves both channels at unity.
func BalanceGains(balance float32) (left, right float32) {
	if balance < -1 {
		balance = -1
	} else if balance > 1 {
		balance = 1
	}
	left, right = 1, 1
	if balance > 0 {
		left = 1 - balance
	} else if balance < 0 {
		right = 1 + balance
	}
	return left, right
}
