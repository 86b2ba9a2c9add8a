// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// DBToVolume converts a gain in decibels to a linear volume. 0 dB is unity,
// -6 dB roughly halves the amplitude.
func DBToVolume(db float32) float32 {
	return float32(math.Pow(10, 0.05*float64(db)))
}

// VolumeToDB converts a linear volume to decibels. Silence maps to -Inf.
func VolumeToDB(volume float32) float32 {
	return float32(20 * math.Log10(float64(volume)))
}
