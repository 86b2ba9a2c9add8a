// SPDX-License-Identifier: EPL-2.0

package utils

// ClampUnit limits x to the representable float sample range [-1, 1].
func ClampUnit(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Clamp01 limits x to [0, 1]. Used for volumes and ratios.
func Clamp01(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < 0 {
		return 0
	}
	return x
}

// Float32ToInt16 clamps x and scales it to signed 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	// 32767 for both signs keeps the output symmetric and avoids overflow
	return int16(ClampUnit(x) * 32767.0)
}

// Int16ToFloat32 converts a signed 16-bit PCM sample to [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// IntToFloat32 normalizes an integer PCM sample of the given bit depth.
// Unknown depths are treated as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	var full float32
	switch bitDepth {
	case 8:
		full = 128.0
	case 24:
		full = 8388608.0
	case 32:
		full = 2147483648.0
	default:
		full = 32768.0
	}
	return float32(v) / full
}
