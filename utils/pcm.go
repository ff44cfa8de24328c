// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FullScale is the magnitude of the most negative signed sample at bitDepth.
// Unknown depths fall back to 16-bit.
func FullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

// IntToFloat32 normalizes a signed PCM sample to [-1, 1).
func IntToFloat32(v, bitDepth int) float32 {
	return float32(float64(v) / FullScale(bitDepth))
}

// FloatToInt clamps x to [-1, 1] and scales it to a signed PCM sample.
// Positive full scale maps to the largest positive value to avoid overflow.
// NaN maps to 0.
func FloatToInt(x float64, bitDepth int) int {
	if math.IsNaN(x) {
		return 0
	}

	x = max(-1, min(1, x))
	fs := FullScale(bitDepth)
	if x < 0 {
		return int(math.Round(x * fs))
	}

	return int(math.Round(x * (fs - 1)))
}
