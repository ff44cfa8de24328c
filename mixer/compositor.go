// SPDX-License-Identifier: EPL-2.0

package mixer

import "math"

// ClipLimit bounds every output sample to [-ClipLimit, ClipLimit].
const ClipLimit = 0.9

// Gains returns the crossfade gains for a priority level: the stationary bus
// follows the level linearly while the mobile bus falls off with the square
// of its complement, so it is mostly gone before the desk is fully up.
func Gains(level float64) (stationary, mobile float64) {
	p := clamp01(level)
	q := 1 - p

	return p, q * q
}

// Compose writes the final mono mix into dst:
//
//	clip(stationary*gS + mobile*gM + safety)
//
// The safety bus is always summed at unit gain. Buses shorter than dst are
// silent past their end.
func Compose(dst, stationary, mobile, safety []float64, level float64) {
	gs, gm := Gains(level)

	for i := range dst {
		var v float64
		if i < len(stationary) {
			v += stationary[i] * gs
		}
		if i < len(mobile) {
			v += mobile[i] * gm
		}
		if i < len(safety) {
			v += safety[i]
		}
		dst[i] = Clip(v)
	}
}

// Clip bounds v to [-ClipLimit, ClipLimit]; NaN becomes 0.
func Clip(v float64) float64 {
	switch {
	case v > ClipLimit:
		return ClipLimit
	case v < -ClipLimit:
		return -ClipLimit
	case math.IsNaN(v):
		return 0
	default:
		return v
	}
}

// Mode is a display label derived from the priority level. It carries no
// control-flow weight; all gain math is continuous.
type Mode uint8

const (
	ModeFieldActive Mode = iota
	ModeStationaryPriority
)

func ModeFor(level float64) Mode {
	if level > 0.5 {
		return ModeStationaryPriority
	}

	return ModeFieldActive
}

func (m Mode) String() string {
	if m == ModeStationaryPriority {
		return "STATIONARY PRIORITY"
	}

	return "FIELD ACTIVE"
}
