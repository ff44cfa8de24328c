// SPDX-License-Identifier: EPL-2.0

package mixer

import "math"

// Coefficient discretizes a time constant (seconds) into a one-pole
// smoothing coefficient evaluated once per block:
//
//	1 - exp(-1 / (sampleRate * tc / blockLength))
//
// The step is a block, not a sample, so the result only approximates a
// per-sample exponential and depends on the block length. A zero (or
// otherwise degenerate) time constant gives 1, an instant jump.
func Coefficient(sampleRate, blockLength int, tc float64) float64 {
	if sampleRate <= 0 || blockLength <= 0 || !(tc > 0) {
		return 1
	}

	blocks := float64(sampleRate) * tc / float64(blockLength)

	return 1 - math.Exp(-1/blocks)
}

// Envelope follows whether the stationary peak energy is above the
// threshold, rising with the attack coefficient and falling with the
// release coefficient. Level is always in [0, 1].
type Envelope struct {
	level     float64
	threshold float64
	attack    float64
	release   float64
}

func NewEnvelope(threshold, attack, release float64) *Envelope {
	return &Envelope{
		threshold: max(threshold, 0),
		attack:    clamp01(attack),
		release:   clamp01(release),
	}
}

// Update advances one block with the block's stationary peak energy and
// returns the new level.
func (e *Envelope) Update(peak float64) float64 {
	target := 0.0
	if peak > e.threshold {
		target = 1.0
	}

	coef := e.release
	if target > e.level {
		coef = e.attack
	}

	e.level = clamp01(e.level + (target-e.level)*coef)

	return e.level
}

func (e *Envelope) Level() float64     { return e.level }
func (e *Envelope) Threshold() float64 { return e.threshold }
func (e *Envelope) Attack() float64    { return e.attack }
func (e *Envelope) Release() float64   { return e.release }

func (e *Envelope) Reset() {
	e.level = 0
}

func clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	default:
		// negative or NaN
		return 0
	}
}
