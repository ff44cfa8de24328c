// SPDX-License-Identifier: EPL-2.0

package mixer

import vecmath "github.com/cwbudde/algo-vecmath"

// FollowerWeight is the gain applied to every non-leading signal of a bus.
const FollowerWeight = 0.4

// LeaderSum folds same-role signals into dst: the loudest signal (by RMS,
// first one wins a tie) at full weight plus every other signal at
// FollowerWeight. It returns the leader's position in signals, or -1 when
// signals is empty, in which case dst is silence.
//
// dst is always fully overwritten; signals shorter than dst contribute
// silence past their end.
func LeaderSum(dst []float64, signals [][]float64) int {
	clear(dst)
	if len(signals) == 0 {
		return -1
	}

	leader, loudest := 0, RMS(signals[0])
	for i := 1; i < len(signals); i++ {
		if e := RMS(signals[i]); e > loudest {
			leader, loudest = i, e
		}
	}

	if len(dst) == 0 {
		return leader
	}

	// dst = FollowerWeight * sum(followers) + leader
	for i, s := range signals {
		if i == leader {
			continue
		}
		n := min(len(dst), len(s))
		vecmath.AddBlockInPlace(dst[:n], s[:n])
	}
	if len(signals) > 1 {
		vecmath.ScaleBlock(dst, dst, FollowerWeight)
	}

	s := signals[leader]
	n := min(len(dst), len(s))
	vecmath.AddBlockInPlace(dst[:n], s[:n])

	return leader
}
