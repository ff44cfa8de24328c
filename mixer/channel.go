// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"sync/atomic"

	"github.com/ik5/audmatrix/audio"
)

// Channel is one microphone: where it sits on the input block, what bus it
// feeds and the gain applied before anything else looks at it.
type Channel struct {
	name  string
	index int
	role  Role
	gain  float64

	// RMS of the last extracted signal, as float64 bits.
	energy atomic.Uint64
}

func NewChannel(cfg ChannelConfig) *Channel {
	return &Channel{
		name:  cfg.Name,
		index: cfg.Index,
		role:  cfg.Role,
		gain:  max(cfg.Gain, 0),
	}
}

func (c *Channel) Name() string  { return c.name }
func (c *Channel) Index() int    { return c.index }
func (c *Channel) Role() Role    { return c.role }
func (c *Channel) Gain() float64 { return c.gain }

// Energy is the RMS computed by the most recent ExtractSignal. Safe to call
// from any goroutine.
func (c *Channel) Energy() float64 {
	return math.Float64frombits(c.energy.Load())
}

// ExtractSignal writes the channel's gained samples into dst and returns
// their RMS energy, which is also stored for Energy.
//
// A channel whose index is not present on in yields silence and energy 0.
// Non-finite input samples are read as 0. Frames beyond the input length
// are zeroed.
func (c *Channel) ExtractSignal(in *audio.Block, dst []float64) float64 {
	if in == nil || c.index < 0 || c.index >= in.Channels() {
		clear(dst)
		c.energy.Store(0)
		return 0
	}

	n := min(len(dst), in.Frames())
	clear(dst[n:])
	if n == 0 {
		c.energy.Store(0)
		return 0
	}

	data := in.Data()
	stride := in.Channels()
	var sum float64
	for i := range n {
		v := data[i*stride+c.index]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		s := v * c.gain
		dst[i] = s
		sum += s * s
	}

	energy := math.Sqrt(sum / float64(n))
	c.energy.Store(math.Float64bits(energy))

	return energy
}

// RMS is the root-mean-square of x, 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var sum float64
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(x)))
}
