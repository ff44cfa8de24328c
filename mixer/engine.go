// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"runtime"
	"sync/atomic"

	"github.com/ik5/audmatrix/audio"
	"github.com/sirupsen/logrus"
)

// snapshotRetries bounds how often Snapshot re-reads while a block is being
// published before it settles for what it has.
const snapshotRetries = 8

// Engine is the per-block mixing engine. Process is meant to be called from a
// single audio goroutine; the read accessors (Level, Energy, Blocks,
// Snapshot) may be called from any goroutine at the same time.
type Engine struct {
	cfg       Config
	channels  []*Channel
	envelope  *Envelope
	threshold float64

	frames  int
	signals [][]float64
	// per-role views into signals, in canonical channel order
	byRole [roleCount][][]float64
	buses  [roleCount][]float64
	mixed  []float64

	level atomic.Uint64
	// seq is odd while a block is in flight.
	seq atomic.Uint64
}

// New validates cfg and builds an engine with all per-block buffers sized to
// cfg.BlockLength.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "mixer.New",
			"error":    err.Error(),
		}).Error("Mixer configuration rejected")
		return nil, err
	}

	cfg.Channels = append([]ChannelConfig(nil), cfg.Channels...)

	e := &Engine{
		cfg:       cfg,
		threshold: cfg.Threshold(),
		channels:  make([]*Channel, len(cfg.Channels)),
	}
	e.envelope = NewEnvelope(e.threshold, cfg.AttackCoefficient(), cfg.ReleaseCoefficient())

	perRole := [roleCount]int{}
	for i, cc := range cfg.Channels {
		e.channels[i] = NewChannel(cc)
		perRole[cc.Role]++
	}

	e.resize(cfg.BlockLength)

	if perRole[RoleStationary] == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "mixer.New",
		}).Warn("No stationary channel configured, priority level will stay at 0")
	}
	if perRole[RoleSafety] == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "mixer.New",
		}).Debug("No safety channel configured")
	}

	logrus.WithFields(logrus.Fields{
		"function":       "mixer.New",
		"channels":       len(e.channels),
		"stationary":     perRole[RoleStationary],
		"mobile":         perRole[RoleMobile],
		"safety":         perRole[RoleSafety],
		"sample_rate":    cfg.SampleRate,
		"block_length":   cfg.BlockLength,
		"threshold_db":   cfg.ThresholdDB,
		"threshold_lin":  e.threshold,
		"attack_coeff":   e.envelope.Attack(),
		"release_coeff":  e.envelope.Release(),
		"input_channels": cfg.InputChannelCount(),
	}).Info("Mixing engine created")

	return e, nil
}

// resize (re)allocates the scratch buffers for a block of the given frame
// count and rebuilds the per-role views.
func (e *Engine) resize(frames int) {
	e.frames = frames
	e.signals = make([][]float64, len(e.channels))
	for r := range e.byRole {
		e.byRole[r] = e.byRole[r][:0]
	}

	for i, ch := range e.channels {
		e.signals[i] = make([]float64, frames)
		e.byRole[ch.Role()] = append(e.byRole[ch.Role()], e.signals[i])
	}

	for _, r := range roles {
		e.buses[r] = make([]float64, frames)
	}
	e.mixed = make([]float64, frames)
}

// Process mixes one input block into out. It never fails: missing channels
// and empty buses are silent, and every output channel receives the same
// clipped mono mix. out frames beyond the input length are zeroed.
//
// The input frame count is expected to stay at the configured block length;
// a different length is accepted but costs a reallocation.
func (e *Engine) Process(in, out *audio.Block) {
	e.seq.Add(1)
	defer e.seq.Add(1)

	frames := e.frames
	switch {
	case in != nil:
		frames = in.Frames()
	case out != nil:
		frames = out.Frames()
	}
	if frames != e.frames {
		e.resize(frames)
	}

	peak := 0.0
	for i, ch := range e.channels {
		energy := ch.ExtractSignal(in, e.signals[i])
		if ch.Role() == RoleStationary && energy > peak {
			peak = energy
		}
	}

	for _, r := range roles {
		LeaderSum(e.buses[r], e.byRole[r])
	}

	level := e.envelope.Update(peak)
	e.level.Store(math.Float64bits(level))

	Compose(e.mixed, e.buses[RoleStationary], e.buses[RoleMobile], e.buses[RoleSafety], level)

	if out == nil {
		return
	}

	data := out.Data()
	stride := out.Channels()
	n := min(frames, out.Frames())
	for f := range n {
		v := e.mixed[f]
		row := data[f*stride : (f+1)*stride]
		for c := range row {
			row[c] = v
		}
	}
	clear(data[n*stride:])
}

// Reset drops the priority level back to 0. Not safe to call concurrently
// with Process.
func (e *Engine) Reset() {
	e.envelope.Reset()
	e.level.Store(0)
}

// Level is the priority level published by the last processed block.
func (e *Engine) Level() float64 {
	return math.Float64frombits(e.level.Load())
}

func (e *Engine) Mode() Mode {
	return ModeFor(e.Level())
}

// Energy is the last RMS energy of channel i (canonical order), 0 when i is
// out of range.
func (e *Engine) Energy(i int) float64 {
	if i < 0 || i >= len(e.channels) {
		return 0
	}

	return e.channels[i].Energy()
}

// Blocks is the number of blocks processed so far.
func (e *Engine) Blocks() uint64 {
	return e.seq.Load() / 2
}

// Channels returns the engine's channels in canonical order. Their static
// attributes and Energy are safe to read concurrently.
func (e *Engine) Channels() []*Channel {
	return e.channels
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.Channels = append([]ChannelConfig(nil), e.cfg.Channels...)

	return cfg
}

func (e *Engine) Threshold() float64 { return e.threshold }

// ChannelLevel is a telemetry view of one channel.
type ChannelLevel struct {
	Name   string
	Role   Role
	Index  int
	Gain   float64
	Energy float64
}

// Snapshot is a telemetry view of the engine after a block.
type Snapshot struct {
	Level     float64
	Mode      Mode
	Threshold float64
	Blocks    uint64
	Channels  []ChannelLevel
}

// Snapshot copies the published values. It retries while a block is in
// flight so that energies and level normally come from the same block; it
// never blocks the audio goroutine.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Threshold: e.threshold,
		Channels:  make([]ChannelLevel, len(e.channels)),
	}

	for attempt := range snapshotRetries {
		before := e.seq.Load()
		if before%2 == 1 && attempt < snapshotRetries-1 {
			runtime.Gosched()
			continue
		}

		s.Level = e.Level()
		for i, ch := range e.channels {
			s.Channels[i] = ChannelLevel{
				Name:   ch.Name(),
				Role:   ch.Role(),
				Index:  ch.Index(),
				Gain:   ch.Gain(),
				Energy: ch.Energy(),
			}
		}
		s.Blocks = before / 2

		if e.seq.Load() == before {
			break
		}
	}

	s.Mode = ModeFor(s.Level)

	return s
}
