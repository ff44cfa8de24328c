// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"math"
)

const (
	DefaultSampleRate     = 48000
	DefaultBlockLength    = 1024
	DefaultThresholdDB    = -35.0
	DefaultAttackSeconds  = 0.05
	DefaultReleaseSeconds = 0.5
)

// ChannelConfig describes one microphone.
type ChannelConfig struct {
	Name  string
	Index int // position on the input block's channel axis
	Role  Role
	Gain  float64
}

// Config is the static configuration the engine is built from.
type Config struct {
	// Channels in canonical order; ties between equally loud channels of a
	// role go to the earlier one.
	Channels []ChannelConfig

	SampleRate  int
	BlockLength int

	ThresholdDB    float64
	AttackSeconds  float64
	ReleaseSeconds float64

	// InputChannels is the declared channel count of the input device.
	// Zero derives it from the highest channel index.
	InputChannels int
}

// DefaultConfig is the desk + wireless roster the hub ships with.
func DefaultConfig() Config {
	return Config{
		Channels: []ChannelConfig{
			{Name: "Main Station", Index: 0, Role: RoleStationary, Gain: 6.0},
			{Name: "Wireless Field", Index: 2, Role: RoleMobile, Gain: 3.0},
		},
		SampleRate:     DefaultSampleRate,
		BlockLength:    DefaultBlockLength,
		ThresholdDB:    DefaultThresholdDB,
		AttackSeconds:  DefaultAttackSeconds,
		ReleaseSeconds: DefaultReleaseSeconds,
	}
}

func invalid(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: "+format, append([]any{ErrInvalidConfig, err}, args...)...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports the first configuration error found.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return invalid(ErrInvalidSampleRate, "%d", c.SampleRate)
	}
	if c.BlockLength <= 0 {
		return invalid(ErrInvalidBlockLength, "%d", c.BlockLength)
	}
	if !finite(c.ThresholdDB) {
		return invalid(ErrInvalidThreshold, "%v", c.ThresholdDB)
	}
	if !finite(c.AttackSeconds) || c.AttackSeconds < 0 {
		return invalid(ErrInvalidTimeConstant, "attack %v", c.AttackSeconds)
	}
	if !finite(c.ReleaseSeconds) || c.ReleaseSeconds < 0 {
		return invalid(ErrInvalidTimeConstant, "release %v", c.ReleaseSeconds)
	}
	if c.InputChannels < 0 {
		return invalid(ErrInvalidInputChannels, "%d", c.InputChannels)
	}

	seen := make(map[string]struct{}, len(c.Channels))
	for _, ch := range c.Channels {
		if ch.Name == "" {
			return invalid(ErrEmptyChannelName, "index %d", ch.Index)
		}
		if _, dup := seen[ch.Name]; dup {
			return invalid(ErrDuplicateChannel, "%q", ch.Name)
		}
		seen[ch.Name] = struct{}{}

		if !ch.Role.Valid() {
			return invalid(ErrUnknownRole, "channel %q: %s", ch.Name, ch.Role)
		}
		if !finite(ch.Gain) || ch.Gain < 0 {
			return invalid(ErrInvalidGain, "channel %q: %v", ch.Name, ch.Gain)
		}
		if ch.Index < 0 {
			return invalid(ErrInvalidChannelIndex, "channel %q: index %d", ch.Name, ch.Index)
		}
		if c.InputChannels > 0 && ch.Index >= c.InputChannels {
			return invalid(ErrInvalidChannelIndex, "channel %q: index %d with %d input channels",
				ch.Name, ch.Index, c.InputChannels)
		}
	}

	return nil
}

// InputChannelCount is the declared input width, or one past the highest
// channel index when none is declared.
func (c Config) InputChannelCount() int {
	if c.InputChannels > 0 {
		return c.InputChannels
	}

	n := 1
	for _, ch := range c.Channels {
		n = max(n, ch.Index+1)
	}

	return n
}

// Threshold is the linear amplitude of ThresholdDB.
func (c Config) Threshold() float64 {
	return DBToLinear(c.ThresholdDB)
}

func (c Config) AttackCoefficient() float64 {
	return Coefficient(c.SampleRate, c.BlockLength, c.AttackSeconds)
}

func (c Config) ReleaseCoefficient() float64 {
	return Coefficient(c.SampleRate, c.BlockLength, c.ReleaseSeconds)
}

// BlockPeriod is the wall-clock length of one block in seconds, the
// processing deadline of the audio callback.
func (c Config) BlockPeriod() float64 {
	if c.SampleRate <= 0 {
		return 0
	}

	return float64(c.BlockLength) / float64(c.SampleRate)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
