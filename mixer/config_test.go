// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.InputChannelCount())
	assert.InDelta(t, 1024.0/48000.0, cfg.BlockPeriod(), 1e-12)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, ErrInvalidSampleRate},
		{"negative block length", func(c *Config) { c.BlockLength = -1 }, ErrInvalidBlockLength},
		{"nan threshold", func(c *Config) { c.ThresholdDB = math.NaN() }, ErrInvalidThreshold},
		{"negative attack", func(c *Config) { c.AttackSeconds = -0.1 }, ErrInvalidTimeConstant},
		{"infinite release", func(c *Config) { c.ReleaseSeconds = math.Inf(1) }, ErrInvalidTimeConstant},
		{"negative input channels", func(c *Config) { c.InputChannels = -2 }, ErrInvalidInputChannels},
		{"index beyond declared inputs", func(c *Config) { c.InputChannels = 2 }, ErrInvalidChannelIndex},
		{"negative index", func(c *Config) { c.Channels[0].Index = -1 }, ErrInvalidChannelIndex},
		{"negative gain", func(c *Config) { c.Channels[1].Gain = -3 }, ErrInvalidGain},
		{"nan gain", func(c *Config) { c.Channels[1].Gain = math.NaN() }, ErrInvalidGain},
		{"unknown role", func(c *Config) { c.Channels[0].Role = 0 }, ErrUnknownRole},
		{"empty name", func(c *Config) { c.Channels[0].Name = "" }, ErrEmptyChannelName},
		{"duplicate name", func(c *Config) { c.Channels[1].Name = c.Channels[0].Name }, ErrDuplicateChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfig_ZeroTimeConstantsAllowed(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.AttackSeconds = 0
	cfg.ReleaseSeconds = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.AttackCoefficient())
	assert.Equal(t, 1.0, cfg.ReleaseCoefficient())
}

func TestConfig_EmptyRosterIsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Channels = nil
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.InputChannelCount())
}

func TestConfig_DerivedConstants(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	// -35 dB
	assert.InDelta(t, 0.0177828, cfg.Threshold(), 1e-6)
	// 1 - exp(-1 / (48000 * 0.05 / 1024))
	assert.InDelta(t, 0.347319, cfg.AttackCoefficient(), 1e-5)
	// 1 - exp(-1 / (48000 * 0.5 / 1024))
	assert.InDelta(t, 0.041769, cfg.ReleaseCoefficient(), 1e-5)

	assert.Greater(t, cfg.AttackCoefficient(), cfg.ReleaseCoefficient())
}

func TestConfig_DeclaredInputChannels(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InputChannels = 4
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.InputChannelCount())
}

func TestDBToLinear(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, DBToLinear(0), 1e-12)
	assert.InDelta(t, 0.1, DBToLinear(-20), 1e-12)
	assert.InDelta(t, 0.5011872, DBToLinear(-6), 1e-6)
}
