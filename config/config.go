// SPDX-License-Identifier: EPL-2.0

// Package config loads the hub's YAML profile: the microphone roster, the
// engine timing and where audio comes from and goes to.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/audmatrix/mixer"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputChannels    = 2
	DefaultDashboardInterval = 100 * time.Millisecond
)

var (
	ErrInvalidFile = errors.New("invalid configuration file")
	ErrNoChannels  = errors.New("configuration has no channels")
)

// File is the on-disk profile.
type File struct {
	Engine    Engine    `yaml:"engine"`
	Device    Device    `yaml:"device"`
	Dashboard Dashboard `yaml:"dashboard"`
	Channels  []Channel `yaml:"channels"`
}

type Engine struct {
	SampleRate     int     `yaml:"sample_rate"`
	BlockLength    int     `yaml:"block_length"`
	ThresholdDB    float64 `yaml:"threshold_db"`
	AttackSeconds  float64 `yaml:"attack_seconds"`
	ReleaseSeconds float64 `yaml:"release_seconds"`
	// 0 derives the input width from the highest channel index.
	InputChannels int `yaml:"input_channels"`
}

// Device names the input recording and the output file. An empty output
// discards the mix.
type Device struct {
	Input          string `yaml:"input"`
	Output         string `yaml:"output"`
	OutputChannels int    `yaml:"output_channels"`
	Realtime       bool   `yaml:"realtime"`
}

type Dashboard struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Channel is one microphone. Role accepts the role names and the desk,
// field and wireless aliases. A missing gain means unity.
type Channel struct {
	Name  string   `yaml:"name"`
	Index int      `yaml:"index"`
	Role  string   `yaml:"role"`
	Gain  *float64 `yaml:"gain"`
}

// Default is the desk + wireless roster at 48 kHz.
func Default() *File {
	engine := mixer.DefaultConfig()

	f := &File{
		Engine: Engine{
			SampleRate:     engine.SampleRate,
			BlockLength:    engine.BlockLength,
			ThresholdDB:    engine.ThresholdDB,
			AttackSeconds:  engine.AttackSeconds,
			ReleaseSeconds: engine.ReleaseSeconds,
			InputChannels:  engine.InputChannels,
		},
		Device: Device{
			OutputChannels: DefaultOutputChannels,
		},
		Dashboard: Dashboard{
			Interval: DefaultDashboardInterval,
		},
	}

	for _, ch := range engine.Channels {
		gain := ch.Gain
		f.Channels = append(f.Channels, Channel{
			Name:  ch.Name,
			Index: ch.Index,
			Role:  ch.Role.Location(),
			Gain:  &gain,
		})
	}

	return f
}

// Load reads and parses the profile at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "config.Load",
		"path":     path,
		"channels": len(f.Channels),
	}).Info("Configuration loaded")

	return f, nil
}

// Parse decodes a profile on top of Default. Unknown keys are rejected.
// Scalars that are absent keep their defaults; a channels list replaces
// the default roster.
func Parse(data []byte) (*File, error) {
	f := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// Validate checks the parts of the file the engine does not see and then
// the engine configuration itself.
func (f *File) Validate() error {
	if len(f.Channels) == 0 {
		return ErrNoChannels
	}
	if f.Device.OutputChannels <= 0 {
		return fmt.Errorf("%w: output_channels %d", ErrInvalidFile, f.Device.OutputChannels)
	}
	if f.Dashboard.Interval <= 0 {
		return fmt.Errorf("%w: dashboard interval %s", ErrInvalidFile, f.Dashboard.Interval)
	}

	cfg, err := f.EngineConfig()
	if err != nil {
		return err
	}

	return cfg.Validate()
}

// EngineConfig converts the file to a mixer.Config, keeping channel order.
func (f *File) EngineConfig() (mixer.Config, error) {
	cfg := mixer.Config{
		SampleRate:     f.Engine.SampleRate,
		BlockLength:    f.Engine.BlockLength,
		ThresholdDB:    f.Engine.ThresholdDB,
		AttackSeconds:  f.Engine.AttackSeconds,
		ReleaseSeconds: f.Engine.ReleaseSeconds,
		InputChannels:  f.Engine.InputChannels,
		Channels:       make([]mixer.ChannelConfig, 0, len(f.Channels)),
	}

	for _, ch := range f.Channels {
		role, err := mixer.ParseRole(ch.Role)
		if err != nil {
			return mixer.Config{}, fmt.Errorf("%w: channel %q: %w", mixer.ErrInvalidConfig, ch.Name, err)
		}

		gain := 1.0
		if ch.Gain != nil {
			gain = *ch.Gain
		}

		cfg.Channels = append(cfg.Channels, mixer.ChannelConfig{
			Name:  ch.Name,
			Index: ch.Index,
			Role:  role,
			Gain:  gain,
		})
	}

	return cfg, nil
}
