// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic sources for tests.
package audiotest

import (
	"io"
	"math"
)

// Waveform generates the sample for frame index and channel.
type Waveform func(frame, channel int) float32

// MockSource generates interleaved audio from a Waveform.
// It implements audio.Source (without importing it to avoid cycles).
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    Waveform
	closed      bool
}

// NewMockSource creates a source of totalFrames frames.
func NewMockSource(sampleRate, channels, totalFrames int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource creates a source of all zeros.
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalFrames, 0)
}

// NewConstantSource creates a source with the same value on every channel.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

// NewLevelSource holds each channel at its own constant level; channels
// beyond len(levels) are silent. A constant level v has RMS |v|.
func NewLevelSource(sampleRate, totalFrames int, levels ...float32) *MockSource {
	return NewMockSource(sampleRate, len(levels), totalFrames, func(_ int, channel int) float32 {
		return levels[channel]
	})
}

// NewSineSource creates a sine tone on every channel.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}

	m.generated += frames
	written := frames * m.channels

	if m.generated >= m.totalFrames {
		return written, io.EOF
	}

	return written, nil
}

// ErrSource fails every read with err.
type ErrSource struct {
	Rate int
	Chan int
	Err  error
}

func (e *ErrSource) SampleRate() int                    { return e.Rate }
func (e *ErrSource) Channels() int                      { return e.Chan }
func (e *ErrSource) BufSize() int                       { return 0 }
func (e *ErrSource) Close() error                       { return nil }
func (e *ErrSource) ReadSamples([]float32) (int, error) { return 0, e.Err }
