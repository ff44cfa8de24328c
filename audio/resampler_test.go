// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmatrix/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, src Source, bufLen int) []float32 {
	t.Helper()

	buf := make([]float32, bufLen)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
	}
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 2, 1000)
	resampler := NewResampler(src, 48000)

	assert.Equal(t, 48000, resampler.SampleRate())
	assert.Equal(t, 2, resampler.Channels())
	assert.Equal(t, src.BufSize(), resampler.BufSize())
}

func TestResampler_SameRateKeepsValues(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(48000, 1, 100, 0.5)
	samples := drain(t, NewResampler(src, 48000), 64)

	assert.Len(t, samples, 100)
	for i, s := range samples {
		assert.InDelta(t, 0.5, s, 1e-6, "sample %d", i)
	}
}

func TestResampler_Downsampling(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(48000, 1, 48000, 440)
	samples := drain(t, NewResampler(src, 16000), 1024)

	assert.InDelta(t, 16000, len(samples), 10)
	for _, s := range samples {
		assert.True(t, s >= -1.5 && s <= 1.5)
	}
}

func TestResampler_Upsampling(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(8000, 1, 8000, 440)
	samples := drain(t, NewResampler(src, 48000), 1024)

	assert.InDelta(t, 48000, len(samples), 10)
}

func TestResampler_StereoPreserved(t *testing.T) {
	t.Parallel()

	src := audiotest.NewLevelSource(44100, 1000, 0.3, 0.7)
	samples := drain(t, NewResampler(src, 48000), 20)

	require.NotEmpty(t, samples)
	for f := 0; f+1 < len(samples); f += 2 {
		assert.InDelta(t, 0.3, samples[f], 0.01)
		assert.InDelta(t, 0.7, samples[f+1], 0.01)
	}
}

func TestResampler_LowPassSeededOnFirstFrame(t *testing.T) {
	t.Parallel()

	// a constant input must not ramp up from silence when downsampling
	src := audiotest.NewConstantSource(96000, 1, 960, 0.8)
	samples := drain(t, NewResampler(src, 48000), 16)

	require.NotEmpty(t, samples)
	assert.InDelta(t, 0.8, samples[0], 1e-6)
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(audiotest.NewSilentSource(44100, 2, 100), 48000)

	_, err := resampler.ReadSamples(make([]float32, 3))
	assert.ErrorIs(t, err, ErrInvalidDstSize)
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(audiotest.NewSilentSource(44100, 1, 0), 48000)

	n, err := resampler.ReadSamples(make([]float32, 8))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	resampler := NewResampler(&audiotest.ErrSource{Rate: 44100, Chan: 1, Err: boom}, 48000)

	_, err := resampler.ReadSamples(make([]float32, 8))
	assert.ErrorIs(t, err, boom)
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 1, 10)
	require.NoError(t, NewResampler(src, 48000).Close())
	assert.True(t, src.Closed())
}

func BenchmarkResampler_44kTo48k(b *testing.B) {
	src := audiotest.NewSineSource(44100, 2, 44100, 440)
	resampler := NewResampler(src, 48000)
	buf := make([]float32, 2048)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := resampler.ReadSamples(buf); err != nil {
			src.Reset()
			resampler = NewResampler(src, 48000)
		}
	}
}
