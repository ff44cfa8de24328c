// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audmatrix/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mix.wav")
	w, err := Create(path, 48000, 2)
	require.NoError(t, err)

	block := audio.NewBlock(4, 2)
	for f, v := range []float64{0.5, -0.5, 0.9, 2} {
		block.Set(f, 0, v)
		block.Set(f, 1, v)
	}

	require.NoError(t, w.WriteBlock(block))
	require.NoError(t, w.WriteBlock(block))
	assert.Equal(t, 8, w.Frames())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	src, err := Decoder{}.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 48000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	samples := readAll(t, src)
	require.Len(t, samples, 16)
	assert.InDelta(t, 0.5, samples[0], 1e-4)
	assert.InDelta(t, 0.5, samples[1], 1e-4)
	assert.InDelta(t, -0.5, samples[2], 1e-4)
	assert.InDelta(t, 0.9, samples[4], 1e-4)
	// clamped to full scale
	assert.InDelta(t, 1, samples[6], 1e-4)
}

func TestWriter_ShapeMismatch(t *testing.T) {
	t.Parallel()

	w, err := Create(filepath.Join(t.TempDir(), "mix.wav"), 8000, 2)
	require.NoError(t, err)
	defer w.Close()

	err = w.WriteBlock(audio.NewBlock(4, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestWriter_WriteAfterClose(t *testing.T) {
	t.Parallel()

	w, err := Create(filepath.Join(t.TempDir(), "mix.wav"), 8000, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.WriteBlock(audio.NewBlock(4, 1)), ErrWriterClosed)
}

func TestWriter_InvalidSettings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mix.wav")
	_, err := Create(path, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidWriterSettings)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	_, err = Create(filepath.Join(t.TempDir(), "missing", "mix.wav"), 8000, 2)
	assert.Error(t, err)
}
