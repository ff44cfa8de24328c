// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeAIFF encodes interleaved samples with the go-audio encoder and
// returns the file contents.
func writeAIFF(t *testing.T, sampleRate, channels, bitDepth int, samples []int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.aiff")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := aiff.NewEncoder(f, sampleRate, bitDepth, channels)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return data
}

func TestDecoder_Stereo16(t *testing.T) {
	t.Parallel()

	data := writeAIFF(t, 44100, 2, 16, []int{0, 16384, -16384, -32768})

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 44100, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	var got []float32
	buf := make([]float32, 8)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, []float32{0, 0.5, -0.5, -1}, got)
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := writeAIFF(t, 8000, 1, 16, []int{100, 200, 300})

	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	require.NoError(t, err)
	assert.Equal(t, 8000, src.SampleRate())
	assert.Equal(t, 1, src.Channels())
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"garbage": []byte("This is not AIFF data"),
		"empty":   {},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, err := Decoder{}.Decode(bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrNotAiffFile)
			assert.Nil(t, src)
		})
	}
}
