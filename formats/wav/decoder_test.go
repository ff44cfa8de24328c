// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createWAVFile builds a canonical 44-byte-header WAV around raw sample data.
func createWAVFile(sampleRate, channels, bitsPerSample, formatTag int, data []byte) []byte {
	buf := new(bytes.Buffer)

	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(formatTag))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

func pcm16(samples ...int16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

func readAll(t *testing.T, src interface {
	ReadSamples([]float32) (int, error)
}) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 4)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
}

func TestDecoder_Mono16(t *testing.T) {
	t.Parallel()

	data := createWAVFile(8000, 1, 16, formatPCM, pcm16(0, 16384, -16384, -32768))
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 8000, src.SampleRate())
	assert.Equal(t, 1, src.Channels())
	assert.Equal(t, []float32{0, 0.5, -0.5, -1}, readAll(t, src))
}

func TestDecoder_MultiChannel(t *testing.T) {
	t.Parallel()

	// three channel frames, as a desk + alarm + wireless recording
	data := createWAVFile(48000, 3, 16, formatPCM, pcm16(
		3277, 0, 16384,
		-3277, 0, -16384,
	))
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, src.Channels())

	samples := readAll(t, src)
	require.Len(t, samples, 6)
	assert.InDelta(t, 0.1, samples[0], 1e-4)
	assert.InDelta(t, 0.5, samples[2], 1e-6)
	assert.InDelta(t, -0.5, samples[5], 1e-6)
}

func TestDecoder_24Bit(t *testing.T) {
	t.Parallel()

	// 0x400000 (0.5) and 0x800000 (-1), little endian
	data := createWAVFile(44100, 1, 24, formatPCM, []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0x80})
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []float32{0.5, -1}, readAll(t, src))
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := createWAVFile(16000, 2, 16, formatPCM, pcm16(100, 200, 300, 400))
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	require.NoError(t, err)

	assert.Equal(t, 16000, src.SampleRate())
	assert.Len(t, readAll(t, src), 4)
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "not RIFF",
			data:    []byte(strings.Repeat("x", 64)),
			wantErr: ErrNotWavFile,
		},
		{
			name:    "truncated",
			data:    []byte("RIFF"),
			wantErr: ErrNotWavFile,
		},
		{
			name:    "float encoding",
			data:    createWAVFile(8000, 1, 32, 3, make([]byte, 16)),
			wantErr: ErrUnsupportedEncoding,
		},
		{
			name:    "8 bit",
			data:    createWAVFile(8000, 1, 8, formatPCM, []byte{128, 129, 127, 128}),
			wantErr: ErrUnsupportedBitDepth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, src)
		})
	}
}

func BenchmarkDecoder(b *testing.B) {
	samples := make([]int16, 48000*2)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}
	data := createWAVFile(48000, 2, 16, formatPCM, pcm16(samples...))
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
