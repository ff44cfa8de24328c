// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMP3Reader serves 16-bit stereo PCM in chunks of at most chunk bytes,
// which need not be frame aligned.
type mockMP3Reader struct {
	data  []byte
	chunk int
	err   error
}

func newMockReader(chunk int, samples ...int16) *mockMP3Reader {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, samples)

	return &mockMP3Reader{data: buf.Bytes(), chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int { return 44100 }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(m.data) == 0 {
		return 0, io.EOF
	}

	n := copy(p[:min(len(p), m.chunk)], m.data)
	m.data = m.data[n:]

	return n, nil
}

func readAll(t *testing.T, s *source, size int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, size)
	for range 1000 {
		n, err := s.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
	t.Fatal("source never reached EOF")

	return nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	s := &source{dec: newMockReader(1024, 0, 16384, -16384, -32768), sampleRate: 44100}

	assert.Equal(t, 44100, s.SampleRate())
	assert.Equal(t, 2, s.Channels())
	assert.Equal(t, []float32{0, 0.5, -0.5, -1}, readAll(t, s, 8))
}

func TestSource_UnalignedChunks(t *testing.T) {
	t.Parallel()

	samples := []int16{1000, -1000, 2000, -2000, 3000, -3000, 4000, -4000}
	want := make([]float32, len(samples))
	for i, v := range samples {
		want[i] = float32(v) / 32768
	}

	for _, chunk := range []int{1, 3, 5, 7} {
		s := &source{dec: newMockReader(chunk, samples...), sampleRate: 44100}
		assert.Equal(t, want, readAll(t, s, 4), "chunk %d", chunk)
	}
}

func TestSource_SmallDestination(t *testing.T) {
	t.Parallel()

	s := &source{dec: newMockReader(64, 1, 2), sampleRate: 44100}

	n, err := s.ReadSamples(make([]float32, 1))
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	s := &source{dec: &mockMP3Reader{err: boom}, sampleRate: 44100}

	_, err := s.ReadSamples(make([]float32, 8))
	assert.ErrorIs(t, err, boom)
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"garbage": []byte("not an mp3 at all"),
		"empty":   {},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, err := Decoder{}.Decode(bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrNotMP3File)
			assert.Nil(t, src)
		})
	}
}
