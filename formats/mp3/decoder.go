// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audmatrix/audio"
)

const (
	// go-mp3 always produces 16-bit little endian stereo.
	channels   = 2
	frameBytes = channels * 2
)

var ErrNotMP3File = errors.New("not an MP3 stream")

// mp3Reader is the part of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	// bytes of an incomplete frame kept at the start of buf
	carry int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// ReadSamples returns whole stereo frames only; a trailing partial frame
// from the decoder is held back until the next call.
func (s *source) ReadSamples(dst []float32) (int, error) {
	need := len(dst) / channels * frameBytes
	if need == 0 {
		return 0, nil
	}

	if cap(s.buf) < need {
		buf := make([]byte, need)
		copy(buf, s.buf[:s.carry])
		s.buf = buf
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.carry:])
	n += s.carry
	whole := n - n%frameBytes

	samples := whole / 2
	for i := range samples {
		v := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(v) / 32768
	}
	s.carry = copy(s.buf, s.buf[whole:n])

	switch {
	case errors.Is(err, io.EOF):
		return samples, io.EOF
	case err != nil:
		return samples, fmt.Errorf("read mp3: %w", err)
	}

	return samples, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
