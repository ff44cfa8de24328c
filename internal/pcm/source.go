// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer PCM decoders to audio.Source.
package pcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audmatrix/utils"
)

const defaultBufSize = 4096

var (
	ErrInvalidFormat       = errors.New("invalid PCM format")
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
)

// Reader is the part of the go-audio wav and aiff decoders a Source needs.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Supported reports whether bitDepth is a signed depth Source can normalize.
func Supported(bitDepth int) bool {
	switch bitDepth {
	case 16, 24, 32:
		return true
	default:
		return false
	}
}

// Source reads signed integer PCM through a Reader and normalizes it to
// float32 in [-1, 1).
type Source struct {
	r        Reader
	format   *goaudio.Format
	bitDepth int
	buf      *goaudio.IntBuffer
	done     bool
}

func NewSource(r Reader, format *goaudio.Format, bitDepth int) (*Source, error) {
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrInvalidFormat
	}
	if !Supported(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &Source{
		r:        r,
		format:   format,
		bitDepth: bitDepth,
	}, nil
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}

	return defaultBufSize
}

// ReadSamples fills dst with whole frames. A short read from the decoder
// ends the stream: the samples are returned together with io.EOF.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.format.NumChannels
	if want == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < want {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.r.PCMBuffer(s.buf)
	n = min(n, want)
	n -= n % s.format.NumChannels

	for i, v := range s.buf.Data[:n] {
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}

	switch {
	case err != nil && !errors.Is(err, io.EOF):
		s.done = true
		return n, fmt.Errorf("read pcm: %w", err)
	case err != nil, n < want:
		s.done = true
		return n, io.EOF
	}

	return n, nil
}
