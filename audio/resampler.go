// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmatrix/utils"
)

// Resampler converts a Source to another sample rate with Catmull-Rom
// interpolation, preserving the channel count. When downsampling, incoming
// frames pass through a one-pole low-pass first.
type Resampler struct {
	src      Source
	rate     int
	step     float64 // source frames consumed per output frame
	channels int

	// hist[1] and hist[2] bracket the current position; hist[0] and hist[3]
	// are the outer taps.
	hist [4][]float32
	real [4]bool
	pos  float64

	primed bool
	srcEOF bool

	in         []float32
	inPos, inN int

	smooth float32
	state  []float32
	seeded bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	step := 1.0
	if dstRate > 0 {
		step = float64(src.SampleRate()) / float64(dstRate)
	}

	r := &Resampler{
		src:      src,
		rate:     dstRate,
		step:     step,
		channels: channels,
		in:       make([]float32, channels*512),
		state:    make([]float32, channels),
	}

	if step > 1 {
		r.smooth = float32(1 / step)
	}

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}

	return nil
}

// pull copies the next source frame into dst. ok is false once the source is
// exhausted.
func (r *Resampler) pull(dst []float32) (bool, error) {
	stalls := 0
	for r.inN-r.inPos < r.channels {
		if r.srcEOF {
			return false, nil
		}

		left := copy(r.in, r.in[r.inPos:r.inN])
		room := (len(r.in) - left) / r.channels * r.channels
		n, err := r.src.ReadSamples(r.in[left : left+room])
		r.inPos, r.inN = 0, left+n

		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("resampler: %w", err)
		}

		if n == 0 && !r.srcEOF {
			stalls++
			if stalls >= maxStalls {
				return false, io.ErrNoProgress
			}
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.smooth > 0 {
		if !r.seeded {
			// start the filter on the first frame so it does not ramp up from 0
			copy(r.state, dst)
			r.seeded = true
		}
		for c := range dst {
			r.state[c] += r.smooth * (dst[c] - r.state[c])
			dst[c] = r.state[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.pull(r.hist[1])
	if err != nil || !ok {
		return err
	}
	r.real[1] = true
	copy(r.hist[0], r.hist[1])

	for i := 2; i < 4; i++ {
		ok, err := r.pull(r.hist[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
			continue
		}
		r.real[i] = true
	}

	return nil
}

func (r *Resampler) advance() error {
	first := r.hist[0]
	copy(r.hist[:3], r.hist[1:])
	r.hist[3] = first
	copy(r.real[:3], r.real[1:])

	ok, err := r.pull(r.hist[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
	}
	r.real[3] = ok

	return nil
}

// ReadSamples produces interleaved samples at the target rate.
// dst length must be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.real[1] || (!r.real[2] && r.pos > 0) {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
