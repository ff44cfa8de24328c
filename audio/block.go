// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Block is one processing tick: a fixed number of frames of interleaved
// float64 samples. Frame and channel counts do not change after creation.
type Block struct {
	data     []float64
	frames   int
	channels int
}

// NewBlock allocates a zeroed block. Negative sizes are treated as zero.
func NewBlock(frames, channels int) *Block {
	frames = max(frames, 0)
	channels = max(channels, 0)

	return &Block{
		data:     make([]float64, frames*channels),
		frames:   frames,
		channels: channels,
	}
}

func (b *Block) Frames() int   { return b.frames }
func (b *Block) Channels() int { return b.channels }

// Data exposes the interleaved samples, frame-major.
func (b *Block) Data() []float64 { return b.data }

// At returns the sample at (frame, channel), or 0 when either index is out
// of range.
func (b *Block) At(frame, channel int) float64 {
	if frame < 0 || frame >= b.frames || channel < 0 || channel >= b.channels {
		return 0
	}

	return b.data[frame*b.channels+channel]
}

// Set writes the sample at (frame, channel). Out of range writes are dropped.
func (b *Block) Set(frame, channel int, v float64) {
	if frame < 0 || frame >= b.frames || channel < 0 || channel >= b.channels {
		return
	}

	b.data[frame*b.channels+channel] = v
}

// Head returns a view of the first n frames sharing b's samples, or b itself
// when n covers the whole block.
func (b *Block) Head(n int) *Block {
	n = max(n, 0)
	if n >= b.frames {
		return b
	}

	return &Block{
		data:     b.data[:n*b.channels],
		frames:   n,
		channels: b.channels,
	}
}

func (b *Block) Zero() {
	clear(b.data)
}

// maxStalls bounds how many consecutive empty reads a source may return
// before the reader gives up.
const maxStalls = 64

// BlockReader slices a Source into fixed-size Blocks. A single request to
// the source never asks for more than its BufSize, rounded to whole frames.
type BlockReader struct {
	src      Source
	frames   int
	channels int
	buf      []float32
	// chunk caps a single ReadSamples request, 0 means the whole block.
	chunk int
	eof   bool
}

func NewBlockReader(src Source, frames int) (*BlockReader, error) {
	if frames <= 0 {
		return nil, ErrInvalidBlockSize
	}

	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("source reports %d channels: %w", channels, ErrBlockShape)
	}

	chunk := 0
	if size := src.BufSize(); size > 0 {
		chunk = max(size/channels, 1) * channels
	}

	return &BlockReader{
		src:      src,
		frames:   frames,
		channels: channels,
		buf:      make([]float32, frames*channels),
		chunk:    chunk,
	}, nil
}

// Frames is the block length produced by the reader.
func (r *BlockReader) Frames() int   { return r.frames }
func (r *BlockReader) Channels() int { return r.channels }

// ReadBlock fills dst with the next block. A short final block is zero padded
// and reported with its real frame count; the call after it returns io.EOF.
func (r *BlockReader) ReadBlock(dst *Block) (int, error) {
	if dst.Frames() != r.frames || dst.Channels() != r.channels {
		return 0, fmt.Errorf("got %dx%d, want %dx%d: %w",
			dst.Frames(), dst.Channels(), r.frames, r.channels, ErrBlockShape)
	}

	if r.eof {
		return 0, io.EOF
	}

	filled := 0
	stalls := 0
	for filled < len(r.buf) {
		end := len(r.buf)
		if r.chunk > 0 {
			end = min(filled+r.chunk, end)
		}

		n, err := r.src.ReadSamples(r.buf[filled:end])
		filled += n

		if errors.Is(err, io.EOF) {
			r.eof = true
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read block: %w", err)
		}

		if n == 0 {
			stalls++
			if stalls >= maxStalls {
				return 0, io.ErrNoProgress
			}
			continue
		}
		stalls = 0
	}

	frames := filled / r.channels
	if frames == 0 && r.eof {
		return 0, io.EOF
	}

	out := dst.Data()
	for i := range filled {
		out[i] = float64(r.buf[i])
	}
	clear(out[frames*r.channels:])

	return frames, nil
}
