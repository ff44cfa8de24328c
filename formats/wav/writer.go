// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audmatrix/audio"
	"github.com/ik5/audmatrix/utils"
)

// BitDepth of everything the Writer produces.
const BitDepth = 16

// Writer encodes Blocks as 16-bit PCM WAV. It implements the device sink
// interface, so a mix can be rendered straight to disk.
type Writer struct {
	enc      *wav.Encoder
	file     io.Closer
	channels int
	buf      *goaudio.IntBuffer
	frames   int
	closed   bool
}

// NewWriter writes to w, which must be seekable so the header sizes can be
// patched on Close. w itself is not closed.
func NewWriter(w io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: rate %d, channels %d", ErrInvalidWriterSettings, sampleRate, channels)
	}

	return &Writer{
		enc:      wav.NewEncoder(w, sampleRate, BitDepth, channels, formatPCM),
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: BitDepth,
		},
	}, nil
}

// Create opens path for writing and returns a Writer that closes the file
// on Close.
func Create(path string, sampleRate, channels int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create wav: %w", err)
	}

	w, err := NewWriter(f, sampleRate, channels)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	w.file = f

	return w, nil
}

func (w *Writer) Channels() int { return w.channels }

// Frames is the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// WriteBlock appends every frame of b. Samples are clamped to [-1, 1].
func (w *Writer) WriteBlock(b *audio.Block) error {
	if w.closed {
		return ErrWriterClosed
	}
	if b.Channels() != w.channels {
		return fmt.Errorf("%w: %d channels, want %d", ErrShapeMismatch, b.Channels(), w.channels)
	}

	src := b.Data()
	if cap(w.buf.Data) < len(src) {
		w.buf.Data = make([]int, len(src))
	}
	w.buf.Data = w.buf.Data[:len(src)]
	for i, v := range src {
		w.buf.Data[i] = utils.FloatToInt(v, BitDepth)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	w.frames += b.Frames()

	return nil
}

// Close finalizes the header and closes the file opened by Create.
// Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.enc.Close()
	if err != nil {
		err = fmt.Errorf("finalize wav: %w", err)
	}

	if w.file != nil {
		if cerr := w.file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close wav: %w", cerr)
		}
	}

	return err
}
