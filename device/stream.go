// SPDX-License-Identifier: EPL-2.0

package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audmatrix/audio"
	"github.com/sirupsen/logrus"
)

// Callback processes one input block into the output block. It runs on the
// stream goroutine and must not keep either block.
type Callback func(in, out *audio.Block)

type Options struct {
	SampleRate  int
	BlockLength int
	// InputChannels is the width of the blocks handed to the callback.
	// Source channels beyond it are ignored, missing ones are silent.
	InputChannels  int
	OutputChannels int
	// Realtime paces blocks at the block period instead of running as fast
	// as the source can be read.
	Realtime bool
}

func (o Options) validate() error {
	if o.SampleRate <= 0 || o.BlockLength <= 0 || o.InputChannels <= 0 || o.OutputChannels <= 0 {
		return fmt.Errorf("%w: rate %d, block %d, in %d, out %d", ErrInvalidOptions,
			o.SampleRate, o.BlockLength, o.InputChannels, o.OutputChannels)
	}

	return nil
}

// Period is the wall-clock length of one block, the callback deadline.
func (o Options) Period() time.Duration {
	return time.Duration(o.BlockLength) * time.Second / time.Duration(o.SampleRate)
}

// Stats summarizes a run.
type Stats struct {
	Blocks uint64
	// Frames counts source frames, without the padding of the last block.
	Frames      uint64
	Overruns    uint64
	MaxCallback time.Duration
}

// Stream binds a Source and a Sink around a processing callback, the way a
// duplex sound device stream would.
type Stream struct {
	opts   Options
	src    audio.Source
	sink   Sink
	reader *audio.BlockReader
	raw    *audio.Block
	in     *audio.Block
	out    *audio.Block
	closed bool
}

// Open validates opts and prepares the stream. A source at another sample
// rate is resampled to opts.SampleRate.
func Open(src audio.Source, sink Sink, opts Options) (*Stream, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if sink == nil {
		return nil, ErrNoSink
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if c, ok := sink.(channeled); ok && c.Channels() != opts.OutputChannels {
		return nil, fmt.Errorf("%w: sink has %d, want %d", ErrChannelMismatch, c.Channels(), opts.OutputChannels)
	}

	fields := logrus.Fields{
		"function":        "device.Open",
		"source_rate":     src.SampleRate(),
		"source_channels": src.Channels(),
		"sample_rate":     opts.SampleRate,
		"block_length":    opts.BlockLength,
		"input_channels":  opts.InputChannels,
		"output_channels": opts.OutputChannels,
		"realtime":        opts.Realtime,
	}

	if src.SampleRate() != opts.SampleRate {
		logrus.WithFields(fields).Info("Resampling source to engine rate")
		src = audio.NewResampler(src, opts.SampleRate)
	}

	if src.Channels() < opts.InputChannels {
		logrus.WithFields(fields).Warn("Source has fewer channels than the roster uses, missing inputs are silent")
	}

	reader, err := audio.NewBlockReader(src, opts.BlockLength)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	s := &Stream{
		opts:   opts,
		src:    src,
		sink:   sink,
		reader: reader,
		raw:    audio.NewBlock(opts.BlockLength, reader.Channels()),
		out:    audio.NewBlock(opts.BlockLength, opts.OutputChannels),
	}
	s.in = s.raw
	if reader.Channels() != opts.InputChannels {
		s.in = audio.NewBlock(opts.BlockLength, opts.InputChannels)
	}

	logrus.WithFields(fields).Info("Stream opened")

	return s, nil
}

func (s *Stream) Options() Options { return s.opts }

// Run pulls blocks until the source ends or ctx is cancelled, calling cb
// for each and writing the output block to the sink. Cancellation is only
// checked between blocks. A source that ends normally returns a nil error.
// The sink receives exactly Stats.Frames frames.
func (s *Stream) Run(ctx context.Context, cb Callback) (Stats, error) {
	var stats Stats
	if s.closed {
		return stats, ErrClosed
	}

	period := s.opts.Period()

	var tick <-chan time.Time
	if s.opts.Realtime {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return stats, err
		}

		n, err := s.reader.ReadBlock(s.raw)
		if errors.Is(err, io.EOF) {
			logrus.WithFields(logrus.Fields{
				"function": "device.Stream.Run",
				"blocks":   stats.Blocks,
				"frames":   stats.Frames,
				"overruns": stats.Overruns,
				"max_call": stats.MaxCallback,
			}).Info("Source finished")
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("stream input: %w", err)
		}

		s.remap()

		start := time.Now()
		cb(s.in, s.out)
		elapsed := time.Since(start)

		stats.Blocks++
		stats.Frames += uint64(n)
		stats.MaxCallback = max(stats.MaxCallback, elapsed)
		if elapsed > period {
			stats.Overruns++
			logrus.WithFields(logrus.Fields{
				"function": "device.Stream.Run",
				"block":    stats.Blocks,
				"elapsed":  elapsed,
				"deadline": period,
			}).Warn("Callback missed the block deadline")
		}

		// the padding of a short final block is not written
		if err := s.sink.WriteBlock(s.out.Head(n)); err != nil {
			return stats, fmt.Errorf("stream output: %w", err)
		}
	}
}

// remap copies the source block into the callback's input width.
func (s *Stream) remap() {
	if s.in == s.raw {
		return
	}

	n := min(s.raw.Channels(), s.in.Channels())
	src, dst := s.raw.Data(), s.in.Data()
	sw, dw := s.raw.Channels(), s.in.Channels()
	for f := range s.in.Frames() {
		copy(dst[f*dw:f*dw+n], src[f*sw:f*sw+n])
	}
}

// Close closes the source and the sink. The sink error wins when both fail.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	srcErr := s.src.Close()
	sinkErr := s.sink.Close()

	logrus.WithFields(logrus.Fields{
		"function": "device.Stream.Close",
	}).Info("Stream closed")

	if sinkErr != nil {
		return fmt.Errorf("close sink: %w", sinkErr)
	}
	if srcErr != nil {
		return fmt.Errorf("close source: %w", srcErr)
	}

	return nil
}
