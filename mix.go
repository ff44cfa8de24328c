// SPDX-License-Identifier: EPL-2.0

package audmatrix

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/audmatrix/audio"
	"github.com/ik5/audmatrix/device"
	"github.com/ik5/audmatrix/mixer"
)

// OutputChannels is the output width used when the sink does not declare
// its own.
const OutputChannels = 2

// Mix builds an engine from cfg and runs src through it into sink as fast
// as the source can be read, until the source ends or ctx is cancelled.
// Mix owns src and sink and closes both. The engine is returned for its
// telemetry even when the run fails.
func Mix(ctx context.Context, cfg mixer.Config, src audio.Source, sink device.Sink) (device.Stats, *mixer.Engine, error) {
	engine, err := mixer.New(cfg)
	if err != nil {
		return device.Stats{}, nil, errors.Join(err, closeAll(src, sink))
	}

	outputs := OutputChannels
	if c, ok := sink.(interface{ Channels() int }); ok {
		outputs = c.Channels()
	}

	stream, err := device.Open(src, sink, device.Options{
		SampleRate:     cfg.SampleRate,
		BlockLength:    cfg.BlockLength,
		InputChannels:  cfg.InputChannelCount(),
		OutputChannels: outputs,
	})
	if err != nil {
		return device.Stats{}, engine, fmt.Errorf("mix: %w", errors.Join(err, closeAll(src, sink)))
	}

	stats, err := stream.Run(ctx, engine.Process)
	if cerr := stream.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return stats, engine, fmt.Errorf("mix: %w", err)
	}

	return stats, engine, nil
}

func closeAll(src audio.Source, sink device.Sink) error {
	var errs []error
	if src != nil {
		errs = append(errs, src.Close())
	}
	if sink != nil {
		errs = append(errs, sink.Close())
	}

	return errors.Join(errs...)
}
