// SPDX-License-Identifier: EPL-2.0

// Package device binds an input Source and an output Sink around a block
// callback, standing in for a duplex sound device stream.
//
//	stream, err := device.Open(src, sink, device.Options{
//	    SampleRate:     48000,
//	    BlockLength:    1024,
//	    InputChannels:  3,
//	    OutputChannels: 2,
//	    Realtime:       true,
//	})
//	defer stream.Close()
//	stats, err := stream.Run(ctx, engine.Process)
//
// Blocks handed to the callback always have the configured shape: the
// source is resampled to the stream rate, and its channels are cut or
// padded with silence to InputChannels. Every callback is timed against
// the block period; late ones are counted in Stats.Overruns and logged.
package device
