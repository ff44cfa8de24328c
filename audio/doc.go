// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample plumbing around the mixing engine.
//
// # Source Interface
//
// A Source is a stream of interleaved float32 samples. Format decoders,
// resamplers and test generators all implement it:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// # Blocks
//
// The engine works on fixed-size Blocks: one processing tick of frames x
// channels float64 samples. A BlockReader slices any Source into Blocks of a
// fixed frame count, zero padding the last one:
//
//	reader, _ := audio.NewBlockReader(src, 1024)
//	block := audio.NewBlock(reader.Frames(), reader.Channels())
//	for {
//	    n, err := reader.ReadBlock(block)
//	    if err == io.EOF {
//	        break
//	    }
//	    // process block (n real frames)
//	}
//
// Block.At returns 0 for out of range positions, so a consumer asking for a
// channel the input does not carry reads silence instead of failing.
//
// # Resampling
//
// The Resampler brings a Source to the engine's sample rate using cubic
// interpolation:
//
//	resampler := audio.NewResampler(source, 48000)
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForPath("session.wav")
//
// # Errors
//
// ReadSamples and ReadBlock return io.EOF when no more data is available.
// ErrUnsupportedFormat, ErrBlockShape and ErrInvalidDstSize report caller
// mistakes and are meant to be checked with errors.Is.
package audio
