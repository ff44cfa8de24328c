// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files through github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts integer PCM at 16, 24 or 32 bits with any number of
// channels, which is what a multichannel interface recording looks like:
//
//	file, _ := os.Open("session.wav")
//	src, err := wav.Decoder{}.Decode(file)
//
// Samples come out as interleaved float32 in [-1, 1).
//
// # Writing
//
// Writer encodes audio.Blocks as 16-bit PCM and serves as the sink the
// device stream writes the mix to:
//
//	w, err := wav.Create("mix.wav", 48000, 2)
//	defer w.Close()
//	err = w.WriteBlock(block)
//
// # Errors
//
// ErrNotWavFile, ErrUnsupportedEncoding and ErrUnsupportedBitDepth come from
// Decode; ErrShapeMismatch and ErrWriterClosed from WriteBlock.
package wav
