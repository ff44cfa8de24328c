// SPDX-License-Identifier: EPL-2.0

// Package audmatrix is a mic-priority matrix mixer for a small site: a desk
// microphone that takes over from roaming wireless microphones when someone
// speaks at the desk, and safety inputs that are always heard.
//
// The engine lives in the mixer subpackage. This package wires it to the
// rest of the tree for the common case of mixing a recording:
//
//	src, err := audmatrix.Open("session.wav")
//	sink, err := wav.Create("mix.wav", 48000, 2)
//	stats, engine, err := audmatrix.Mix(ctx, mixer.DefaultConfig(), src, sink)
//
// # Subpackages
//
//   - mixer: channels, envelope follower, bus combiner, compositor, Engine
//   - device: drives a Source through the engine into a Sink, block by block
//   - telemetry: terminal dashboard fed by engine snapshots
//   - config: YAML profiles
//   - audio: Source, Block, BlockReader, Resampler, decoder Registry
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders
//
// # Supported Formats
//
// Open picks a decoder by file extension: wav, aif/aiff, mp3 and ogg.
// WAV and Vorbis carry any number of channels and so can feed a full
// roster; MP3 is always stereo.
package audmatrix
