// SPDX-License-Identifier: EPL-2.0

// Package mixer is the real-time mic-priority engine.
//
// Every block of input goes through the same four steps:
//
//  1. Each Channel extracts its gained signal from the input block and
//     measures its RMS energy.
//  2. Signals are grouped by Role and folded into one bus per role with
//     LeaderSum: the loudest signal at full weight, the others at
//     FollowerWeight.
//  3. The Envelope follower moves the priority level towards 1 while the
//     loudest stationary channel is above the threshold, and back towards 0
//     otherwise, with separate attack and release coefficients.
//  4. Compose crossfades the stationary and mobile buses from the priority
//     level, adds the safety bus at unit gain and clips to ClipLimit.
//
// # Usage
//
//	engine, err := mixer.New(mixer.DefaultConfig())
//	if err != nil {
//	    // configuration errors are fatal
//	}
//
//	in := audio.NewBlock(1024, 3)
//	out := audio.NewBlock(1024, 2)
//	engine.Process(in, out) // from the audio callback
//
// # Safety Bypass
//
// Channels with RoleSafety are summed into the output at unit gain whatever
// the priority level. Nothing in the engine can attenuate them; only the
// final clip at ClipLimit applies.
//
// # Concurrency
//
// Process runs on the audio goroutine, allocates nothing once the block
// length is stable and takes no locks. Telemetry reads the published
// priority level and channel energies with Level, Energy and Snapshot from
// any other goroutine.
//
// # Errors
//
// Only construction can fail. Config.Validate and New return errors wrapping
// ErrInvalidConfig and one of the specific sentinels (ErrInvalidSampleRate,
// ErrInvalidChannelIndex, ...). Process has no error path.
package mixer
