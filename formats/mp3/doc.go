// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams through github.com/hajimehoshi/go-mp3.
//
// The decoder always yields stereo, so an MP3 can only feed a roster that
// uses input channels 0 and 1; the device stream warns when the roster asks
// for more.
//
//	file, _ := os.Open("rehearsal.mp3")
//	src, err := mp3.Decoder{}.Decode(file)
package mp3
