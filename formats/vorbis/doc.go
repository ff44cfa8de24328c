// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis. Vorbis carries any channel count, so a
// multichannel rehearsal recording can drive the whole roster.
//
//	file, _ := os.Open("rehearsal.ogg")
//	src, err := vorbis.Decoder{}.Decode(file)
package vorbis
