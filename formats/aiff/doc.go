// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
//	file, _ := os.Open("session.aiff")
//	src, err := aiff.Decoder{}.Decode(file)
//
// 16, 24 and 32-bit PCM with any channel count is supported.
package aiff
