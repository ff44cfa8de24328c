// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrUnsupportedEncoding   = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth   = errors.New("unsupported WAV bit depth")
	ErrInvalidWriterSettings = errors.New("invalid WAV writer settings")
	ErrShapeMismatch         = errors.New("block shape does not match the WAV writer")
	ErrWriterClosed          = errors.New("WAV writer is closed")
)
