// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	ErrNoSource        = errors.New("no input source")
	ErrNoSink          = errors.New("no output sink")
	ErrInvalidOptions  = errors.New("invalid stream options")
	ErrChannelMismatch = errors.New("sink channel count does not match the output")
	ErrClosed          = errors.New("stream is closed")
)
