// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrInvalidConfig wraps every configuration error returned by
	// Config.Validate and New.
	ErrInvalidConfig = errors.New("invalid mixer config")

	ErrInvalidSampleRate    = errors.New("sample rate must be positive")
	ErrInvalidBlockLength   = errors.New("block length must be positive")
	ErrInvalidThreshold     = errors.New("threshold must be a finite dB value")
	ErrInvalidTimeConstant  = errors.New("time constant must be finite and non-negative")
	ErrInvalidInputChannels = errors.New("input channel count must not be negative")
	ErrInvalidChannelIndex  = errors.New("channel source index out of range")
	ErrInvalidGain          = errors.New("gain must be finite and non-negative")
	ErrUnknownRole          = errors.New("unknown channel role")
	ErrEmptyChannelName     = errors.New("channel name must not be empty")
	ErrDuplicateChannel     = errors.New("duplicate channel name")
)
