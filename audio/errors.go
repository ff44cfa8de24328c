// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrBlockShape        = errors.New("block shape does not match source")
	ErrInvalidBlockSize  = errors.New("block size must be positive")
)
