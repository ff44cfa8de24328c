// SPDX-License-Identifier: EPL-2.0

package device

import "github.com/ik5/audmatrix/audio"

// Sink receives every output block of a stream.
type Sink interface {
	WriteBlock(b *audio.Block) error
	Close() error
}

// Discard is a Sink that drops everything, for running the engine only for
// its telemetry.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteBlock(*audio.Block) error { return nil }
func (discard) Close() error                  { return nil }

// channeled is implemented by sinks with a fixed channel count, such as
// the WAV writer.
type channeled interface {
	Channels() int
}
