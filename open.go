// SPDX-License-Identifier: EPL-2.0

package audmatrix

import (
	"errors"
	"fmt"
	"os"

	"github.com/ik5/audmatrix/audio"
	"github.com/ik5/audmatrix/formats/aiff"
	"github.com/ik5/audmatrix/formats/mp3"
	"github.com/ik5/audmatrix/formats/vorbis"
	"github.com/ik5/audmatrix/formats/wav"
)

// NewRegistry returns a registry with every decoder in the tree.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})

	return reg
}

var defaultRegistry = NewRegistry()

// fileSource closes the underlying file together with the decoder.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// Open decodes the file at path with the decoder registered for its
// extension. Closing the source closes the file.
func Open(path string) (audio.Source, error) {
	dec, err := defaultRegistry.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &fileSource{Source: src, f: f}, nil
}
