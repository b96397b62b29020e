package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Codec wraps output in an S2 stream, the fastest of the registered
// codecs.
type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates an S2 codec with default settings.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// NewWriter returns an S2 writer into w.
func (S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}

// NewReader returns an S2 reader over r.
func (S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
