package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec wraps output in a gzip stream. The most interoperable choice for
// CSV exports consumed by external tooling.
type GzipCodec struct{}

var _ Codec = (*GzipCodec)(nil)

// NewGzipCodec creates a gzip codec at the default compression level.
func NewGzipCodec() GzipCodec {
	return GzipCodec{}
}

// NewWriter returns a gzip writer into w.
func (GzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

// NewReader returns a gzip reader over r.
func (GzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
