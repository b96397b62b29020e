package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Codec wraps output in an LZ4 frame stream.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates an LZ4 codec with default settings.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// NewWriter returns an LZ4 frame writer into w.
func (LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

// NewReader returns an LZ4 frame reader over r.
func (LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
