//go:build !cgo

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewWriter returns a pure-Go zstd writer into w.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// NewReader returns a pure-Go zstd reader over r.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return decoder.IOReadCloser(), nil
}
