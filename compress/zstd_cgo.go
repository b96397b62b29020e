//go:build cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// NewWriter returns a zstd writer into w backed by the cgo libzstd binding.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &gozstdWriteCloser{zw: gozstd.NewWriter(w)}, nil
}

// NewReader returns a zstd reader over r backed by the cgo libzstd binding.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReadCloser{zr: gozstd.NewReader(r)}, nil
}

type gozstdWriteCloser struct {
	zw *gozstd.Writer
}

func (c *gozstdWriteCloser) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

func (c *gozstdWriteCloser) Close() error {
	err := c.zw.Close()
	c.zw.Release()

	return err
}

type gozstdReadCloser struct {
	zr *gozstd.Reader
}

func (c *gozstdReadCloser) Read(p []byte) (int, error) {
	return c.zr.Read(p)
}

func (c *gozstdReadCloser) Close() error {
	c.zr.Release()
	return nil
}
