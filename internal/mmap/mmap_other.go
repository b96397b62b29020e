//go:build !unix

package mmap

import (
	"io"
	"os"
)

// Region is a read-only view over a file's bytes.
type Region struct {
	data []byte
}

// Open reads the whole file into memory. This fallback keeps the same
// interface as the unix mmap path.
func Open(f *os.File) (*Region, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &Region{data: data}, nil
}

// Bytes returns the file bytes. The slice is invalid after Close.
func (r *Region) Bytes() []byte {
	return r.data
}

// Close releases the buffer. Safe to call more than once.
func (r *Region) Close() error {
	r.data = nil
	return nil
}
