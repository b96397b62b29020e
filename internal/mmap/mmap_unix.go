//go:build unix

// Package mmap maps files read-only into memory. On unix hosts the mapping
// is a true mmap region; elsewhere the file is read into an ordinary byte
// slice with the same interface.
package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// Region is a read-only view over a file's bytes.
type Region struct {
	data   []byte
	mapped bool
}

// Open maps the file read-only. Empty files yield an empty region rather
// than an error from the map syscall.
func Open(f *os.File) (*Region, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Region{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &Region{data: data, mapped: true}, nil
}

// Bytes returns the mapped bytes. The slice is invalid after Close.
func (r *Region) Bytes() []byte {
	return r.data
}

// Close unmaps the region. Safe to call more than once.
func (r *Region) Close() error {
	if !r.mapped || r.data == nil {
		r.data = nil
		return nil
	}

	data := r.data
	r.data = nil
	r.mapped = false

	return unix.Munmap(data)
}
