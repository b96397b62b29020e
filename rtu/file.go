// Package rtu reads RTU historian files: opening and mapping the file,
// loading the packed point records into memory, indexing them
// chronologically, and answering time-range queries over the result.
//
// A File is opened with the header and tag dictionary parsed eagerly; the
// point load and chronological index are built on first query and reused for
// the lifetime of the handle. After that first load the handle is safe for
// concurrent readers.
package rtu

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/arloliu/rtukit/endian"
	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/internal/mmap"
	"github.com/arloliu/rtukit/internal/options"
	"github.com/arloliu/rtukit/section"
)

// File is an open RTU historian file.
//
// The header and dictionary are immutable after Open. Point data is loaded
// once, on the first call that needs it, and never mutated afterward.
type File struct {
	path   string
	size   int64
	file   *os.File
	region *mmap.Region
	data   []byte

	engine endian.EndianEngine
	native bool
	logger *slog.Logger

	bsio   section.BsioHeader
	header section.RtuHeader

	loadOnce sync.Once

	// Parallel point arrays, trimmed to the recovered count after load.
	ids    []uint32
	times  []int32
	values []float32

	// Chronological index over the valid prefix: phys[i] is the physical
	// slot of the i-th point in timestamp order.
	phys   []int32
	sorted []int32

	truncated bool
}

// Option configures Open.
type Option = options.Option[*File]

// WithEndianEngine sets the byte order used to decode the file. The default
// is little endian.
func WithEndianEngine(engine endian.EndianEngine) Option {
	return options.New(func(f *File) error {
		if engine == nil {
			return fmt.Errorf("endian engine cannot be nil")
		}
		f.engine = engine

		return nil
	})
}

// WithLogger sets the logger used for truncation warnings. The default
// discards all records.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	})
}

// Open opens and maps the file read-only and parses its prologue, header and
// tag dictionary. The returned handle must be closed by the caller.
//
// A missing file surfaces as the wrapped *fs.PathError from os.Open. A
// zero-length file returns errs.ErrEmptyFile; structurally invalid headers
// return errs.ErrCorruptHeader.
func Open(path string, opts ...Option) (*File, error) {
	f := &File{
		path:   path,
		engine: endian.GetLittleEndianEngine(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}
	f.native = endian.CompareNativeEndian(f.engine)

	osFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rtu file: %w", err)
	}

	region, err := mmap.Open(osFile)
	if err != nil {
		_ = osFile.Close()
		return nil, fmt.Errorf("map rtu file %s: %w", path, err)
	}

	f.file = osFile
	f.region = region
	f.data = region.Bytes()
	f.size = int64(len(f.data))

	if f.size == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", errs.ErrEmptyFile, path)
	}

	f.bsio, err = section.ReadBsioHeader(f.data, f.engine)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f.header, err = section.ReadRtuHeader(&f.bsio, f.data, f.engine)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Close unmaps and closes the file. The handle and any slices it handed out
// must not be used afterward.
func (f *File) Close() error {
	var mapErr error
	if f.region != nil {
		mapErr = f.region.Close()
		f.region = nil
		f.data = nil
	}

	if f.file != nil {
		closeErr := f.file.Close()
		f.file = nil
		if mapErr == nil {
			mapErr = closeErr
		}
	}

	return mapErr
}

// Path returns the path the file was opened with.
func (f *File) Path() string {
	return f.path
}

// Size returns the file length in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Header returns the parsed RTU header.
func (f *File) Header() section.RtuHeader {
	return f.header
}

// Dictionary returns the ordered tag-name list. The slice is shared; callers
// must not modify it.
func (f *File) Dictionary() []string {
	return f.header.Dictionary
}

// Truncated reports whether the point load recovered fewer points than the
// header declared. Valid after any call that loads points.
func (f *File) Truncated() bool {
	f.ensureLoaded()
	return f.truncated
}

// ValidateFile opens the file, parses its headers and closes it again. It is
// a cheap structural check that does not load point data.
func ValidateFile(path string, opts ...Option) error {
	f, err := Open(path, opts...)
	if err != nil {
		return err
	}

	return f.Close()
}
