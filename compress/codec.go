// Package compress provides stream codecs for export outputs.
//
// Large CSV exports are often archived straight away; the exporters can wrap
// their output writer in any of the registered codecs, selected explicitly or
// by the output file's extension (.gz, .zst, .s2, .lz4). The same codecs
// expose matching readers so exported files can be consumed back without
// caring which codec produced them.
package compress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arloliu/rtukit/format"
)

// Codec wraps an output stream in a compressor and an input stream in the
// matching decompressor.
//
// Implementations are stateless values; both methods are safe for concurrent
// use.
type Codec interface {
	// NewWriter returns a writer that compresses into w. The returned writer
	// must be closed to flush trailing frames; closing it does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)

	// NewReader returns a reader that decompresses from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionGzip: NewGzipCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// DetectType infers the compression type from a file name's extension.
// Unrecognized extensions mean plain output.
func DetectType(path string) format.CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return format.CompressionGzip
	case ".zst":
		return format.CompressionZstd
	case ".s2":
		return format.CompressionS2
	case ".lz4":
		return format.CompressionLZ4
	default:
		return format.CompressionNone
	}
}
