package export

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/rtukit/compress"
	"github.com/arloliu/rtukit/format"
)

// outputFile is the export destination: the created file plus the codec
// writer layered over it.
type outputFile struct {
	file   *os.File
	writer io.WriteCloser
}

// openOutput creates the output file and wraps it in the configured codec.
// With no explicit codec the output file extension decides.
func openOutput(path string, compression format.CompressionType) (*outputFile, error) {
	if compression == 0 {
		compression = compress.DetectType(path)
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	w, err := codec.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &outputFile{file: f, writer: w}, nil
}

func (o *outputFile) Write(p []byte) (int, error) {
	return o.writer.Write(p)
}

// Close flushes the codec and closes the file.
func (o *outputFile) Close() error {
	err := o.writer.Close()
	if closeErr := o.file.Close(); err == nil {
		err = closeErr
	}

	return err
}
