package stream

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/rtukit/internal/options"
	"github.com/arloliu/rtukit/internal/pool"
	"github.com/arloliu/rtukit/rtu"
	"github.com/arloliu/rtukit/timefmt"
)

// DefaultChunkSize is the number of points formatted per chunk.
const DefaultChunkSize = 10_000

// maxFormatWorkers bounds the formatting pool; formatting is cheap relative
// to the generator's consumption rate, so a small pool keeps it fed.
const maxFormatWorkers = 4

type config struct {
	chunkSize int
	workers   int
	logger    *slog.Logger
}

// Option configures Stream and Resize.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	workers := runtime.NumCPU()
	if workers > maxFormatWorkers {
		workers = maxFormatWorkers
	}

	cfg := &config{
		chunkSize: DefaultChunkSize,
		workers:   workers,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return cfg, options.Apply(cfg, opts...)
}

// WithChunkSize sets the number of points per formatted chunk.
func WithChunkSize(size int) Option {
	return options.New(func(cfg *config) error {
		if size <= 0 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		cfg.chunkSize = size

		return nil
	})
}

// WithLogger sets the logger used for pipeline progress. The default discards
// all records.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// Stream formats the records as generator protocol lines and writes them to
// the sink in record order.
//
// Records are partitioned into fixed-size chunks formatted concurrently by a
// bounded pool; a single writer releases chunks strictly in chunk order,
// buffering any chunk that finishes before its predecessors. The sink is not
// closed; that remains the caller's job.
func Stream(records []rtu.Record, sink ExternalSink, opts ...Option) error {
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	numChunks := (len(records) + cfg.chunkSize - 1) / cfg.chunkSize
	if numChunks == 0 {
		return nil
	}

	cfg.logger.Info("streaming to generator", "points", len(records), "chunks", numChunks)

	type result struct {
		index int
		buf   *pool.ByteBuffer
	}
	results := make(chan result, cfg.workers)

	var group errgroup.Group
	group.SetLimit(cfg.workers)

	go func() {
		for i := 0; i < numChunks; i++ {
			index := i
			start := index * cfg.chunkSize
			end := start + cfg.chunkSize
			if end > len(records) {
				end = len(records)
			}
			chunk := records[start:end]

			group.Go(func() error {
				buf := pool.GetChunkBuffer()
				formatChunk(buf, chunk)
				results <- result{index: index, buf: buf}

				return nil
			})
		}

		_ = group.Wait()
		close(results)
	}()

	// Single writer: release chunks in index order, parking out-of-order
	// completions until their predecessors are written.
	pending := make(map[int]*pool.ByteBuffer, cfg.workers)
	next := 0
	var writeErr error
	for res := range results {
		pending[res.index] = res.buf

		for buf, ok := pending[next]; ok; buf, ok = pending[next] {
			if writeErr == nil {
				writeErr = sink.Write(buf.Bytes())
			}
			pool.PutChunkBuffer(buf)
			delete(pending, next)
			next++
		}
	}

	if writeErr != nil {
		return fmt.Errorf("write to sink: %w", writeErr)
	}

	return nil
}

// formatChunk renders records as protocol lines:
// 'yy/mm/dd HH:MM:SS  TAG  value  GOOD|MANUAL'.
func formatChunk(buf *pool.ByteBuffer, records []rtu.Record) {
	for _, rec := range records {
		buf.WriteString(timefmt.FormatStream(rec.Seconds))
		buf.WriteString("  ")
		buf.WriteString(rec.Tag)
		buf.WriteString("  ")
		buf.B = strconv.AppendFloat(buf.B, float64(rec.Value), 'f', 4, 32)
		buf.WriteString("  ")
		buf.WriteString(rec.Quality.StreamString())
		_ = buf.WriteByte('\n')
	}
}

// Resize extracts the file's points in [start, end] inclusive and streams
// them to the generator binary, which writes the new file at outPath. Returns
// the number of points streamed.
//
// A generator failure surfaces as errs.ErrExternalTool with its stderr text;
// a partially written output file is left in place.
func Resize(f *rtu.File, generator, outPath string, start, end int64, opts ...Option) (int, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return 0, err
	}

	records, err := f.ExtractBetween(start, end)
	if err != nil {
		return 0, err
	}

	sink, err := NewGeneratorSink(generator, outPath, len(records))
	if err != nil {
		return 0, err
	}

	cfg.logger.Info("resizing", "source", f.Path(), "target", outPath, "points", len(records))

	streamErr := Stream(records, sink, opts...)
	closeErr := sink.Close()
	waitErr := sink.Wait()

	switch {
	case streamErr != nil:
		return 0, streamErr
	case waitErr != nil:
		return 0, waitErr
	case closeErr != nil:
		return 0, closeErr
	}

	return len(records), nil
}

// ResizeAll streams the file's entire valid point set to the generator,
// copying the whole file into a fresh one. Returns the number of points
// streamed.
func ResizeAll(f *rtu.File, generator, outPath string, opts ...Option) (int, error) {
	info := f.Info()
	return Resize(f, generator, outPath, info.FirstSeconds, info.LastSeconds, opts...)
}
