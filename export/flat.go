package export

import (
	"encoding/csv"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/rtukit/internal/pool"
	"github.com/arloliu/rtukit/rtu"
	"github.com/arloliu/rtukit/timefmt"
)

// parallelThreshold is the matched-point count above which the flat export
// shards formatting across workers.
const parallelThreshold = 1_000_000

var flatHeader = []string{"datetime", "timestamp", "tag_name", "value", "quality"}

// Flat writes the matched points as flat CSV, one row per observation:
// datetime, raw file-seconds, tag name, value, GOOD/BAD quality. Rows are in
// timestamp order. Returns the number of data rows written.
//
// Above one million matched points formatting is sharded across workers and
// the shard outputs concatenated in order.
func Flat(f *rtu.File, outPath string, opts ...Option) (int, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return 0, err
	}

	records, err := f.ExtractBetween(cfg.start, cfg.end)
	if err != nil {
		return 0, err
	}
	records = filterRecords(records, cfg)

	out, err := openOutput(outPath, cfg.compression)
	if err != nil {
		return 0, err
	}

	if err := writeFlat(out, records, cfg); err != nil {
		_ = out.Close()
		return 0, err
	}

	if err := out.Close(); err != nil {
		return 0, err
	}

	cfg.logger.Info("flat export done", "path", outPath, "rows", len(records))

	return len(records), nil
}

// filterRecords applies the allow-list in place.
func filterRecords(records []rtu.Record, cfg *config) []rtu.Record {
	if cfg.allow == nil {
		return records
	}

	kept := records[:0]
	for _, rec := range records {
		if cfg.allows(rec.Tag) {
			kept = append(kept, rec)
		}
	}

	return kept
}

func writeFlat(out *outputFile, records []rtu.Record, cfg *config) error {
	w := csv.NewWriter(out)
	if err := w.Write(flatHeader); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if len(records) <= parallelThreshold {
		buf := pool.GetChunkBuffer()
		defer pool.PutChunkBuffer(buf)

		if err := formatFlatShard(buf, records); err != nil {
			return err
		}
		_, err := out.Write(buf.Bytes())

		return err
	}

	return writeFlatSharded(out, records, cfg)
}

// writeFlatSharded splits the records across one shard per CPU, formats the
// shards concurrently and concatenates the buffers in shard order. Each row
// depends only on its own record, so shards need no coordination.
func writeFlatSharded(out *outputFile, records []rtu.Record, cfg *config) error {
	workers := runtime.NumCPU()
	shardSize := (len(records) + workers - 1) / workers
	buffers := make([]*pool.ByteBuffer, 0, workers)

	var group errgroup.Group
	for start := 0; start < len(records); start += shardSize {
		end := start + shardSize
		if end > len(records) {
			end = len(records)
		}

		buf := pool.GetChunkBuffer()
		buffers = append(buffers, buf)
		shard := records[start:end]

		group.Go(func() error {
			return formatFlatShard(buf, shard)
		})
	}

	cfg.logger.Info("flat export sharded", "records", len(records), "shards", len(buffers))

	if err := group.Wait(); err != nil {
		return err
	}

	for _, buf := range buffers {
		if _, err := out.Write(buf.Bytes()); err != nil {
			return err
		}
		pool.PutChunkBuffer(buf)
	}

	return nil
}

func formatFlatShard(buf *pool.ByteBuffer, records []rtu.Record) error {
	w := csv.NewWriter(buf)
	row := make([]string, len(flatHeader))
	for _, rec := range records {
		row[0] = timefmt.FormatCSV(rec.Seconds)
		row[1] = strconv.FormatInt(rec.Seconds, 10)
		row[2] = rec.Tag
		row[3] = formatValue(float64(rec.Value))
		row[4] = rec.Quality.CSVString()

		if err := w.Write(row); err != nil {
			return fmt.Errorf("format row: %w", err)
		}
	}
	w.Flush()

	return w.Error()
}

// formatValue renders a measurement with the shortest text that round-trips
// as float32.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 32)
}
