// Package export renders time-range extractions as CSV files.
//
// Three shapes are supported: flat (one row per observation), wide (one row
// per timestamp, one column per tag) and sampled wide (wide restricted to a
// sampling grid, nearest-observation or interpolated). All shapes share the
// same options: an inclusive time range, a tag allow-list, and optional
// output compression chosen explicitly or by the output file's extension.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/format"
	"github.com/arloliu/rtukit/internal/hash"
	"github.com/arloliu/rtukit/internal/options"
	"github.com/arloliu/rtukit/timefmt"
)

type config struct {
	start int64
	end   int64

	// allow is nil when no allow-list is set; empty means filter everything.
	allow map[uint64]struct{}

	sampleInterval int64
	sampleMode     format.SampleMode

	// compression zero means detect from the output file extension.
	compression format.CompressionType

	logger *slog.Logger
}

// Option configures an export operation.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		start:  math.MinInt32,
		end:    math.MaxInt32,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.start > cfg.end {
		return nil, fmt.Errorf("%w: %d > %d", errs.ErrInvalidTimeRange, cfg.start, cfg.end)
	}

	return cfg, nil
}

// WithTimeRange restricts the export to points with timestamps in
// [start, end] inclusive, both in file-seconds.
func WithTimeRange(start, end int64) Option {
	return options.NoError(func(cfg *config) {
		cfg.start = start
		cfg.end = end
	})
}

// WithTimeStrings restricts the export to the range given as boundary time
// strings in either accepted layout ('dd/mm/yy HH:MM:SS' or
// 'yyyy/mm/dd HH:MM:SS').
func WithTimeStrings(start, end string) Option {
	return options.New(func(cfg *config) error {
		startSec, err := timefmt.ParseInput(start)
		if err != nil {
			return err
		}

		endSec, err := timefmt.ParseInput(end)
		if err != nil {
			return err
		}

		cfg.start = startSec
		cfg.end = endSec

		return nil
	})
}

// WithAllowList restricts the export to the named tags.
func WithAllowList(tags []string) Option {
	return options.NoError(func(cfg *config) {
		cfg.allow = make(map[uint64]struct{}, len(tags))
		for _, tag := range tags {
			cfg.allow[hash.TagID(tag)] = struct{}{}
		}
	})
}

// WithAllowListFile loads the allow-list from a newline-delimited file. Blank
// lines and lines starting with '#' are skipped.
func WithAllowListFile(path string) Option {
	return options.New(func(cfg *config) error {
		tags, err := LoadTagList(path)
		if err != nil {
			return err
		}

		cfg.allow = make(map[uint64]struct{}, len(tags))
		for _, tag := range tags {
			cfg.allow[hash.TagID(tag)] = struct{}{}
		}

		return nil
	})
}

// WithSampling enables sampled output for the wide shape: interval is the
// grid spacing in seconds, mode selects nearest-observation or interpolated
// resampling.
func WithSampling(interval int64, mode format.SampleMode) Option {
	return options.New(func(cfg *config) error {
		if interval <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidSampleInterval, interval)
		}
		cfg.sampleInterval = interval
		cfg.sampleMode = mode

		return nil
	})
}

// WithCompression forces the output compression codec instead of detecting it
// from the output file extension.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(cfg *config) {
		cfg.compression = compression
	})
}

// WithLogger sets the logger used for export progress. The default discards
// all records.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// allows reports whether the tag passes the allow-list filter.
func (cfg *config) allows(tag string) bool {
	if cfg.allow == nil {
		return true
	}
	_, ok := cfg.allow[hash.TagID(tag)]

	return ok
}
