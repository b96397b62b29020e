package export

import (
	"encoding/csv"
	"math"
	"strconv"

	"github.com/arloliu/rtukit/format"
	"github.com/arloliu/rtukit/rtu"
	"github.com/arloliu/rtukit/timefmt"
)

// Wide writes the matched points as wide CSV: one row per distinct timestamp,
// one column per tag seen in the filtered set. BAD-quality observations
// become NaN, then every column is forward-filled and back-filled so rows are
// fully populated. Tags with no in-range points get no column.
//
// When sampling is configured the rows are restricted to the sampling grid
// (nearest-observation or interpolated, per the configured mode).
//
// Returns the number of data rows and tag columns written.
func Wide(f *rtu.File, outPath string, opts ...Option) (int, int, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return 0, 0, err
	}

	records, err := f.ExtractBetween(cfg.start, cfg.end)
	if err != nil {
		return 0, 0, err
	}
	records = filterRecords(records, cfg)

	grid := buildGrid(f.Dictionary(), records)

	if cfg.sampleInterval > 0 && cfg.sampleMode == format.SampleInterpolated {
		grid = interpolateGrid(grid, cfg)
	} else {
		grid.fill()
		if cfg.sampleInterval > 0 {
			grid = sampleActual(grid, cfg)
		}
	}

	out, err := openOutput(outPath, cfg.compression)
	if err != nil {
		return 0, 0, err
	}

	if err := writeGrid(out, grid); err != nil {
		_ = out.Close()
		return 0, 0, err
	}

	if err := out.Close(); err != nil {
		return 0, 0, err
	}

	cfg.logger.Info("wide export done",
		"path", outPath, "rows", len(grid.times), "columns", len(grid.tags))

	return len(grid.times), len(grid.tags), nil
}

// wideGrid is the in-memory wide table: sorted distinct timestamps, ordered
// tag columns, and one float64 cell per (row, column) with NaN for holes.
type wideGrid struct {
	times []int64
	tags  []string
	cells [][]float64
}

// buildGrid pivots the records. Known tags take column positions in
// dictionary order; synthetic unknown-tag names follow in first-seen order.
// BAD-quality values enter the grid as NaN.
func buildGrid(dictionary []string, records []rtu.Record) *wideGrid {
	present := make(map[string]bool, len(dictionary))
	for _, rec := range records {
		present[rec.Tag] = true
	}

	cols := make(map[string]int, len(present))
	tags := make([]string, 0, len(present))
	for _, tag := range dictionary {
		if present[tag] {
			cols[tag] = len(tags)
			tags = append(tags, tag)
		}
	}
	for _, rec := range records {
		if _, ok := cols[rec.Tag]; !ok {
			cols[rec.Tag] = len(tags)
			tags = append(tags, rec.Tag)
		}
	}

	// Records arrive sorted by timestamp.
	times := make([]int64, 0, len(records))
	rows := make(map[int64]int, len(records))
	for _, rec := range records {
		if _, ok := rows[rec.Seconds]; !ok {
			rows[rec.Seconds] = len(times)
			times = append(times, rec.Seconds)
		}
	}

	cells := make([][]float64, len(times))
	for i := range cells {
		row := make([]float64, len(tags))
		for j := range row {
			row[j] = math.NaN()
		}
		cells[i] = row
	}

	for _, rec := range records {
		v := math.NaN()
		if rec.Quality.IsGood() {
			v = float64(rec.Value)
		}
		cells[rows[rec.Seconds]][cols[rec.Tag]] = v
	}

	return &wideGrid{times: times, tags: tags, cells: cells}
}

// fill forward-fills then back-fills each column so no NaN remains for
// columns with at least one real value.
func (g *wideGrid) fill() {
	for col := range g.tags {
		last := math.NaN()
		for row := range g.cells {
			if v := g.cells[row][col]; !math.IsNaN(v) {
				last = v
			} else if !math.IsNaN(last) {
				g.cells[row][col] = last
			}
		}

		next := math.NaN()
		for row := len(g.cells) - 1; row >= 0; row-- {
			if v := g.cells[row][col]; !math.IsNaN(v) {
				next = v
			} else if !math.IsNaN(next) {
				g.cells[row][col] = next
			}
		}
	}
}

func writeGrid(out *outputFile, g *wideGrid) error {
	w := csv.NewWriter(out)

	header := make([]string, 0, 2+len(g.tags))
	header = append(header, "datetime", "timestamp")
	header = append(header, g.tags...)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, sec := range g.times {
		row[0] = timefmt.FormatCSV(sec)
		row[1] = strconv.FormatInt(sec, 10)
		for j, v := range g.cells[i] {
			row[2+j] = formatValue(v)
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}
