package export

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/format"
	"github.com/arloliu/rtukit/internal/rtutest"
)

// wideTable indexes a parsed wide CSV by timestamp and tag name.
type wideTable struct {
	header []string
	rows   map[int64][]string
	order  []int64
}

func parseWide(t *testing.T, path string) wideTable {
	t.Helper()

	rows := readCSV(t, path)
	require.NotEmpty(t, rows)

	table := wideTable{header: rows[0], rows: make(map[int64][]string)}
	for _, row := range rows[1:] {
		sec, err := strconv.ParseInt(row[1], 10, 64)
		require.NoError(t, err)
		table.rows[sec] = row
		table.order = append(table.order, sec)
	}

	return table
}

func (w wideTable) cell(t *testing.T, sec int64, tag string) string {
	t.Helper()

	for i, name := range w.header {
		if name == tag {
			row, ok := w.rows[sec]
			require.True(t, ok, "no row at %d", sec)

			return row[i]
		}
	}
	t.Fatalf("no column %q", tag)

	return ""
}

func TestWideFillsMissingCells(t *testing.T) {
	// T2 has no observation at ts 10 and none after ts 20.
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1", "T2"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 10, Value: 1},
			{ID: rtutest.PackID(1, format.QualityGood), Time: 20, Value: 2},
			{ID: rtutest.PackID(2, format.QualityGood), Time: 20, Value: 9},
			{ID: rtutest.PackID(1, format.QualityGood), Time: 30, Value: 3},
		},
	})
	out := filepath.Join(t.TempDir(), "wide.csv")

	rows, cols, err := Wide(f, out)
	require.NoError(t, err)
	require.Equal(t, 3, rows)
	require.Equal(t, 2, cols)

	table := parseWide(t, out)
	require.Equal(t, []string{"datetime", "timestamp", "T1", "T2"}, table.header)

	// Back-filled before its first observation, forward-filled after its last.
	require.Equal(t, "9", table.cell(t, 10, "T2"))
	require.Equal(t, "9", table.cell(t, 30, "T2"))
	require.Equal(t, "2", table.cell(t, 20, "T1"))
}

func TestWideBadQualityBecomesFilled(t *testing.T) {
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 10, Value: 5},
			{ID: rtutest.PackID(1, format.Quality(1)), Time: 20, Value: 99},
			{ID: rtutest.PackID(1, format.QualityGood), Time: 30, Value: 7},
		},
	})
	out := filepath.Join(t.TempDir(), "wide.csv")

	_, _, err := Wide(f, out)
	require.NoError(t, err)

	// The BAD observation's value never surfaces; its cell forward-fills.
	table := parseWide(t, out)
	require.Equal(t, "5", table.cell(t, 20, "T1"))
}

func TestWideAbsentTagHasNoColumn(t *testing.T) {
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1", "UNUSED"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 10, Value: 1},
		},
	})
	out := filepath.Join(t.TempDir(), "wide.csv")

	_, cols, err := Wide(f, out)
	require.NoError(t, err)
	require.Equal(t, 1, cols)

	table := parseWide(t, out)
	require.NotContains(t, table.header, "UNUSED")
}

func TestWideOnlyBadColumnStaysNaN(t *testing.T) {
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.Quality(1)), Time: 10, Value: 1},
		},
	})
	out := filepath.Join(t.TempDir(), "wide.csv")

	_, _, err := Wide(f, out)
	require.NoError(t, err)

	table := parseWide(t, out)
	require.Equal(t, "NaN", table.cell(t, 10, "T1"))
}

func TestSampledActual(t *testing.T) {
	// Observations every 10 seconds, sampled at a 25 second interval.
	points := make([]rtutest.Point, 0, 11)
	for i := 0; i <= 10; i++ {
		points = append(points, rtutest.Point{
			ID:    rtutest.PackID(1, format.QualityGood),
			Time:  int32(i * 10),
			Value: float32(i),
		})
	}
	f := openFile(t, rtutest.FileSpec{Tags: []string{"T1"}, Points: points})
	out := filepath.Join(t.TempDir(), "sampled.csv")

	rows, _, err := Wide(f, out, WithSampling(25, format.SampleActual))
	require.NoError(t, err)
	require.Positive(t, rows)

	table := parseWide(t, out)

	// Selected timestamps are strictly increasing real observations.
	seen := make(map[int64]bool)
	for i, sec := range table.order {
		require.False(t, seen[sec], "timestamp %d selected twice", sec)
		seen[sec] = true
		require.Zero(t, sec%10, "timestamp %d is not a real observation", sec)
		if i > 0 {
			require.Greater(t, sec, table.order[i-1])
		}
	}

	// Anchor at 0; each target tick re-anchors from the selected observation,
	// ties between equidistant observations pick the earlier one.
	require.Equal(t, []int64{0, 20, 40, 60, 80, 100}, table.order)
}

func TestSampledInterpolatedMidpoint(t *testing.T) {
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 0, Value: 10},
			{ID: rtutest.PackID(1, format.QualityGood), Time: 100, Value: 20},
		},
	})
	out := filepath.Join(t.TempDir(), "interp.csv")

	rows, _, err := Wide(f, out, WithSampling(50, format.SampleInterpolated))
	require.NoError(t, err)
	require.Equal(t, 3, rows)

	table := parseWide(t, out)
	require.Equal(t, []int64{0, 50, 100}, table.order)
	require.Equal(t, "10", table.cell(t, 0, "T1"))
	require.Equal(t, "15", table.cell(t, 50, "T1"))
	require.Equal(t, "20", table.cell(t, 100, "T1"))
}

func TestSampledInterpolatedClampAndSinglePoint(t *testing.T) {
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1", "T2"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 40, Value: 4},
			{ID: rtutest.PackID(1, format.QualityGood), Time: 60, Value: 6},
			{ID: rtutest.PackID(2, format.QualityGood), Time: 50, Value: 9},
		},
	})
	out := filepath.Join(t.TempDir(), "interp.csv")

	_, _, err := Wide(f, out,
		WithTimeRange(0, 100),
		WithSampling(50, format.SampleInterpolated))
	require.NoError(t, err)

	table := parseWide(t, out)
	require.Equal(t, []int64{0, 50, 100}, table.order)

	// Clamped to the boundary observation outside [40, 60], interpolated inside.
	require.Equal(t, "4", table.cell(t, 0, "T1"))
	require.Equal(t, "5", table.cell(t, 50, "T1"))
	require.Equal(t, "6", table.cell(t, 100, "T1"))

	// A single observation cannot be interpolated.
	require.Equal(t, "NaN", table.cell(t, 50, "T2"))
}

func TestSampledInterpolatedNoMatch(t *testing.T) {
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 500, Value: 1},
		},
	})

	t.Run("Range matching nothing", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "interp.csv")

		rows, cols, err := Wide(f, out,
			WithTimeRange(0, 100),
			WithSampling(50, format.SampleInterpolated))
		require.NoError(t, err)
		require.Zero(t, rows)
		require.Zero(t, cols)
		require.Len(t, readCSV(t, out), 1) // header only
	})

	t.Run("Allow list matching nothing", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "interp.csv")

		rows, cols, err := Wide(f, out,
			WithAllowList([]string{"OTHER"}),
			WithSampling(60, format.SampleInterpolated))
		require.NoError(t, err)
		require.Zero(t, rows)
		require.Zero(t, cols)
		require.Len(t, readCSV(t, out), 1)
	})
}

func TestSampledActualNoMatch(t *testing.T) {
	f := openFile(t, rtutest.FileSpec{
		Tags: []string{"T1"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 500, Value: 1},
		},
	})
	out := filepath.Join(t.TempDir(), "sampled.csv")

	rows, cols, err := Wide(f, out,
		WithTimeRange(0, 100),
		WithSampling(50, format.SampleActual))
	require.NoError(t, err)
	require.Zero(t, rows)
	require.Zero(t, cols)
}

func TestInvalidSamplingInterval(t *testing.T) {
	_, err := newConfig(WithSampling(0, format.SampleActual))
	require.ErrorIs(t, err, errs.ErrInvalidSampleInterval)
}
