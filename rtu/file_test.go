package rtu

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rtukit/endian"
	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/format"
	"github.com/arloliu/rtukit/internal/rtutest"
)

func writeImage(t *testing.T, image []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "historian.dt")
	require.NoError(t, os.WriteFile(path, image, 0o600))

	return path
}

func writeSpec(t *testing.T, spec rtutest.FileSpec) string {
	t.Helper()
	return writeImage(t, rtutest.BuildLittleEndian(spec))
}

func TestOpenParsesHeader(t *testing.T) {
	path := writeSpec(t, rtutest.FileSpec{
		Tags: []string{"FLOW_01", "PRESSURE_01"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 100, Value: 1.5},
		},
	})

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"FLOW_01", "PRESSURE_01"}, f.Dictionary())
	require.Equal(t, int32(1), f.Header().TotalPoints)
	require.Equal(t, path, f.Path())
	require.Positive(t, f.Size())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.dt"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenEmptyFile(t *testing.T) {
	path := writeImage(t, nil)

	_, err := Open(path)
	require.ErrorIs(t, err, errs.ErrEmptyFile)
}

func TestOpenCorruptPrologue(t *testing.T) {
	path := writeImage(t, []byte{0x01, 0x02, 0x03})

	_, err := Open(path)
	require.ErrorIs(t, err, errs.ErrCorruptHeader)
}

func TestOpenBigEndian(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	image := rtutest.Build(rtutest.FileSpec{
		Tags: []string{"T1"},
		Points: []rtutest.Point{
			{ID: rtutest.PackID(1, format.QualityGood), Time: 42, Value: 3.5},
		},
	}, engine)
	path := writeImage(t, image)

	f, err := Open(path, WithEndianEngine(engine))
	require.NoError(t, err)
	defer f.Close()

	recs, err := f.ExtractBetween(0, 100)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "T1", recs[0].Tag)
	require.Equal(t, float32(3.5), recs[0].Value)
}

func TestDecodeAgreesAcrossByteOrders(t *testing.T) {
	// The same logical file decoded through the native fast path and through
	// the engine must yield identical records.
	points := make([]rtutest.Point, 100)
	for i := range points {
		points[i] = rtutest.Point{
			ID:    rtutest.PackID(1, format.QualityGood),
			Time:  int32(i * 3),
			Value: float32(i) * 0.25,
		}
	}
	spec := rtutest.FileSpec{Tags: []string{"T1"}, Points: points}

	le, err := Open(writeImage(t, rtutest.Build(spec, endian.GetLittleEndianEngine())))
	require.NoError(t, err)
	defer le.Close()

	be, err := Open(writeImage(t, rtutest.Build(spec, endian.GetBigEndianEngine())),
		WithEndianEngine(endian.GetBigEndianEngine()))
	require.NoError(t, err)
	defer be.Close()

	leRecs, err := le.ExtractBetween(0, 1000)
	require.NoError(t, err)
	beRecs, err := be.ExtractBetween(0, 1000)
	require.NoError(t, err)
	require.Equal(t, leRecs, beRecs)
}

func TestValidateFile(t *testing.T) {
	path := writeSpec(t, rtutest.FileSpec{Tags: []string{"T1"}})
	require.NoError(t, ValidateFile(path))

	require.Error(t, ValidateFile(filepath.Join(t.TempDir(), "nope.dt")))
}
