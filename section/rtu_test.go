package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rtukit/endian"
	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/internal/rtutest"
)

func TestReadRtuHeader(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("Header fields and dictionary", func(t *testing.T) {
		data := rtutest.Build(rtutest.FileSpec{
			Tags: []string{"FLOW.01", "PRESS.02", "T"},
			Points: []rtutest.Point{
				{ID: rtutest.PackID(1, 0), Time: 100, Value: 1.5},
			},
		}, engine)

		bsio, err := ReadBsioHeader(data, engine)
		require.NoError(t, err)

		h, err := ReadRtuHeader(&bsio, data, engine)
		require.NoError(t, err)
		require.Equal(t, int32(3), h.NameCount)
		require.Equal(t, []string{"FLOW.01", "PRESS.02", "T"}, h.Dictionary)
		require.Equal(t, int32(1), h.TotalPoints)
		require.Equal(t, int32(50), h.PointsPerRecord)
		require.Equal(t, int64(4096), h.DataLoc)
	})

	t.Run("Empty dictionary", func(t *testing.T) {
		data := rtutest.Build(rtutest.FileSpec{}, engine)

		bsio, err := ReadBsioHeader(data, engine)
		require.NoError(t, err)

		h, err := ReadRtuHeader(&bsio, data, engine)
		require.NoError(t, err)
		require.Empty(t, h.Dictionary)
	})

	t.Run("Tag name longer than one chunk", func(t *testing.T) {
		long := "STATION.NORTH.FLOW_RATE.PV"
		data := rtutest.Build(rtutest.FileSpec{Tags: []string{long}}, engine)

		bsio, err := ReadBsioHeader(data, engine)
		require.NoError(t, err)

		h, err := ReadRtuHeader(&bsio, data, engine)
		require.NoError(t, err)
		require.Equal(t, []string{long}, h.Dictionary)
	})

	t.Run("Truncated before rtu header", func(t *testing.T) {
		data := rtutest.Build(rtutest.FileSpec{}, engine)

		bsio, err := ReadBsioHeader(data, engine)
		require.NoError(t, err)

		_, err = ReadRtuHeader(&bsio, data[:bsio.Addr(0)+10], engine)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("Truncated inside dictionary", func(t *testing.T) {
		data := rtutest.Build(rtutest.FileSpec{Tags: []string{"A", "B"}}, engine)

		bsio, err := ReadBsioHeader(data, engine)
		require.NoError(t, err)

		// Cut the file before the second entry's length prefix.
		cut := bsio.Addr(256 + 4 + 4)
		_, err = ReadRtuHeader(&bsio, data[:cut], engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("Big endian round trip", func(t *testing.T) {
		be := endian.GetBigEndianEngine()
		data := rtutest.Build(rtutest.FileSpec{Tags: []string{"TAG1"}}, be)

		bsio, err := ReadBsioHeader(data, be)
		require.NoError(t, err)

		h, err := ReadRtuHeader(&bsio, data, be)
		require.NoError(t, err)
		require.Equal(t, []string{"TAG1"}, h.Dictionary)
	})
}
