package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rtukit/endian"
	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/internal/rtutest"
)

func TestReadBsioHeader(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("Valid prologue", func(t *testing.T) {
		data := rtutest.Build(rtutest.FileSpec{
			RecordCapacity: 1000,
			RecordLength:   2000,
			Author:         "historian",
		}, engine)

		h, err := ReadBsioHeader(data, engine)
		require.NoError(t, err)
		require.Equal(t, int32(1000), h.RecordCapacity)
		require.Equal(t, int32(2000), h.RecordLength)
		require.Equal(t, int32(3), h.RevisionLevel)
		require.Equal(t, "historian", h.AuthorNames)
	})

	t.Run("Big endian", func(t *testing.T) {
		be := endian.GetBigEndianEngine()
		data := rtutest.Build(rtutest.FileSpec{RecordCapacity: 512, RecordLength: 1024}, be)

		h, err := ReadBsioHeader(data, be)
		require.NoError(t, err)
		require.Equal(t, int32(512), h.RecordCapacity)
		require.Equal(t, int32(1024), h.RecordLength)
	})

	t.Run("Short data", func(t *testing.T) {
		_, err := ReadBsioHeader(make([]byte, 10), engine)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("Zero record capacity", func(t *testing.T) {
		data := make([]byte, BsioPrologueSize+4)
		engine.PutUint32(data[12:16], 2000) // record length only
		_, err := ReadBsioHeader(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("Prologue without allocation field", func(t *testing.T) {
		full := rtutest.Build(rtutest.FileSpec{}, engine)
		h, err := ReadBsioHeader(full[:BsioPrologueSize], engine)
		require.NoError(t, err)
		require.Equal(t, int32(0), h.HiAllocatedLo)
	})
}

func TestAddr(t *testing.T) {
	h := &BsioHeader{RecordCapacity: 1000, RecordLength: 2000}

	t.Run("First record is record length plus pos plus four", func(t *testing.T) {
		for _, pos := range []int64{0, 1, 500, 999} {
			require.Equal(t, int64(2000)+pos+4, h.Addr(pos))
		}
	})

	t.Run("Known scenario", func(t *testing.T) {
		require.Equal(t, int64(2504), h.Addr(500))
	})

	t.Run("Record boundary", func(t *testing.T) {
		require.Equal(t, int64(2*2000+0+4), h.Addr(1000))
		require.Equal(t, int64(3*2000+1+4), h.Addr(2001))
	})
}
