package rtu

import (
	"math"
	"unsafe"

	"github.com/arloliu/rtukit/errs"
	"github.com/arloliu/rtukit/format"
)

// addrBatchSize is the number of record offsets translated per batch during
// the bulk load.
const addrBatchSize = 100

func (f *File) ensureLoaded() {
	f.loadOnce.Do(f.load)
}

// load materializes every packed point into the parallel arrays, then builds
// the chronological index.
//
// Truncation never fails the load: an out-of-bounds record stops the pass, a
// partially present record contributes the points that fit, and the recovered
// count is logged against the declared count.
func (f *File) load() {
	defer f.buildIndex()

	total := int(f.header.TotalPoints)
	if total <= 0 {
		return
	}

	ppr := int(f.header.PointsPerRecord)
	if maxFit := int(f.bsio.RecordCapacity) / format.PointSize; ppr > maxFit {
		ppr = maxFit
	}
	if ppr <= 0 {
		f.truncated = true
		f.logger.Warn("no points fit a record",
			"path", f.path,
			"record_capacity", f.bsio.RecordCapacity,
			"points_per_record", f.header.PointsPerRecord)

		return
	}

	f.ids = make([]uint32, total)
	f.times = make([]int32, total)
	f.values = make([]float32, total)

	numRecords := (total + ppr - 1) / ppr
	offsets := make([]int64, 0, addrBatchSize)
	loaded := 0

scan:
	for batch := 0; batch < numRecords; batch += addrBatchSize {
		batchEnd := batch + addrBatchSize
		if batchEnd > numRecords {
			batchEnd = numRecords
		}

		offsets = offsets[:0]
		for r := batch; r < batchEnd; r++ {
			pos := f.header.DataLoc + int64(r)*int64(f.bsio.RecordCapacity)
			offsets = append(offsets, f.bsio.Addr(pos))
		}

		for i, off := range offsets {
			r := batch + i
			count := total - r*ppr
			if count > ppr {
				count = ppr
			}

			if off < 0 || off >= f.size {
				break scan
			}

			// Shorten the read to the bytes actually present.
			short := false
			if off+int64(count*format.PointSize) > f.size {
				count = int((f.size - off) / format.PointSize)
				short = true
				if count <= 0 {
					break scan
				}
			}

			rec := f.data[off : off+int64(count*format.PointSize)]
			loaded = f.decodeRecord(rec, count, loaded)

			if short {
				break scan
			}
		}
	}

	if loaded < total {
		f.truncated = true
		f.logger.Warn("recovered fewer points than declared",
			"path", f.path,
			"declared", total,
			"recovered", loaded,
			"reason", errs.ErrTruncatedData)
	}

	f.ids = f.ids[:loaded]
	f.times = f.times[:loaded]
	f.values = f.values[:loaded]
}

// decodeRecord unpacks count triples from rec into the arrays starting at
// loaded and returns the new loaded index.
//
// When the engine matches the host byte order and the record happens to be
// word-aligned, the bytes are reinterpreted as uint32 words directly instead
// of going through the engine.
func (f *File) decodeRecord(rec []byte, count, loaded int) int {
	if f.native && uintptr(unsafe.Pointer(&rec[0]))%4 == 0 {
		words := unsafe.Slice((*uint32)(unsafe.Pointer(&rec[0])), count*3)
		for p := 0; p < count; p++ {
			f.ids[loaded] = words[p*3]
			f.times[loaded] = int32(words[p*3+1])
			f.values[loaded] = math.Float32frombits(words[p*3+2])
			loaded++
		}

		return loaded
	}

	for p := 0; p < count; p++ {
		b := rec[p*format.PointSize:]
		f.ids[loaded] = f.engine.Uint32(b[0:4])
		f.times[loaded] = int32(f.engine.Uint32(b[4:8]))
		f.values[loaded] = math.Float32frombits(f.engine.Uint32(b[8:12]))
		loaded++
	}

	return loaded
}
