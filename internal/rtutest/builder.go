// Package rtutest builds synthetic RTU file images for tests.
//
// The builder emits the same layout the readers consume: BSIO prologue at
// offset 0, RTU header at virtual position 0, a length-prefixed dictionary
// chain, and packed point records addressed through the virtual-capacity
// scheme. It is test infrastructure only; the module has no production write
// path for this format.
package rtutest

import (
	"math"

	"github.com/arloliu/rtukit/endian"
	"github.com/arloliu/rtukit/format"
)

// Point is one packed (id, time, value) triple.
type Point struct {
	ID    uint32
	Time  int32
	Value float32
}

// PackID packs a 1-based tag index and a quality code into a point id.
func PackID(tagIndex int, quality format.Quality) uint32 {
	return uint32(tagIndex)&format.TagIndexMask | uint32(quality)<<format.QualityShift
}

// FileSpec describes a synthetic file. Zero-valued fields use defaults that
// produce a small well-formed file.
type FileSpec struct {
	RecordCapacity  int32
	RecordLength    int32
	PointsPerRecord int32
	DictLoc         int64
	DataLoc         int64
	Tags            []string
	Points          []Point

	// DeclaredPoints overrides the header's total point count. Leave zero to
	// declare exactly len(Points); set higher to simulate truncated files.
	DeclaredPoints int32

	// DeclaredPointsPerRecord overrides the header's points-per-record field
	// while the layout keeps packing PointsPerRecord points per record. Set
	// higher than what RecordCapacity holds to exercise reader capping.
	DeclaredPointsPerRecord int32

	Author string
}

func (s *FileSpec) applyDefaults() {
	if s.RecordCapacity == 0 {
		s.RecordCapacity = 1000
	}
	if s.RecordLength == 0 {
		s.RecordLength = 2000
	}
	if s.PointsPerRecord == 0 {
		s.PointsPerRecord = 50
	}
	if s.DictLoc == 0 {
		s.DictLoc = 256
	}
	if s.DataLoc == 0 {
		s.DataLoc = 4096
	}
	if s.DeclaredPoints == 0 {
		s.DeclaredPoints = int32(len(s.Points))
	}
	if s.DeclaredPointsPerRecord == 0 {
		s.DeclaredPointsPerRecord = s.PointsPerRecord
	}
	if s.Author == "" {
		s.Author = "rtutest"
	}
}

// image is a growable byte buffer with absolute-offset writes.
type image struct {
	buf []byte
}

func (m *image) put(off int64, b []byte) {
	end := off + int64(len(b))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[off:], b)
}

// Build renders the file image for the given spec using the engine's byte
// order.
func Build(spec FileSpec, engine endian.EndianEngine) []byte {
	spec.applyDefaults()

	addr := func(pos int64) int64 {
		recno := pos/int64(spec.RecordCapacity) + 1
		return recno*int64(spec.RecordLength) + pos%int64(spec.RecordCapacity) + 4
	}

	var m image

	// BSIO prologue at offset 0.
	var pro []byte
	pro = engine.AppendUint32(pro, uint32(spec.RecordCapacity))
	pro = engine.AppendUint32(pro, 3) // revision level
	pro = engine.AppendUint32(pro, 7) // product key
	pro = engine.AppendUint32(pro, uint32(spec.RecordLength))
	pro = engine.AppendUint32(pro, 0) // checksum key
	pro = engine.AppendUint32(pro, 1) // serial number
	author := make([]byte, 12)
	copy(author, spec.Author)
	pro = append(pro, author...)
	pro = engine.AppendUint32(pro, 0) // hi allocated
	m.put(0, pro)

	// RTU header at virtual position 0.
	var hdr []byte
	hdr = engine.AppendUint32(hdr, 1) // record type
	hdr = engine.AppendUint32(hdr, 2) // version
	hdr = engine.AppendUint64(hdr, uint64(spec.DictLoc))
	hdr = engine.AppendUint32(hdr, 0) // dict mod counter
	hdr = engine.AppendUint32(hdr, uint32(len(spec.Tags)))
	afterLastName := spec.DictLoc + dictionarySpan(spec.Tags)
	hdr = engine.AppendUint64(hdr, uint64(afterLastName))
	hdr = engine.AppendUint64(hdr, uint64(spec.DataLoc))
	hdr = engine.AppendUint32(hdr, uint32(spec.DeclaredPointsPerRecord))
	hdr = engine.AppendUint32(hdr, uint32(spec.DeclaredPoints))
	hdr = engine.AppendUint32(hdr, 0) // mod counter
	m.put(addr(0), hdr)

	// Dictionary chain: int32 length prefix, then 4-byte-aligned name chunks.
	pos := spec.DictLoc
	for _, tag := range spec.Tags {
		m.put(addr(pos), engine.AppendUint32(nil, uint32(len(tag))))
		pos += 4

		raw := []byte(tag)
		for i := 0; i < len(raw); i += 4 {
			chunk := make([]byte, 4)
			copy(chunk, raw[i:])
			m.put(addr(pos), chunk)
			pos += 4
		}
	}

	// Point records: packed triples, contiguous within each record.
	cursor := 0
	ppr := int(spec.PointsPerRecord)
	for r := 0; cursor < len(spec.Points); r++ {
		off := addr(spec.DataLoc + int64(r)*int64(spec.RecordCapacity))
		count := len(spec.Points) - cursor
		if count > ppr {
			count = ppr
		}

		var rec []byte
		for _, p := range spec.Points[cursor : cursor+count] {
			rec = engine.AppendUint32(rec, p.ID)
			rec = engine.AppendUint32(rec, uint32(p.Time))
			rec = engine.AppendUint32(rec, math.Float32bits(p.Value))
		}
		m.put(off, rec)
		cursor += count
	}

	return m.buf
}

// BuildLittleEndian renders the spec with the default byte order.
func BuildLittleEndian(spec FileSpec) []byte {
	return Build(spec, endian.GetLittleEndianEngine())
}

func dictionarySpan(tags []string) int64 {
	var span int64
	for _, tag := range tags {
		span += 4 + int64((len(tag)+3)/4*4)
	}

	return span
}
