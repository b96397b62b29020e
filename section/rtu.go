package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/rtukit/endian"
	"github.com/arloliu/rtukit/errs"
)

// rtuHeaderSize is the byte length of the fixed RTU header fields, read
// contiguously starting at virtual position 0.
const rtuHeaderSize = 4 + 4 + 8 + 4 + 4 + 8 + 8 + 4 + 4 + 4

// RtuHeader holds the RTU-specific fields that follow the BSIO prologue,
// plus the decoded tag dictionary. Built once per opened file; immutable
// afterward.
type RtuHeader struct {
	RecordType      int32
	Version         int32
	DictLoc         int64 // virtual position of the first dictionary entry
	DictMod         int32
	NameCount       int32
	AfterLastName   int64
	DataLoc         int64 // virtual position of the first point record
	PointsPerRecord int32
	TotalPoints     int32 // declared count; may exceed what the file holds
	ModCount        int32

	// Dictionary is the ordered tag-name list. Point ids reference entries
	// with a 1-based index.
	Dictionary []string
}

// ReadRtuHeader parses the RTU header fields and walks the dictionary chain.
// data is the complete file image; bsio supplies address translation.
//
// Dictionary text is decoded permissively: NUL padding is stripped and
// invalid UTF-8 bytes are dropped rather than failing the parse. Short reads
// on the fixed fields or on an entry's length prefix return
// errs.ErrCorruptHeader.
func ReadRtuHeader(bsio *BsioHeader, data []byte, engine endian.EndianEngine) (RtuHeader, error) {
	base := bsio.Addr(0)
	if base < 0 || base+rtuHeaderSize > int64(len(data)) {
		return RtuHeader{}, fmt.Errorf("%w: rtu header at offset %d needs %d bytes, file has %d",
			errs.ErrCorruptHeader, base, rtuHeaderSize, len(data))
	}

	b := data[base : base+rtuHeaderSize]
	h := RtuHeader{
		RecordType:      int32(engine.Uint32(b[0:4])),
		Version:         int32(engine.Uint32(b[4:8])),
		DictLoc:         int64(engine.Uint64(b[8:16])),
		DictMod:         int32(engine.Uint32(b[16:20])),
		NameCount:       int32(engine.Uint32(b[20:24])),
		AfterLastName:   int64(engine.Uint64(b[24:32])),
		DataLoc:         int64(engine.Uint64(b[32:40])),
		PointsPerRecord: int32(engine.Uint32(b[40:44])),
		TotalPoints:     int32(engine.Uint32(b[44:48])),
		ModCount:        int32(engine.Uint32(b[48:52])),
	}

	dict, err := readDictionary(bsio, data, engine, h.DictLoc, int(h.NameCount))
	if err != nil {
		return RtuHeader{}, err
	}
	h.Dictionary = dict

	return h, nil
}

// readDictionary walks count length-prefixed entries starting at the virtual
// position loc. Each entry is an int32 byte length followed by 4-byte-aligned
// chunks of name text; positions advance through virtual space and every
// chunk is translated individually.
func readDictionary(bsio *BsioHeader, data []byte, engine endian.EndianEngine, loc int64, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	dict := make([]string, 0, count)
	pos := loc

	for i := 0; i < count; i++ {
		off := bsio.Addr(pos)
		if off < 0 || off+4 > int64(len(data)) {
			return nil, fmt.Errorf("%w: dictionary entry %d length prefix at offset %d beyond file size %d",
				errs.ErrCorruptHeader, i, off, len(data))
		}

		nameLen := int(int32(engine.Uint32(data[off : off+4])))
		pos += 4

		raw := make([]byte, 0, nameLen)
		for read := 0; read < nameLen; read += 4 {
			chunkOff := bsio.Addr(pos)
			if chunkOff < 0 || chunkOff+4 > int64(len(data)) {
				break
			}
			raw = append(raw, data[chunkOff:chunkOff+4]...)
			pos += 4
		}

		name := strings.ReplaceAll(string(raw), "\x00", "")
		dict = append(dict, strings.ToValidUTF8(name, ""))
	}

	return dict, nil
}
