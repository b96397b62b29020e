// Package section parses the fixed binary sections at the front of an RTU
// historian file: the outer BSIO prologue shared by the proprietary file
// family, and the RTU-specific header with its tag-name dictionary chain.
//
// All multi-byte fields are fixed-width integers decoded with the configured
// endian engine. Virtual-capacity positions (header pointers, dictionary
// entries, point records) are translated into real byte offsets through
// BsioHeader.Addr.
package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/rtukit/endian"
	"github.com/arloliu/rtukit/errs"
)

// AuthorNamesSize is the fixed width of the author text field in the BSIO
// prologue.
const AuthorNamesSize = 12

// BsioPrologueSize is the required byte length of the prologue: six int32
// fields followed by the author text. The trailing allocation field is
// optional and tolerated absent.
const BsioPrologueSize = 6*4 + AuthorNamesSize

// BsioHeader is the outer fixed-width prologue at offset 0 of every file in
// the family. It is parsed once per opened file and immutable afterward.
type BsioHeader struct {
	RecordCapacity int32 // usable bytes per record in virtual space
	RevisionLevel  int32 // recorded, not validated
	ProductKey     int32
	RecordLength   int32 // real bytes per record on disk
	ChecksumKey    int32
	SerialNumber   int32
	AuthorNames    string // fixed-width text, NUL padding trimmed
	HiAllocatedLo  int32  // zero when the prologue ends before this field
}

// ReadBsioHeader parses the BSIO prologue from the start of data.
//
// Returns errs.ErrCorruptHeader when the data is shorter than the fixed
// prologue or when the capacity/length fields cannot support address
// translation.
func ReadBsioHeader(data []byte, engine endian.EndianEngine) (BsioHeader, error) {
	if len(data) < BsioPrologueSize {
		return BsioHeader{}, fmt.Errorf("%w: prologue needs %d bytes, have %d",
			errs.ErrCorruptHeader, BsioPrologueSize, len(data))
	}

	h := BsioHeader{
		RecordCapacity: int32(engine.Uint32(data[0:4])),
		RevisionLevel:  int32(engine.Uint32(data[4:8])),
		ProductKey:     int32(engine.Uint32(data[8:12])),
		RecordLength:   int32(engine.Uint32(data[12:16])),
		ChecksumKey:    int32(engine.Uint32(data[16:20])),
		SerialNumber:   int32(engine.Uint32(data[20:24])),
	}

	author := data[24 : 24+AuthorNamesSize]
	h.AuthorNames = strings.TrimRight(strings.ToValidUTF8(string(author), ""), "\x00")

	// Older revisions end the prologue at the author field.
	if len(data) >= BsioPrologueSize+4 {
		h.HiAllocatedLo = int32(engine.Uint32(data[BsioPrologueSize : BsioPrologueSize+4]))
	}

	if h.RecordCapacity <= 0 || h.RecordLength <= 0 {
		return BsioHeader{}, fmt.Errorf("%w: record capacity %d, record length %d",
			errs.ErrCorruptHeader, h.RecordCapacity, h.RecordLength)
	}

	return h, nil
}

// Addr translates a virtual-capacity position into a real byte offset.
//
// Positions address a contiguous virtual space of RecordCapacity bytes per
// record; on disk each record occupies RecordLength bytes with a 4-byte lead.
// Record 0 holds the prologue, so virtual position 0 lands in record 1.
func (h *BsioHeader) Addr(pos int64) int64 {
	recno := pos/int64(h.RecordCapacity) + 1
	offset := pos % int64(h.RecordCapacity)

	return recno*int64(h.RecordLength) + offset + 4
}
