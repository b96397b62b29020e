// Package endian provides byte order utilities for decoding RTU historian
// files.
//
// The RTU format is little-endian by default but the byte order is
// configurable at open time for files produced on big-endian hosts. This
// package combines encoding/binary's ByteOrder and AppendByteOrder interfaces
// into a single EndianEngine interface so readers and formatters can share
// one engine value.
//
// The returned engines are the standard library's binary.LittleEndian and
// binary.BigEndian values: immutable, stateless, and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for byte order operations.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian, keeping full
// compatibility with code that expects a plain binary.ByteOrder.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// CompareNativeEndian reports whether the given engine matches the host's
// native byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine, the default for
// RTU files.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
