// Package byteio provides the little-endian primitives and bounded,
// random-access byte views the rest of xami builds on.
//
// It plays the same role the teacher's endian package plays for mebo: a
// small, dependency-free layer that every codec and the archive reader/writer
// sit on top of, so byte order and bounds checking are handled in exactly
// one place.
package byteio

import "encoding/binary"

// ReadU16LE reads a little-endian uint16 from the first two bytes of b.
// It panics if len(b) < 2; callers are expected to have bounds-checked via
// View/Slice first.
func ReadU16LE(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// ReadU32LE reads a little-endian uint32 from the first four bytes of b.
func ReadU32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// ReadI16LE reads a little-endian signed int16.
func ReadI16LE(b []byte) int16 {
	return int16(ReadU16LE(b))
}

// WriteU16LE writes v as little-endian into the first two bytes of b.
func WriteU16LE(b []byte, v uint16) {
	binary.LittleEndian.PutUint16(b, v)
}

// WriteU32LE writes v as little-endian into the first four bytes of b.
func WriteU32LE(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// WriteI16LE writes a signed int16 as little-endian.
func WriteI16LE(b []byte, v int16) {
	WriteU16LE(b, uint16(v))
}

// AppendU32LE appends v to b as little-endian and returns the grown slice.
func AppendU32LE(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// AppendU16LE appends v to b as little-endian and returns the grown slice.
func AppendU16LE(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}
