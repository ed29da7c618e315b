// Package section defines the fixed-size binary record layouts used by the
// AMI container, the GRP raster header, and the SCR script header — each
// with a Parse/Bytes pair, mirroring the teacher's NumericHeader /
// NumericIndexEntry convention in section/numeric_header.go.
package section

import (
	"github.com/morkt/xami/byteio"
	"github.com/morkt/xami/errs"
)

// AmiMagic is the 4-byte magic at the start of every AMI archive.
var AmiMagic = [4]byte{'A', 'M', 'I', 0}

const (
	// AmiHeaderSize is the fixed 16-byte archive header.
	AmiHeaderSize = 16
	// TocRecordSize is the fixed 16-byte per-entry TOC record.
	TocRecordSize = 16
)

// AmiHeader is the archive's 16-byte fixed header.
//
//	offset 0-3:  magic "AMI\0"
//	offset 4-7:  entry count N (u32 LE)
//	offset 8-11: byte offset of the first payload (u32 LE)
//	offset 12-15: reserved, always zero
type AmiHeader struct {
	Count           uint32
	FirstPayloadOff uint32
}

// TocOffset returns where the table of contents starts; it is always
// immediately after the fixed header.
func TocOffset() uint32 { return AmiHeaderSize }

// FirstPayloadOffset computes "16 + 16*N", the offset the header's
// FirstPayloadOff field must equal.
func FirstPayloadOffset(count uint32) uint32 {
	return AmiHeaderSize + TocRecordSize*count
}

// ParseAmiHeader validates the magic and decodes the 16-byte header.
func ParseAmiHeader(b []byte) (AmiHeader, error) {
	if len(b) < AmiHeaderSize {
		return AmiHeader{}, errs.ErrBadOffset
	}
	if b[0] != AmiMagic[0] || b[1] != AmiMagic[1] || b[2] != AmiMagic[2] || b[3] != AmiMagic[3] {
		return AmiHeader{}, errs.ErrNotAmi
	}
	return AmiHeader{
		Count:           byteio.ReadU32LE(b[4:8]),
		FirstPayloadOff: byteio.ReadU32LE(b[8:12]),
	}, nil
}

// Bytes serializes the header, including the magic and the reserved zero
// dword.
func (h AmiHeader) Bytes() []byte {
	b := make([]byte, AmiHeaderSize)
	copy(b[0:4], AmiMagic[:])
	byteio.WriteU32LE(b[4:8], h.Count)
	byteio.WriteU32LE(b[8:12], h.FirstPayloadOff)
	// b[12:16] stays zero.
	return b
}

// TocRecord is one 16-byte table-of-contents entry.
//
//	offset 0-3:   id (u32 LE)
//	offset 4-7:   offset (u32 LE), absolute from archive start
//	offset 8-11:  unpacked_size (u32 LE)
//	offset 12-15: packed_size (u32 LE); 0 means "stored verbatim"
type TocRecord struct {
	ID            uint32
	Offset        uint32
	UnpackedSize  uint32
	PackedSize    uint32
}

// StoredSize is the number of bytes this entry actually occupies on disk:
// PackedSize when compressed, else UnpackedSize (spec §8, invariant 8).
func (r TocRecord) StoredSize() uint32 {
	if r.PackedSize > 0 {
		return r.PackedSize
	}
	return r.UnpackedSize
}

// Compressed reports whether the entry is zlib-deflated on disk.
func (r TocRecord) Compressed() bool { return r.PackedSize > 0 }

// ParseTocRecord decodes one 16-byte TOC record.
func ParseTocRecord(b []byte) (TocRecord, error) {
	if len(b) < TocRecordSize {
		return TocRecord{}, errs.ErrBadOffset
	}
	return TocRecord{
		ID:           byteio.ReadU32LE(b[0:4]),
		Offset:       byteio.ReadU32LE(b[4:8]),
		UnpackedSize: byteio.ReadU32LE(b[8:12]),
		PackedSize:   byteio.ReadU32LE(b[12:16]),
	}, nil
}

// Bytes serializes the TOC record.
func (r TocRecord) Bytes() []byte {
	b := make([]byte, TocRecordSize)
	byteio.WriteU32LE(b[0:4], r.ID)
	byteio.WriteU32LE(b[4:8], r.Offset)
	byteio.WriteU32LE(b[8:12], r.UnpackedSize)
	byteio.WriteU32LE(b[12:16], r.PackedSize)
	return b
}
