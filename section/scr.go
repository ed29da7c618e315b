package section

import (
	"github.com/morkt/xami/byteio"
	"github.com/morkt/xami/errs"
)

// ScrMagic is the 4-byte magic at the start of an SCR payload.
var ScrMagic = [4]byte{'S', 'C', 'R', 0}

const (
	// ScrHeaderSize is the fixed 12-byte SCR header.
	ScrHeaderSize = 12
	// ScrDirRecordSize is the fixed 12-byte per-line directory record.
	ScrDirRecordSize = 12
)

// ScrHeader is the fixed header of an SCR script payload.
//
//	offset 0-3:  magic "SCR\0"
//	offset 4-7:  type_id (u32 LE)
//	offset 8-11: count (u32 LE)
type ScrHeader struct {
	TypeID uint32
	Count  uint32
}

// ParseScrHeader validates the magic and decodes the 12-byte SCR header.
func ParseScrHeader(b []byte) (ScrHeader, error) {
	if len(b) < ScrHeaderSize {
		return ScrHeader{}, errs.ErrBadOffset
	}
	if b[0] != ScrMagic[0] || b[1] != ScrMagic[1] || b[2] != ScrMagic[2] || b[3] != ScrMagic[3] {
		return ScrHeader{}, errs.ErrScriptSyntax
	}
	return ScrHeader{
		TypeID: byteio.ReadU32LE(b[4:8]),
		Count:  byteio.ReadU32LE(b[8:12]),
	}, nil
}

// Bytes serializes the header.
func (h ScrHeader) Bytes() []byte {
	b := make([]byte, ScrHeaderSize)
	copy(b[0:4], ScrMagic[:])
	byteio.WriteU32LE(b[4:8], h.TypeID)
	byteio.WriteU32LE(b[8:12], h.Count)
	return b
}

// ScrDirRecord is one 12-byte line-directory record following the SCR
// header.
//
//	offset 0-3:  offset (u32 LE), relative to the SCR payload start
//	offset 4-7:  length (u32 LE), excludes the trailing NUL
//	offset 8-11: id (u32 LE)
type ScrDirRecord struct {
	Offset uint32
	Length uint32
	ID     uint32
}

// ParseScrDirRecord decodes one 12-byte directory record.
func ParseScrDirRecord(b []byte) (ScrDirRecord, error) {
	if len(b) < ScrDirRecordSize {
		return ScrDirRecord{}, errs.ErrBadOffset
	}
	return ScrDirRecord{
		Offset: byteio.ReadU32LE(b[0:4]),
		Length: byteio.ReadU32LE(b[4:8]),
		ID:     byteio.ReadU32LE(b[8:12]),
	}, nil
}

// Bytes serializes the record.
func (r ScrDirRecord) Bytes() []byte {
	b := make([]byte, ScrDirRecordSize)
	byteio.WriteU32LE(b[0:4], r.Offset)
	byteio.WriteU32LE(b[4:8], r.Length)
	byteio.WriteU32LE(b[8:12], r.ID)
	return b
}

// BlobStart is the byte offset where the text blob begins: right after the
// header and all N directory records.
func BlobStart(count uint32) uint32 {
	return ScrHeaderSize + ScrDirRecordSize*count
}
