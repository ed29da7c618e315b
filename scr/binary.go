package scr

import (
	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/section"
)

// RawLine is one (id, raw bytes) pair straight out of an SCR binary
// payload, before any escape or encoding conversion.
type RawLine struct {
	ID   uint32
	Text []byte // raw bytes, NUL excluded, insertion-ordered
}

// Script is a fully parsed SCR binary payload.
type Script struct {
	TypeID uint32
	Lines  []RawLine
}

// ParseBinary parses an SCR payload's header, directory records, and text
// blob (spec §4.4.1). Every directory record is validated against the
// payload length before its slice is taken.
func ParseBinary(payload []byte) (Script, error) {
	h, err := section.ParseScrHeader(payload)
	if err != nil {
		return Script{}, err
	}

	total := uint32(len(payload))
	lines := make([]RawLine, 0, h.Count)
	off := uint32(section.ScrHeaderSize)
	for i := uint32(0); i < h.Count; i++ {
		if off+section.ScrDirRecordSize > total {
			return Script{}, errs.ErrBadOffset
		}
		rec, err := section.ParseScrDirRecord(payload[off : off+section.ScrDirRecordSize])
		if err != nil {
			return Script{}, err
		}
		if rec.Offset >= total || rec.Length > total || rec.Offset+rec.Length > total {
			return Script{}, errs.ErrBadOffset
		}
		lines = append(lines, RawLine{ID: rec.ID, Text: payload[rec.Offset : rec.Offset+rec.Length]})
		off += section.ScrDirRecordSize
	}

	return Script{TypeID: h.TypeID, Lines: lines}, nil
}

// EncodeBinary emits an SCR payload from insertion-ordered raw lines,
// computing directory offsets starting right after the header and all N
// directory records (spec §4.4.3 "Emission to SCR").
func EncodeBinary(typeID uint32, lines []RawLine) []byte {
	n := uint32(len(lines))
	blobStart := section.BlobStart(n)

	dir := make([]byte, 0, section.ScrDirRecordSize*n)
	blob := make([]byte, 0)
	offset := blobStart
	for _, l := range lines {
		rec := section.ScrDirRecord{Offset: offset, Length: uint32(len(l.Text)), ID: l.ID}
		dir = append(dir, rec.Bytes()...)
		blob = append(blob, l.Text...)
		blob = append(blob, 0)
		offset += uint32(len(l.Text)) + 1
	}

	h := section.ScrHeader{TypeID: typeID, Count: n}
	out := make([]byte, 0, blobStart+uint32(len(blob)))
	out = append(out, h.Bytes()...)
	out = append(out, dir...)
	out = append(out, blob...)
	return out
}
