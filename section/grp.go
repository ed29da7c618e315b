package section

import (
	"github.com/morkt/xami/byteio"
	"github.com/morkt/xami/errs"
)

// GrpHeaderSize is the fixed 12-byte GRP raster header.
const GrpHeaderSize = 12

// GrpMagic and GrpSubtype are the two fixed 16-bit fields at the start of a
// GRP header (spec §3).
const (
	GrpMagic   uint16 = 0x5247
	GrpSubtype uint16 = 0x0050
)

// GrpHeader is the 12-byte header preceding a GRP raster's BGRA pixel data.
//
//	offset 0-1:  magic = 0x5247
//	offset 2-3:  subtype = 0x0050
//	offset 4-5:  ref_x (i16 LE)
//	offset 6-7:  ref_y (i16 LE)
//	offset 8-9:  width (u16 LE)
//	offset 10-11: height (u16 LE)
type GrpHeader struct {
	RefX   int16
	RefY   int16
	Width  uint16
	Height uint16
}

// ParseGrpHeader decodes and validates a 12-byte GRP header.
func ParseGrpHeader(b []byte) (GrpHeader, error) {
	if len(b) < GrpHeaderSize {
		return GrpHeader{}, errs.ErrBadOffset
	}
	if byteio.ReadU16LE(b[0:2]) != GrpMagic || byteio.ReadU16LE(b[2:4]) != GrpSubtype {
		return GrpHeader{}, errs.ErrUnsupportedImage
	}
	return GrpHeader{
		RefX:   byteio.ReadI16LE(b[4:6]),
		RefY:   byteio.ReadI16LE(b[6:8]),
		Width:  byteio.ReadU16LE(b[8:10]),
		Height: byteio.ReadU16LE(b[10:12]),
	}, nil
}

// Bytes serializes the header.
func (h GrpHeader) Bytes() []byte {
	b := make([]byte, GrpHeaderSize)
	byteio.WriteU16LE(b[0:2], GrpMagic)
	byteio.WriteU16LE(b[2:4], GrpSubtype)
	byteio.WriteI16LE(b[4:6], h.RefX)
	byteio.WriteI16LE(b[6:8], h.RefY)
	byteio.WriteU16LE(b[8:10], h.Width)
	byteio.WriteU16LE(b[10:12], h.Height)
	return b
}

// PixelDataLen returns width*height*4, the size of the BGRA payload
// following the header.
func (h GrpHeader) PixelDataLen() int {
	return int(h.Width) * int(h.Height) * 4
}
