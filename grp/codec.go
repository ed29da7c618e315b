// Package grp implements the GRP raster ⇄ PNG codec: a 12-byte header
// (spec §3) followed by bottom-up BGRA pixel data, round-tripped through
// standard PNG with the reference point carried in an oFFs chunk.
package grp

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"

	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/section"
)

var (
	errInvalidSignature = errors.New("grp: invalid PNG signature")
	errTruncated        = errors.New("grp: truncated PNG chunk stream")
	errNoIHDR           = errors.New("grp: missing IHDR chunk")
)

const maxDimension = 0x7FFF // 32767, spec §4.3 "width/height fit in 15 bits"

// Image is a decoded GRP raster: bottom-up BGRA pixels plus the header
// fields carried across the PNG round-trip.
type Image struct {
	Pixels []byte // bottom-up BGRA, len == Width*Height*4
	Width  int
	Height int
	RefX   int16
	RefY   int16
}

// EncodeToPNG emits an 8-bit-per-channel PNG from bottom-up BGRA pixel data.
// Color type is RGBA if any alpha byte is not 0xFF, otherwise RGB (spec
// §4.3). An oFFs chunk carrying (refX, refY) is spliced in when either is
// nonzero.
func EncodeToPNG(pixels []byte, width, height int, refX, refY int16) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.ErrInvalidParams
	}
	if width > maxDimension || height > maxDimension {
		return nil, errs.ErrUnsupportedImage
	}
	if len(pixels) < width*height*4 {
		return nil, errs.ErrInvalidParams
	}

	img := newBGRAImage(pixels, width, height)

	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, errs.WithContext(err, "grp.EncodeToPNG", 0)
	}

	out := buf.Bytes()
	if refX != 0 || refY != 0 {
		spliced, err := injectOFFs(out, int32(refX), int32(refY))
		if err != nil {
			return nil, err
		}
		out = spliced
	}
	return out, nil
}

// DecodeFromPNG decodes a PNG into bottom-up BGRA GRP pixel data. It
// rejects interlaced sources (ErrInterlacedImage, a case of
// ErrUnsupportedImage) before attempting a full decode. Palette, grayscale,
// and 16-bit-depth sources are normalized to 8-bit BGRA; RGB-only sources
// get a synthesized, fully opaque alpha channel; tRNS is promoted to alpha.
func DecodeFromPNG(pngBytes []byte) (Image, error) {
	method, err := interlaceMethod(pngBytes)
	if err != nil {
		return Image{}, err
	}
	if method != 0 {
		return Image{}, errs.ErrInterlacedImage
	}

	im, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return Image{}, errs.WithContext(err, "grp.DecodeFromPNG", 0)
	}

	bounds := im.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return Image{}, errs.ErrUnsupportedImage
	}

	pixels := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		// Row 0 of the GRP buffer is the image's lowest visible row.
		destRow := height - 1 - y
		rowOff := destRow * width * 4
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(im.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := rowOff + x*4
			pixels[off+0] = c.B
			pixels[off+1] = c.G
			pixels[off+2] = c.R
			pixels[off+3] = c.A
		}
	}

	refX, refY, _, err := findOFFs(pngBytes)
	if err != nil {
		return Image{}, err
	}

	return Image{
		Pixels: pixels,
		Width:  width,
		Height: height,
		RefX:   int16(refX),
		RefY:   int16(refY),
	}, nil
}

// EncodeGRPBlob packs a decoded raster (as produced by DecodeFromPNG, or
// read straight out of an archive's .grp entry) into the 12-byte-header +
// BGRA wire layout an AMI archive stores.
func EncodeGRPBlob(img Image) []byte {
	h := section.GrpHeader{RefX: img.RefX, RefY: img.RefY, Width: uint16(img.Width), Height: uint16(img.Height)}
	out := make([]byte, section.GrpHeaderSize+len(img.Pixels))
	copy(out, h.Bytes())
	copy(out[section.GrpHeaderSize:], img.Pixels)
	return out
}

// DecodeGRPBlob parses a GRP wire payload (12-byte header + BGRA pixels)
// into an Image.
func DecodeGRPBlob(b []byte) (Image, error) {
	h, err := section.ParseGrpHeader(b)
	if err != nil {
		return Image{}, err
	}
	need := section.GrpHeaderSize + h.PixelDataLen()
	if len(b) < need {
		return Image{}, errs.ErrBadOffset
	}
	pixels := make([]byte, h.PixelDataLen())
	copy(pixels, b[section.GrpHeaderSize:need])
	return Image{Pixels: pixels, Width: int(h.Width), Height: int(h.Height), RefX: h.RefX, RefY: h.RefY}, nil
}
