package grp

import (
	"image"
	"image/color"
)

// bgraImage adapts a bottom-up BGRA byte buffer to image.Image so it can be
// fed to the standard library's PNG encoder. Row 0 of the GRP buffer is the
// image's lowest visible row (spec §3), so At flips the y coordinate.
type bgraImage struct {
	pix           []byte // bottom-up BGRA, stride = width*4
	width, height int
	opaque        bool
}

func newBGRAImage(pix []byte, width, height int) *bgraImage {
	img := &bgraImage{pix: pix, width: width, height: height, opaque: true}
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0xFF {
			img.opaque = false
			break
		}
	}
	return img
}

func (b *bgraImage) ColorModel() color.Model { return color.NRGBAModel }

func (b *bgraImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At flips top-down y into the bottom-up row order the GRP buffer stores,
// and swaps B<->R to produce a standard RGBA-ordered color.
func (b *bgraImage) At(x, y int) color.Color {
	row := b.height - 1 - y
	off := (row*b.width + x) * 4
	blue, green, red, alpha := b.pix[off], b.pix[off+1], b.pix[off+2], b.pix[off+3]
	return color.NRGBA{R: red, G: green, B: blue, A: alpha}
}

// Opaque lets the PNG encoder pick RGB over RGBA when no pixel's alpha byte
// is anything but 0xFF (spec §4.3: "color type is RGBA if any alpha byte is
// not 0xFF, otherwise RGB").
func (b *bgraImage) Opaque() bool { return b.opaque }
