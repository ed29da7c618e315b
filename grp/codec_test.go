package grp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/grp"
)

func onePixelBGRA(b, g, r, a byte) []byte {
	return []byte{b, g, r, a}
}

func TestRoundTripOpaque(t *testing.T) {
	px := onePixelBGRA(0x80, 0x80, 0x80, 0xFF) // one opaque gray pixel
	png, err := grp.EncodeToPNG(px, 1, 1, 0, 0)
	require.NoError(t, err)

	img, err := grp.DecodeFromPNG(png)
	require.NoError(t, err)
	require.Equal(t, 1, img.Width)
	require.Equal(t, 1, img.Height)
	require.Equal(t, px, img.Pixels)
	require.Equal(t, int16(0), img.RefX)
	require.Equal(t, int16(0), img.RefY)
}

func TestRoundTripWithOffsetAndAlpha(t *testing.T) {
	px := onePixelBGRA(0x10, 0x20, 0x30, 0x80)
	png, err := grp.EncodeToPNG(px, 1, 1, -5, 7)
	require.NoError(t, err)

	img, err := grp.DecodeFromPNG(png)
	require.NoError(t, err)
	require.Equal(t, px, img.Pixels)
	require.Equal(t, int16(-5), img.RefX)
	require.Equal(t, int16(7), img.RefY)
}

func TestAlphaFreeReinflatesOpaque(t *testing.T) {
	px := onePixelBGRA(1, 2, 3, 0xFF)
	png, err := grp.EncodeToPNG(px, 1, 1, 0, 0)
	require.NoError(t, err)

	img, err := grp.DecodeFromPNG(png)
	require.NoError(t, err)
	require.Equal(t, byte(0xFF), img.Pixels[3])
}

func TestGRPBlobRoundTrip(t *testing.T) {
	img := grp.Image{Pixels: onePixelBGRA(1, 2, 3, 4), Width: 1, Height: 1, RefX: 2, RefY: -3}
	blob := grp.EncodeGRPBlob(img)
	got, err := grp.DecodeGRPBlob(blob)
	require.NoError(t, err)
	require.Equal(t, img, got)
}

func TestInvalidParamsRejected(t *testing.T) {
	_, err := grp.EncodeToPNG(nil, 0, 0, 0, 0)
	require.Error(t, err)
}

// TestInterlacedRejected patches a real encoded PNG's IHDR interlace byte
// to simulate interlaced input, matching spec §8 scenario S6's precondition
// ("pack a directory containing an interlaced PNG").
func TestInterlacedRejected(t *testing.T) {
	px := onePixelBGRA(1, 2, 3, 0xFF)
	png, err := grp.EncodeToPNG(px, 1, 1, 0, 0)
	require.NoError(t, err)

	// IHDR is the first chunk after the 8-byte signature: 4-byte length,
	// 4-byte type, 13 bytes of data whose last byte is the interlace
	// method. Flip it to 1 (Adam7); splitChunks never checks the CRC, so
	// leaving the trailing checksum bytes untouched is harmless here.
	ihdrDataStart := 8 + 8
	interlaceOff := ihdrDataStart + 12
	patched := append([]byte(nil), png...)
	patched[interlaceOff] = 1

	_, err = grp.DecodeFromPNG(patched)
	require.ErrorIs(t, err, errs.ErrInterlacedImage)
}
