package section_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morkt/xami/section"
)

// TestMinimumArchiveHeader exercises spec §8 scenario S1.
func TestMinimumArchiveHeader(t *testing.T) {
	h := section.AmiHeader{Count: 1, FirstPayloadOff: section.FirstPayloadOffset(1)}
	want := []byte{0x41, 0x4D, 0x49, 0x00, 0x01, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	require.Equal(t, want, h.Bytes())

	got, err := section.ParseAmiHeader(want)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestMinimumArchiveToc(t *testing.T) {
	r := section.TocRecord{ID: 1, Offset: 0x20, UnpackedSize: 3, PackedSize: 0}
	want := []byte{0x01, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	require.Equal(t, want, r.Bytes())
	require.Equal(t, uint32(3), r.StoredSize())
	require.False(t, r.Compressed())

	got, err := section.ParseTocRecord(want)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestZgrpToc(t *testing.T) {
	// spec §8 scenario S2: packed=3, unpacked=0x1234.
	r := section.TocRecord{ID: 0xABCDEF12, Offset: 0x20, UnpackedSize: 0x1234, PackedSize: 3}
	require.Equal(t, uint32(3), r.StoredSize())
	require.True(t, r.Compressed())
}

func TestParseAmiHeaderRejectsBadMagic(t *testing.T) {
	bad := make([]byte, section.AmiHeaderSize)
	copy(bad, []byte("NOPE"))
	_, err := section.ParseAmiHeader(bad)
	require.Error(t, err)
}
