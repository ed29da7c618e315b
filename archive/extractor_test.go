package archive_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morkt/xami/archive"
	"github.com/morkt/xami/byteio"
	"github.com/morkt/xami/compress"
	"github.com/morkt/xami/section"
)

func onePixel(b, g, r, a byte) []byte { return []byte{b, g, r, a} }

type capturingSink struct {
	raw, script, image []uint32
}

func (c *capturingSink) WriteRaw(id uint32, data []byte) bool    { c.raw = append(c.raw, id); return true }
func (c *capturingSink) WriteScript(id uint32, data []byte) bool { c.script = append(c.script, id); return true }
func (c *capturingSink) WriteImage(id uint32, data []byte) bool  { c.image = append(c.image, id); return true }

// buildArchive assembles a minimal in-memory AMI archive from (id, stored
// bytes, unpacked size, packed size) tuples, for exercising Extract without
// needing a Builder.
func buildArchive(t *testing.T, entries []section.TocRecord, payloads [][]byte) []byte {
	t.Helper()
	n := uint32(len(entries))
	first := section.FirstPayloadOffset(n)

	var buf []byte
	buf = append(buf, section.AmiHeader{Count: n, FirstPayloadOff: first}.Bytes()...)

	offset := first
	finalRecs := make([]section.TocRecord, n)
	for i, rec := range entries {
		rec.Offset = offset
		finalRecs[i] = rec
		offset += rec.StoredSize()
	}
	for _, rec := range finalRecs {
		buf = append(buf, rec.Bytes()...)
	}
	for _, p := range payloads {
		buf = append(buf, p...)
	}
	return buf
}

func TestExtractDispatchesBySignature(t *testing.T) {
	rawPayload := []byte("hello")

	scrPayload := []byte{'S', 'C', 'R', 0, 1, 0, 0, 0, 0, 0, 0, 0, 'x'}

	grpHeader := section.GrpHeader{Width: 1, Height: 1}
	grpLogical := append(grpHeader.Bytes(), onePixel(0x80, 0x80, 0x80, 0xFF)...)
	grpPacked, err := compress.NewZlibCodec().Compress(grpLogical)
	require.NoError(t, err)

	entries := []section.TocRecord{
		{ID: 1, UnpackedSize: uint32(len(rawPayload)), PackedSize: 0},
		{ID: 2, UnpackedSize: uint32(len(scrPayload)), PackedSize: 0},
		{ID: 3, UnpackedSize: uint32(len(grpLogical)), PackedSize: uint32(len(grpPacked))},
	}
	data := buildArchive(t, entries, [][]byte{rawPayload, scrPayload, grpPacked})

	r, err := archive.NewReader(byteio.NewView(data))
	require.NoError(t, err)

	sink := &capturingSink{}
	n, err := archive.Extract(r, sink, archive.ExtractOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []uint32{1}, sink.raw)
	require.Equal(t, []uint32{2}, sink.script)
	require.Equal(t, []uint32{3}, sink.image)
}

type abortingSink struct{ n int }

func (a *abortingSink) WriteRaw(id uint32, data []byte) bool    { a.n++; return a.n < 2 }
func (a *abortingSink) WriteScript(id uint32, data []byte) bool { a.n++; return true }
func (a *abortingSink) WriteImage(id uint32, data []byte) bool  { a.n++; return true }

func TestExtractStopsWhenSinkAborts(t *testing.T) {
	entries := []section.TocRecord{
		{ID: 1, UnpackedSize: 3},
		{ID: 2, UnpackedSize: 3},
		{ID: 3, UnpackedSize: 3},
	}
	data := buildArchive(t, entries, [][]byte{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	r, err := archive.NewReader(byteio.NewView(data))
	require.NoError(t, err)

	sink := &abortingSink{}
	n, err := archive.Extract(r, sink, archive.ExtractOptions{})
	require.Error(t, err)
	require.Equal(t, 1, n)
}
