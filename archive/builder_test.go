package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morkt/xami/archive"
	"github.com/morkt/xami/grp"
)

// TestBuildMinimumArchive exercises spec §8 scenario S1 end to end through
// Builder.Build.
func TestBuildMinimumArchive(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "00000001.dat"), []byte{0x00, 0x01, 0x02}, 0o644))

	dst := filepath.Join(t.TempDir(), "out.ami")
	require.NoError(t, archive.NewBuilder().Build(src, dst, archive.BuildOptions{}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	want := []byte{
		'A', 'M', 'I', 0,
		0x01, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,

		0x01, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,

		0x00, 0x01, 0x02,
	}
	require.Equal(t, want, got)
}

// TestBuildZgrpPassthrough exercises spec §8 scenario S2.
func TestBuildZgrpPassthrough(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "ABCDEF12.zgrp"),
		[]byte{0x34, 0x12, 0x00, 0x00, 0xAA, 0xBB, 0xCC}, 0o644))

	dst := filepath.Join(t.TempDir(), "out.ami")
	require.NoError(t, archive.NewBuilder().Build(src, dst, archive.BuildOptions{}))

	r, err := archive.Open(dst)
	require.NoError(t, err)
	toc := r.TOC()
	require.Len(t, toc, 1)
	require.Equal(t, uint32(0xABCDEF12), toc[0].ID)
	require.Equal(t, uint32(3), toc[0].PackedSize)
	require.Equal(t, uint32(0x1234), toc[0].UnpackedSize)

	var buf bytes.Buffer
	_, err = r.CopyRaw(0, &buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, buf.Bytes())
}

// TestBuildThenExtractImageRoundTrip exercises spec §8 scenario S4: a
// packed GRP entry comes back out as a recognizable 1x1 PNG.
func TestBuildThenExtractImageRoundTrip(t *testing.T) {
	src := t.TempDir()
	px := []byte{0x80, 0x80, 0x80, 0xFF}
	png, err := grp.EncodeToPNG(px, 1, 1, 0, 0)
	require.NoError(t, err)
	// classify rejects id 0 on the packing side (spec §3 "zero id ...
	// rejected"); spec §8 scenario S4 is about the extraction-side naming
	// convention, which this test covers with a nonzero id instead.
	require.NoError(t, os.WriteFile(filepath.Join(src, "00000001.png"), png, 0o644))

	archivePath := filepath.Join(t.TempDir(), "out.ami")
	require.NoError(t, archive.NewBuilder().Build(src, archivePath, archive.BuildOptions{}))

	r, err := archive.Open(archivePath)
	require.NoError(t, err)

	destDir := t.TempDir()
	sink := archive.NewFilesystemSink(archive.FilesystemSinkOptions{
		DestDir:       destDir,
		ImageFormat:   archive.ImagePNG,
		ExtractImages: true,
	})
	n, err := archive.Extract(r, sink, archive.ExtractOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	outPNG, err := os.ReadFile(filepath.Join(destDir, "00000001.png"))
	require.NoError(t, err)
	img, err := grp.DecodeFromPNG(outPNG)
	require.NoError(t, err)
	require.Equal(t, 1, img.Width)
	require.Equal(t, 1, img.Height)
	require.Equal(t, px, img.Pixels)
}

// TestBuildMergeFromSource exercises spec §8 scenario S5.
func TestBuildMergeFromSource(t *testing.T) {
	origDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(origDir, "00000010.dat"), []byte("AAA"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(origDir, "00000020.dat"), []byte("BBB"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(origDir, "00000030.dat"), []byte("CCC"), 0o644))

	origArchive := filepath.Join(t.TempDir(), "orig.ami")
	require.NoError(t, archive.NewBuilder().Build(origDir, origArchive, archive.BuildOptions{}))

	patchDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(patchDir, "00000020.dat"), []byte("NEW"), 0o644))

	mergedArchive := filepath.Join(t.TempDir(), "merged.ami")
	require.NoError(t, archive.NewBuilder().Build(patchDir, mergedArchive, archive.BuildOptions{MergeFrom: origArchive}))

	r, err := archive.Open(mergedArchive)
	require.NoError(t, err)
	toc := r.TOC()
	require.Len(t, toc, 3)

	ids := []uint32{toc[0].ID, toc[1].ID, toc[2].ID}
	require.Equal(t, []uint32{0x10, 0x20, 0x30}, ids)

	for i, want := range [][]byte{[]byte("AAA"), []byte("NEW"), []byte("CCC")} {
		_, payload, err := r.Decode(i)
		require.NoError(t, err)
		require.Equal(t, want, payload)
	}
}

// TestBuildAbortsOnInterlacedPNG exercises spec §8 scenario S6: the build
// fails, and no output archive is left behind.
func TestBuildAbortsOnInterlacedPNG(t *testing.T) {
	src := t.TempDir()
	px := []byte{1, 2, 3, 0xFF}
	png, err := grp.EncodeToPNG(px, 1, 1, 0, 0)
	require.NoError(t, err)

	patched := append([]byte(nil), png...)
	patched[8+8+12] = 1 // flip IHDR's interlace-method byte
	require.NoError(t, os.WriteFile(filepath.Join(src, "00000001.png"), patched, 0o644))

	dst := filepath.Join(t.TempDir(), "out.ami")
	err = archive.NewBuilder().Build(src, dst, archive.BuildOptions{})
	require.Error(t, err)

	_, statErr := os.Stat(dst)
	require.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	require.Empty(t, entries, "temp file must be removed on abort")
}
