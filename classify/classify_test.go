package classify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morkt/xami/classify"
	"github.com/morkt/xami/format"
)

func TestClassifyRejectsHiddenSystemDirectory(t *testing.T) {
	_, _, ok := classify.Classify("00000001.dat", classify.FileAttrs{Hidden: true}, 10)
	require.False(t, ok)

	_, _, ok = classify.Classify("00000001.dat", classify.FileAttrs{System: true}, 10)
	require.False(t, ok)

	_, _, ok = classify.Classify("00000001.dat", classify.FileAttrs{Directory: true}, 10)
	require.False(t, ok)
}

func TestClassifyRejectsZeroAndOversizedFiles(t *testing.T) {
	_, _, ok := classify.Classify("00000001.dat", classify.FileAttrs{}, 0)
	require.False(t, ok)

	_, _, ok = classify.Classify("00000001.dat", classify.FileAttrs{}, 1<<33)
	require.False(t, ok)
}

func TestClassifyRejectsUnmatchedOrZeroID(t *testing.T) {
	_, _, ok := classify.Classify("noextension", classify.FileAttrs{}, 10)
	require.False(t, ok)

	_, _, ok = classify.Classify("00000000.dat", classify.FileAttrs{}, 10)
	require.False(t, ok, "a zero id must be rejected")
}

func TestClassifyRecognizedExtensions(t *testing.T) {
	cases := []struct {
		name string
		kind format.FileKind
	}{
		{"0000ABCD.png", format.FileKindPNG},
		{"0000ABCD.mlt", format.FileKindMLT},
		{"0000ABCD.scr", format.FileKindSCR},
		{"0000ABCD.txt", format.FileKindTXT},
		{"0000ABCD.grp", format.FileKindGRP},
		{"0000ABCD.zgrp", format.FileKindZGRP},
		{"0000ABCD.PNG", format.FileKindPNG}, // case-insensitive extension
	}
	for _, c := range cases {
		kind, id, ok := classify.Classify(c.name, classify.FileAttrs{}, 10)
		require.True(t, ok, c.name)
		require.Equal(t, c.kind, kind, c.name)
		require.Equal(t, uint32(0xABCD), id, c.name)
	}
}

func TestClassifyUnrecognizedExtensionFallsBackToOther(t *testing.T) {
	kind, id, ok := classify.Classify("0000ABCD.dat", classify.FileAttrs{}, 10)
	require.True(t, ok)
	require.Equal(t, format.FileKindOther, kind)
	require.Equal(t, uint32(0xABCD), id)
}

func TestResolveTXTFileID(t *testing.T) {
	content := []byte("#FILENAME 0000ABCD\n#TYPE 3\n\n<000001> hello\n")
	id, ok := classify.ResolveTXTFileID(content)
	require.True(t, ok)
	require.Equal(t, uint32(0xABCD), id)
}

func TestResolveTXTFileIDMissingHeader(t *testing.T) {
	content := []byte("<000001> hello\n")
	_, ok := classify.ResolveTXTFileID(content)
	require.False(t, ok)
}
