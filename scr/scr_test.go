package scr_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morkt/xami/scr"
)

// TestCompileMLTScenarioS3 exercises spec §8 scenario S3.
func TestCompileMLTScenarioS3(t *testing.T) {
	input := []byte("SCR 1 UTF-8\n1\n\n[00000A|ru] hi\n")
	res, err := scr.CompileMLT(input, scr.CompileOptions{IgnoreErrors: true})
	require.NoError(t, err)
	require.Equal(t, uint32(1), res.TypeID)
	require.Len(t, res.Lines, 1)
	require.Equal(t, uint32(0x0A), res.Lines[0].ID)
	require.Equal(t, []byte("hi"), res.Lines[0].Text)

	blob := scr.EncodeBinary(res.TypeID, res.Lines)
	want := []byte{
		'S', 'C', 'R', 0,
		0x01, 0x00, 0x00, 0x00, // type
		0x01, 0x00, 0x00, 0x00, // count
		0x18, 0x00, 0x00, 0x00, // offset 24
		0x02, 0x00, 0x00, 0x00, // length 2
		0x0A, 0x00, 0x00, 0x00, // id
		'h', 'i', 0,
	}
	require.Equal(t, want, blob)
}

func TestBinaryRoundTrip(t *testing.T) {
	lines := []scr.RawLine{
		{ID: 1, Text: []byte("alpha")},
		{ID: 2, Text: []byte("beta")},
	}
	blob := scr.EncodeBinary(7, lines)
	got, err := scr.ParseBinary(blob)
	require.NoError(t, err)
	require.Equal(t, uint32(7), got.TypeID)
	require.Len(t, got.Lines, 2)
	require.Equal(t, lines[0].ID, got.Lines[0].ID)
	require.Equal(t, lines[0].Text, got.Lines[0].Text)
	require.Equal(t, lines[1].Text, got.Lines[1].Text)
}

func TestEscapeCompleteness(t *testing.T) {
	raw := []byte{'a', 0x01, 0x02, 0x03, 0x05, 0x12, 0x13, 0x1E, '\n', 'b'}
	text := scr.RawToShiftJISText(raw, false)
	require.Equal(t, `a\e\l\p\r\c\d\m\nb`, text)
}

func TestDuplicateLinePreservesFirstOccurrence(t *testing.T) {
	input := []byte("SCR 1 Shift-JIS\n1\n\n[000001|ru] first\n\n[000001|ru] second\n")
	var warnings []string
	res, err := scr.CompileMLT(input, scr.CompileOptions{IgnoreErrors: true, Logger: func(s string) { warnings = append(warnings, s) }})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	require.Equal(t, []byte("first"), res.Lines[0].Text)
	require.NotEmpty(t, warnings)
}

func TestMissingRussianIsWarningOnly(t *testing.T) {
	input := []byte("SCR 1 Shift-JIS\n1\n\n[000001|en] only en\n")
	var warnings []string
	res, err := scr.CompileMLT(input, scr.CompileOptions{IgnoreErrors: true, Logger: func(s string) { warnings = append(warnings, s) }})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	require.Equal(t, []byte("only en"), res.Lines[0].Text)
	require.NotEmpty(t, warnings)
}

func TestUnknownEscapeWarnsAndSurvivesVerbatim(t *testing.T) {
	input := []byte("SCR 1 Shift-JIS\n1\n\n[000001|ru] a\\qb\n")
	var warnings []string
	res, err := scr.CompileMLT(input, scr.CompileOptions{IgnoreErrors: true, Logger: func(s string) { warnings = append(warnings, s) }})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	require.Equal(t, []byte(`a\qb`), res.Lines[0].Text)

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "unknown escape") {
			found = true
		}
	}
	require.True(t, found, "expected an unknown-escape warning, got %v", warnings)
}

func TestCompileTXT(t *testing.T) {
	input := []byte("#FILENAME 0000000A\n#TYPE 3\n\n//<00000001> hi\n<00000001> hi\n\n")
	res, err := scr.CompileTXT(input, scr.CompileOptions{IgnoreErrors: true})
	require.NoError(t, err)
	require.Equal(t, uint32(0x0A), res.FileID)
	require.Equal(t, uint32(3), res.TypeID)
	require.Len(t, res.Lines, 1)
	require.Equal(t, []byte("hi"), res.Lines[0].Text)
}

func TestWriteTranscriptMLT(t *testing.T) {
	script := scr.Script{TypeID: 1, Lines: []scr.RawLine{{ID: 0x0A, Text: []byte("hi")}}}
	out, err := scr.WriteTranscript(scr.FormatMLT, scr.EncodingUTF8, 0, script, true)
	require.NoError(t, err)
	require.Contains(t, string(out), "[00000a|en] hi")
	require.Contains(t, string(out), "[00000a|ru] hi")
}

func TestEncodingSymmetry(t *testing.T) {
	u8, err := scr.ShiftJISToUTF8([]byte{0x82, 0xA0}) // hiragana "a"
	require.NoError(t, err)
	back, err := scr.UTF8ToShiftJIS(u8)
	require.NoError(t, err)
	require.Equal(t, []byte{0x82, 0xA0}, back)
}
