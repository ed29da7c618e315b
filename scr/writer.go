package scr

import (
	"bytes"
	"fmt"

	"github.com/morkt/xami/format"
)

// TranscriptFormat selects one of the three human-editable transcript
// shapes spec §4.4.2 defines.
type TranscriptFormat uint8

const (
	FormatMLT TranscriptFormat = iota
	FormatTXT
	FormatXML
)

// Encoding selects the transcript's text encoding.
type Encoding uint8

const (
	EncodingShiftJIS Encoding = iota
	EncodingUTF8
)

func (e Encoding) name() string {
	if e == EncodingUTF8 {
		return "UTF-8"
	}
	return "Shift-JIS"
}

// WriteTranscript renders a parsed SCR script as an mlt/txt/xml transcript.
//
// duplicateRuEn controls whether both an "en" and a "ru" copy of each line
// are emitted (spec §9 Open Question, default true) for the mlt and xml
// formats; the txt format has no language tag and always emits one copy.
func WriteTranscript(tf TranscriptFormat, enc Encoding, fileID uint32, script Script, duplicateRuEn bool) ([]byte, error) {
	switch tf {
	case FormatMLT:
		return writeMLT(enc, script, duplicateRuEn)
	case FormatTXT:
		return writeTXT(enc, fileID, script)
	case FormatXML:
		return writeXML(enc, fileID, script, duplicateRuEn)
	default:
		return nil, fmt.Errorf("scr: unknown transcript format %d", tf)
	}
}

func lineText(enc Encoding, raw []byte, forXML bool) (string, error) {
	if enc == EncodingUTF8 {
		return RawToUTF8Text(raw, forXML)
	}
	return RawToShiftJISText(raw, forXML), nil
}

func writeMLT(enc Encoding, script Script, duplicateRuEn bool) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "SCR %d %s\n%d\n", script.TypeID, enc.name(), len(script.Lines))
	for _, l := range script.Lines {
		text, err := lineText(enc, l.Text, false)
		if err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, "[%06x|en] %s\n", l.ID, text)
		if duplicateRuEn {
			fmt.Fprintf(&buf, "[%06x|ru] %s\n", l.ID, text)
		}
	}
	return buf.Bytes(), nil
}

func writeTXT(enc Encoding, fileID uint32, script Script) ([]byte, error) {
	var buf bytes.Buffer
	if enc == EncodingUTF8 {
		buf.Write([]byte{0xEF, 0xBB, 0xBF})
	}
	fmt.Fprintf(&buf, "#FILENAME %08x\n#TYPE %d\n\n", fileID, script.TypeID)
	for _, l := range script.Lines {
		text, err := lineText(enc, l.Text, false)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "//<%08x> %s\n<%08x> %s\n\n", l.ID, text, l.ID, text)
	}
	return buf.Bytes(), nil
}

func writeXML(enc Encoding, fileID uint32, script Script, duplicateRuEn bool) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", enc.name())
	buf.WriteString("<!--Muv-Luv translation file-->\n")
	fmt.Fprintf(&buf, "<script id=\"%06x\" type=\"%d\">\n", fileID, script.TypeID)
	for _, l := range script.Lines {
		text, err := lineText(enc, l.Text, true)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "<line id=\"%06x\">\n", l.ID)
		fmt.Fprintf(&buf, "    <text language=\"%s\">%s</text>\n", format.LangEn, text)
		if duplicateRuEn {
			fmt.Fprintf(&buf, "    <text language=\"%s\">%s</text>\n", format.LangRu, text)
		}
		buf.WriteString("</line>\n")
	}
	buf.WriteString("</script>\n")
	return buf.Bytes(), nil
}
