package scr

import (
	"strings"

	"github.com/morkt/xami/format"
)

// xmlEscape applies the four XML entity escapes spec §4.4.2 requires for
// the xml transcript variant, matching escape_char_xml in the original
// writer (original_source/xami/mltwrite.cc).
func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// escapeRawByte writes the canonical escape for a single control byte, or
// the raw byte itself if it carries no escape.
func escapeRawByte(out *strings.Builder, c byte, forXML bool) {
	if c == '\n' {
		if !forXML {
			out.WriteString(`\n`)
		} else {
			out.WriteByte(c)
		}
		return
	}
	if esc, ok := format.ControlEscape[c]; ok {
		out.WriteString(esc)
		return
	}
	if forXML {
		switch c {
		case '&':
			out.WriteString("&amp;")
			return
		case '"':
			out.WriteString("&quot;")
			return
		case '<':
			out.WriteString("&lt;")
			return
		case '>':
			out.WriteString("&gt;")
			return
		}
	}
	out.WriteByte(c)
}

// RawToShiftJISText escapes raw SCR bytes for the Shift-JIS output path:
// control bytes become their escape token, SJIS double-byte sequences are
// transported as raw pairs, everything else is copied verbatim (spec
// §4.4.2).
func RawToShiftJISText(raw []byte, forXML bool) string {
	var out strings.Builder
	out.Grow(len(raw) + 4)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if format.IsSJISLead(c) && i+1 < len(raw) {
			out.WriteByte(c)
			i++
			out.WriteByte(raw[i])
			continue
		}
		escapeRawByte(&out, c, forXML)
	}
	return out.String()
}

// RawToUTF8Text decodes raw SCR bytes through CP-932 for the UTF-8 output
// path, escaping control bytes the same way as RawToShiftJISText (spec
// §4.4.2). Control bytes never collide with an SJIS lead byte range, so the
// raw buffer is first split on them, and every non-control run is decoded
// as Shift-JIS before being appended.
func RawToUTF8Text(raw []byte, forXML bool) (string, error) {
	var out strings.Builder
	start := 0
	flush := func(end int) error {
		if end <= start {
			return nil
		}
		decoded, err := ShiftJISToUTF8(raw[start:end])
		if err != nil {
			return err
		}
		if forXML {
			out.WriteString(xmlEscape(decoded))
		} else {
			out.WriteString(decoded)
		}
		return nil
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\n' || isControlByte(c) {
			if err := flush(i); err != nil {
				return "", err
			}
			escapeRawByte(&out, c, forXML)
			start = i + 1
		}
	}
	if err := flush(len(raw)); err != nil {
		return "", err
	}
	return out.String(), nil
}

func isControlByte(c byte) bool {
	_, ok := format.ControlEscape[c]
	return ok
}

// unescapeSJISBytes is the inverse of RawToShiftJISText: it walks a line
// already read from a Shift-JIS-encoded source file and expands `\x`
// escapes back to their control byte, treating SJIS double-byte sequences
// as opaque pairs so a trail byte in the lead-byte range is never mistaken
// for a backslash or slash. It mirrors scr_writer::convert_string in
// original_source/xami/mltcomp.cc, including the "//" trailing-comment cut
// and unknown-escape passthrough.
func unescapeSJISBytes(input []byte) (out []byte, unknownEscapes []byte) {
	out = make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		c := input[i]
		i++
		if i < len(input) {
			if format.IsSJISLead(c) {
				out = append(out, c, input[i])
				i++
				continue
			}
			if c == '\\' {
				e := input[i]
				i++
				if raw, ok := format.EscapeControl[e]; ok {
					out = append(out, raw)
					continue
				}
				unknownEscapes = append(unknownEscapes, e)
				out = append(out, '\\', e)
				continue
			}
			if c == '/' && input[i] == '/' {
				break
			}
		}
		out = append(out, c)
	}
	return out, unknownEscapes
}

// unescapeUTF8Text is the inverse of RawToUTF8Text: it walks a line already
// read from a UTF-8-encoded source file and expands `\x` escapes back to
// their control byte, leaving every other byte — including each byte of a
// multi-byte UTF-8 rune — untouched. This is safe to do byte-by-byte
// because UTF-8 continuation and lead bytes are always >= 0x80 and can
// never be mistaken for the ASCII '\\' or '/' this function looks for.
// Mirrors scr_writer::convert_string_utf8 in
// original_source/xami/mltcomp.cc, minus the explicit surrogate-pair
// assembly: Go's UTF-8 decoder (invoked later by UTF8ToShiftJIS) already
// merges astral code points into single runes.
func unescapeUTF8Text(input string) (out string, unknownEscapes []byte) {
	var b strings.Builder
	b.Grow(len(input))
	data := []byte(input)
	for i := 0; i < len(data); {
		c := data[i]
		i++
		if c == '\\' && i < len(data) {
			e := data[i]
			i++
			if raw, ok := format.EscapeControl[e]; ok {
				b.WriteByte(raw)
				continue
			}
			unknownEscapes = append(unknownEscapes, e)
			b.WriteByte('\\')
			b.WriteByte(e)
			continue
		}
		if c == '/' && i < len(data) && data[i] == '/' {
			break
		}
		b.WriteByte(c)
	}
	return b.String(), unknownEscapes
}
