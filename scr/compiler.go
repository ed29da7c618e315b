package scr

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/format"
)

// CompileOptions controls how lenient CompileMLT/CompileTXT are and where
// warnings go.
type CompileOptions struct {
	// IgnoreErrors makes a single bad line a warning instead of an abort
	// (spec §7 "ignore script errors", default on).
	IgnoreErrors bool
	// Logger receives one line per warning/error, matching the single
	// ordered log-sink contract in spec §6.
	Logger func(string)
}

func (o CompileOptions) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger(fmt.Sprintf(format, args...))
	}
}

// compiled accumulates lines by id, preserving first-seen insertion order,
// the same bookkeeping scr_writer::add_line / text_id_data does in
// original_source/xami/mltcomp.cc.
type compiled struct {
	order []uint32
	byID  map[uint32]*Line
}

func newCompiled() *compiled {
	return &compiled{byID: make(map[uint32]*Line)}
}

// addLine applies the duplicate rule from spec §4.4.3 / §8 invariant 5: an
// empty decoded text is dropped with a warning; a second occurrence of the
// same (id, lang) is dropped with a warning; otherwise it fills the slot,
// and a brand-new id is appended to the insertion order.
func (c *compiled) addLine(opts CompileOptions, id uint32, lineNo int, lang format.Lang, text RawText) {
	if text.Empty() {
		opts.logf("line %d: empty line for [%06x|%s] ignored", lineNo, id, lang)
		return
	}
	l, ok := c.byID[id]
	if !ok {
		l = &Line{ID: id, SourceLineNo: lineNo}
		c.byID[id] = l
		c.order = append(c.order, id)
	}
	if !l.Text[lang].Empty() {
		opts.logf("line %d: duplicate line for [%06x|%s] ignored", lineNo, id, lang)
		return
	}
	l.Text[lang] = text
}

// finish builds the ordered RawLine list for EncodeBinary, warning (never
// failing) on any record with no "ru" text (spec §4.4.3, §7).
func (c *compiled) finish(opts CompileOptions) []RawLine {
	out := make([]RawLine, 0, len(c.order))
	for _, id := range c.order {
		l := c.byID[id]
		if l.Text[format.LangRu].Empty() {
			opts.logf("no russian line for [%06x]", id)
		}
		out = append(out, RawLine{ID: id, Text: []byte(l.EffectiveText())})
	}
	return out
}

func stripBOM(b []byte) ([]byte, bool) {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:], true
	}
	return b, false
}

// logUnknownEscapes warns once per unrecognized `\x` sequence a line
// carried (spec §4.4.3 "an unknown escape is reported but the sequence is
// preserved verbatim"; §8 invariant 4).
func logUnknownEscapes(opts CompileOptions, lineNo int, id uint32, lang format.Lang, unknown []byte) {
	for _, e := range unknown {
		opts.logf("line %d: unknown escape \\%c for [%06x|%s] preserved verbatim", lineNo, e, id, lang)
	}
}

// convertSJISLineText turns a raw Shift-JIS-source line (read straight out
// of the transcript file) into its final raw SCR bytes by expanding escapes
// and passing SJIS double-byte sequences through untouched.
func convertSJISLineText(opts CompileOptions, lineNo int, id uint32, lang format.Lang, raw []byte) RawText {
	out, unknown := unescapeSJISBytes(raw)
	logUnknownEscapes(opts, lineNo, id, lang, unknown)
	return RawText(out)
}

// convertUTF8LineText is the UTF-8-source counterpart of convertSJISLineText:
// the input is already a decoded Go string (read straight out of the UTF-8
// source file), escapes are expanded, and the result is encoded back down
// to raw Shift-JIS bytes — the wire representation SCR always stores,
// regardless of which transcript encoding it was authored in.
func convertUTF8LineText(opts CompileOptions, lineNo int, id uint32, lang format.Lang, s string) (RawText, error) {
	unescaped, unknown := unescapeUTF8Text(s)
	logUnknownEscapes(opts, lineNo, id, lang, unknown)
	raw, err := UTF8ToShiftJIS(unescaped)
	if err != nil {
		return "", err
	}
	return RawText(raw), nil
}

var mltBracketRE = regexp.MustCompile(`^\[([0-9A-Fa-f]+)(?:\|(\w+))?\] ?(.*)$`)

// CompileMLTResult is CompileMLT's return value: the type id declared by
// the mlt header plus the compiled, ordered lines.
type CompileMLTResult struct {
	TypeID uint32
	Lines  []RawLine
}

// CompileMLT compiles an mlt transcript (spec §4.4.3) into a type id and
// ordered RawLines ready for EncodeBinary.
func CompileMLT(input []byte, opts CompileOptions) (CompileMLTResult, error) {
	input, hadBOM := stripBOM(input)
	enc := EncodingShiftJIS
	if hadBOM {
		enc = EncodingUTF8
	}

	lines := bytes.Split(input, []byte("\n"))
	if len(lines) == 0 {
		return CompileMLTResult{}, errs.ErrScriptEmpty
	}

	header := strings.TrimRight(string(lines[0]), "\r")
	fields := strings.Fields(header)
	if len(fields) < 2 || fields[0] != "SCR" {
		return CompileMLTResult{}, fmt.Errorf("%w: invalid mlt header %q", errs.ErrScriptSyntax, header)
	}
	typeID64, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return CompileMLTResult{}, fmt.Errorf("%w: invalid type id %q", errs.ErrScriptSyntax, fields[1])
	}
	typeID := uint32(typeID64)
	if len(fields) >= 3 {
		switch strings.ToLower(fields[2]) {
		case "shift-jis":
			enc = EncodingShiftJIS
		case "utf-8", "utf8":
			enc = EncodingUTF8
		default:
			return CompileMLTResult{}, fmt.Errorf("%w: unknown encoding %q", errs.ErrScriptSyntax, fields[2])
		}
	}

	declaredCount := 0
	if len(lines) > 1 {
		declaredCount, _ = strconv.Atoi(strings.TrimSpace(string(lines[1])))
	}

	c := newCompiled()
	for i := 2; i < len(lines); i++ {
		lineNo := i + 1
		raw := bytes.TrimRight(lines[i], "\r")
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			continue
		}
		if trimmed[0] == ';' {
			continue
		}
		if trimmed[0] != '[' {
			if !opts.IgnoreErrors {
				return CompileMLTResult{}, fmt.Errorf("%w: line %d: expected '[', got %q", errs.ErrScriptSyntax, lineNo, trimmed[:1])
			}
			opts.logf("line %d: syntax error (expected '[')", lineNo)
			continue
		}
		m := mltBracketRE.FindSubmatch(trimmed)
		if m == nil {
			if !opts.IgnoreErrors {
				return CompileMLTResult{}, fmt.Errorf("%w: line %d: malformed bracket line", errs.ErrScriptSyntax, lineNo)
			}
			opts.logf("line %d: syntax error (malformed bracket line)", lineNo)
			continue
		}
		id64, err := strconv.ParseUint(string(m[1]), 16, 32)
		if err != nil {
			if !opts.IgnoreErrors {
				return CompileMLTResult{}, fmt.Errorf("%w: line %d: bad hex id", errs.ErrScriptSyntax, lineNo)
			}
			opts.logf("line %d: bad hex id", lineNo)
			continue
		}
		lang := format.LangRu
		if len(m[2]) > 0 {
			langStr := string(m[2])
			if langStr != "ru" && langStr != "en" && langStr != "jp" {
				if !opts.IgnoreErrors {
					return CompileMLTResult{}, fmt.Errorf("%w: line %d: unknown language %q", errs.ErrScriptSyntax, lineNo, langStr)
				}
				opts.logf("line %d: unknown language identifier [%s]", lineNo, langStr)
				continue
			}
			lang = format.ParseLang(langStr)
		}

		var text RawText
		if enc == EncodingUTF8 {
			text, err = convertUTF8LineText(opts, lineNo, uint32(id64), lang, string(m[3]))
			if err != nil {
				return CompileMLTResult{}, errs.WithContext(err, "mlt", uint32(id64))
			}
		} else {
			text = convertSJISLineText(opts, lineNo, uint32(id64), lang, m[3])
		}
		c.addLine(opts, uint32(id64), lineNo, lang, text)
	}

	if len(c.order) != declaredCount {
		opts.logf("expected %d lines, got %d", declaredCount, len(c.order))
	}
	lines2 := c.finish(opts)
	if len(lines2) == 0 {
		return CompileMLTResult{}, errs.ErrScriptEmpty
	}
	return CompileMLTResult{TypeID: typeID, Lines: lines2}, nil
}
