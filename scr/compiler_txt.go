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

var txtLineRE = regexp.MustCompile(`^<([0-9A-Fa-f]+)> ?(.*)$`)

// CompileTXTResult is CompileTXT's return value: the compiled lines plus
// whatever header directives the transcript carried.
type CompileTXTResult struct {
	Lines  []RawLine
	FileID uint32 // from "#FILENAME <hex8>", 0 if absent
	TypeID uint32 // from "#TYPE <dec>", 0 if absent
}

// CompileTXT compiles a txt transcript (spec §4.4.3) into ordered RawLines.
// Comments start with "//"; a line beginning with '#' is a header directive
// ("#FILENAME <hex>" / "#TYPE <dec>"); duplicate ids follow the same
// single-record rule as CompileMLT (only one language slot, so a duplicate
// id unconditionally drops the second occurrence).
func CompileTXT(input []byte, opts CompileOptions) (CompileTXTResult, error) {
	input, hadBOM := stripBOM(input)
	enc := EncodingShiftJIS
	if hadBOM {
		enc = EncodingUTF8
	}

	lines := bytes.Split(input, []byte("\n"))
	var result CompileTXTResult
	c := newCompiled()

	for i, rawLine := range lines {
		lineNo := i + 1
		raw := bytes.TrimRight(rawLine, "\r")
		trimmed := bytes.TrimLeft(raw, " \t")
		if len(trimmed) == 0 {
			continue
		}
		if trimmed[0] == '#' {
			parseTXTHeader(trimmed[1:], &result)
			continue
		}
		if len(trimmed) >= 2 && trimmed[0] == '/' && trimmed[1] == '/' {
			continue
		}
		if trimmed[0] != '<' {
			if !opts.IgnoreErrors {
				return CompileTXTResult{}, fmt.Errorf("%w: line %d: expected '<', got %q", errs.ErrScriptSyntax, lineNo, trimmed[:1])
			}
			opts.logf("line %d: syntax error (expected '<')", lineNo)
			continue
		}
		m := txtLineRE.FindSubmatch(trimmed)
		if m == nil {
			if !opts.IgnoreErrors {
				return CompileTXTResult{}, fmt.Errorf("%w: line %d: malformed line", errs.ErrScriptSyntax, lineNo)
			}
			opts.logf("line %d: syntax error (malformed line)", lineNo)
			continue
		}
		id64, err := strconv.ParseUint(string(m[1]), 16, 32)
		if err != nil {
			opts.logf("line %d: bad hex id", lineNo)
			continue
		}

		var text RawText
		if enc == EncodingUTF8 {
			text, err = convertUTF8LineText(opts, lineNo, uint32(id64), format.LangRu, string(m[2]))
			if err != nil {
				return CompileTXTResult{}, errs.WithContext(err, "txt", uint32(id64))
			}
		} else {
			text = convertSJISLineText(opts, lineNo, uint32(id64), format.LangRu, m[2])
		}
		// txt has a single text slot per id; the ru slot is used as "the"
		// slot, which also keeps finish's missing-ru warning quiet.
		c.addLine(opts, uint32(id64), lineNo, format.LangRu, text)
	}

	// Every txt line is stored in the ru slot (format.LangRu == 0), so
	// c.finish's "no russian line" check never fires for this format.
	result.Lines = c.finish(opts)
	if len(result.Lines) == 0 {
		return CompileTXTResult{}, errs.ErrScriptEmpty
	}
	return result, nil
}

func parseTXTHeader(b []byte, result *CompileTXTResult) {
	fields := strings.Fields(string(b))
	if len(fields) < 2 {
		return
	}
	switch strings.ToUpper(fields[0]) {
	case "FILENAME":
		if v, err := strconv.ParseUint(fields[1], 16, 32); err == nil {
			result.FileID = uint32(v)
		}
	case "TYPE":
		if v, err := strconv.ParseUint(fields[1], 10, 32); err == nil {
			result.TypeID = uint32(v)
		}
	}
}
