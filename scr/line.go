// Package scr implements the SCR binary script codec and the mlt/txt/xml
// text-transcript writer and compiler (spec §4.4).
package scr

import "github.com/morkt/xami/format"

// Line is one logical script line, addressable by three language slots
// (spec §3 "Line (in-memory)").
type Line struct {
	ID           uint32
	SourceLineNo int
	Text         [3]RawText // indexed by format.LangRu/LangEn/LangJp
}

// RawText is compiled line text: raw control-byte-laden SCR bytes, with
// escapes already expanded. Lines authored in UTF-8 are encoded down to
// Shift-JIS before they are stored here, so on both source paths the Go
// string holds raw bytes (including SJIS double-byte sequences) rather than
// valid UTF-8.
type RawText string

// Empty reports whether this language slot has no text.
func (t RawText) Empty() bool { return len(t) == 0 }

// EffectiveLang returns LangRu if the ru slot is filled, else LangEn,
// mirroring line_data::get_lang() in the original compiler (spec §3
// "prefer ru, else en").
func (l Line) EffectiveLang() format.Lang {
	if !l.Text[format.LangRu].Empty() {
		return format.LangRu
	}
	return format.LangEn
}

// EffectiveText returns the ru text if present, else the en text.
func (l Line) EffectiveText() RawText {
	return l.Text[l.EffectiveLang()]
}
