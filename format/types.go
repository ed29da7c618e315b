// Package format holds the small shared enumerations used across the codec
// and archive packages: entry kinds, translation language tags, and the
// control-byte escape alphabet.
package format

// EntryKind classifies a decoded archive-entry payload by its sniffed
// signature (spec §3, "Entry payload signatures").
type EntryKind uint8

const (
	// KindRaw is an opaque payload with no recognized signature.
	KindRaw EntryKind = iota
	// KindScript is an "SCR\0"-tagged payload.
	KindScript
	// KindImage is a "GRP\0"-tagged payload.
	KindImage
)

func (k EntryKind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindImage:
		return "image"
	default:
		return "raw"
	}
}

// Lang is a translation-id tag: one of the three text slots a Line carries.
type Lang uint8

const (
	LangRu Lang = iota
	LangEn
	LangJp
)

// String returns the lowercase tag used in mlt headers/brackets.
func (l Lang) String() string {
	switch l {
	case LangRu:
		return "ru"
	case LangEn:
		return "en"
	case LangJp:
		return "jp"
	default:
		return "?"
	}
}

// ParseLang parses a lowercase lang tag, defaulting to LangRu for an unknown
// or empty tag per spec §4.4.3 ("defaults to ru").
func ParseLang(s string) Lang {
	switch s {
	case "en":
		return LangEn
	case "jp":
		return LangJp
	default:
		return LangRu
	}
}

// FileKind classifies a source file during packing (spec §4.7/§4.8), by
// extension.
type FileKind uint8

const (
	FileKindUnknown FileKind = iota
	FileKindPNG
	FileKindMLT
	FileKindSCR
	FileKindTXT
	FileKindGRP
	FileKindZGRP
	FileKindOther
)
