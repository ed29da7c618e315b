package scr

import (
	"fmt"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/morkt/xami/errs"
)

// ShiftJISToUTF8 decodes raw Shift-JIS (Windows code page 932) bytes to a
// UTF-8 string. It is the only supported legacy encoding (spec §4.4.4).
func ShiftJISToUTF8(b []byte) (string, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInvalidEncoding, err)
	}
	return string(out), nil
}

// UTF8ToShiftJIS encodes a UTF-8 string to raw Shift-JIS (CP-932) bytes.
// Surrogate pairs are assembled by the Go UTF-8 decoder inside transform
// before encoding, per spec §4.4.3.
func UTF8ToShiftJIS(s string) ([]byte, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidEncoding, err)
	}
	return out, nil
}
