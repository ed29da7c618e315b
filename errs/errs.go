// Package errs collects the sentinel errors shared by every xami package.
//
// Call sites wrap a sentinel with extra context using fmt.Errorf("...: %w", ...),
// or with WithContext when the context is a filename and/or an entry id.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is a generic I/O failure at the byteio layer.
	ErrIO = errors.New("i/o error")

	// ErrNotAmi is returned when a file's magic bytes are not "AMI\0".
	ErrNotAmi = errors.New("not an AMI archive")

	// ErrBadOffset is returned when a TOC record or sub-view extends past
	// end-of-file.
	ErrBadOffset = errors.New("offset out of bounds")

	// ErrInvalidCompressedStream is returned when a zlib stream fails to
	// decode, does not end on stream-end, or requires a preset dictionary.
	ErrInvalidCompressedStream = errors.New("invalid compressed stream")

	// ErrUnsupportedImage covers interlaced PNG input and images whose
	// dimensions exceed 32767 px per axis.
	ErrUnsupportedImage = errors.New("unsupported image")

	// ErrInterlacedImage is a specific case of ErrUnsupportedImage.
	ErrInterlacedImage = fmt.Errorf("interlaced PNG is not supported: %w", ErrUnsupportedImage)

	// ErrInvalidParams is returned for zero width/height and similar
	// parameter errors.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrInvalidEncoding is returned when a Shift-JIS/UTF-8 conversion
	// cannot round-trip a byte sequence.
	ErrInvalidEncoding = errors.New("invalid text encoding")

	// ErrScriptSyntax is returned for an unparsable transcript line when
	// the caller has not asked to ignore script errors.
	ErrScriptSyntax = errors.New("script syntax error")

	// ErrScriptEmpty is returned when a transcript compiles to zero lines.
	ErrScriptEmpty = errors.New("script has no lines")

	// ErrDuplicateLine names a dropped (id, lang) duplicate. It is never
	// returned to a caller; the compiler reports a dropped duplicate as a
	// plain warning line through its Logger.
	ErrDuplicateLine = errors.New("duplicate line")

	// ErrMissingRussianLine is a warning-only condition: a record has no
	// "ru" text at emission time.
	ErrMissingRussianLine = errors.New("missing russian line")

	// ErrAborted is returned when a Sink stops an extraction, or an
	// AbortFunc stops a build, in progress. An AbortFunc that stops an
	// extraction ends it without an error.
	ErrAborted = errors.New("aborted")
)

// WithContext wraps err with the offending filename and, if nonzero, the
// entry id, matching the "user-visible failures pair the kind with the
// offending filename and entry id" contract.
func WithContext(err error, filename string, id uint32) error {
	if err == nil {
		return nil
	}
	if id != 0 {
		return fmt.Errorf("%s (id=%08x): %w", filename, id, err)
	}
	return fmt.Errorf("%s: %w", filename, err)
}
