package byteio

import (
	"fmt"
	"io"
	"os"

	"github.com/morkt/xami/errs"
)

// Writer is a sequential, seekable writer over a file, used by the archive
// builder to lay out the TOC region before the payload region is known and
// then come back and fill it in.
type Writer struct {
	f   *os.File
	off int64
}

// NewWriter wraps an already-open file.
func NewWriter(f *os.File) *Writer {
	return &Writer{f: f}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	w.off += int64(n)
	if err != nil {
		return n, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return n, nil
}

// SeekTo moves the write position to an absolute offset. Writes past the
// current end-of-file are zero-filled by the OS on most platforms.
func (w *Writer) SeekTo(offset int64) error {
	n, err := w.f.Seek(offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	w.off = n
	return nil
}

// CurrentOffset returns the writer's current absolute position.
func (w *Writer) CurrentOffset() uint32 {
	return uint32(w.off)
}

// Sync flushes the underlying file.
func (w *Writer) Sync() error {
	return w.f.Sync()
}
