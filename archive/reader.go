// Package archive implements the AMI container reader, extractor, and
// builder: the three public surfaces spec.md §4.5-§4.7 describe.
package archive

import (
	"fmt"
	"io"

	"github.com/morkt/xami/byteio"
	"github.com/morkt/xami/compress"
	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/section"
)

// Reader is a read-only view over an AMI archive: a validated header plus
// its full table of contents, both read once at Open time.
type Reader struct {
	view *byteio.View
	toc  []section.TocRecord
}

// Open reads path fully and validates it as an AMI archive.
func Open(path string) (*Reader, error) {
	v, err := byteio.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(v)
}

// NewReader validates an already-loaded view as an AMI archive, parsing its
// header and table of contents (spec §4.5).
func NewReader(v *byteio.View) (*Reader, error) {
	hb, err := v.Slice(0, section.AmiHeaderSize)
	if err != nil {
		return nil, errs.ErrBadOffset
	}
	h, err := section.ParseAmiHeader(hb)
	if err != nil {
		return nil, err
	}

	toc := make([]section.TocRecord, 0, h.Count)
	off := uint64(section.TocOffset())
	for i := uint32(0); i < h.Count; i++ {
		rb, err := v.Slice(off, section.TocRecordSize)
		if err != nil {
			return nil, errs.ErrBadOffset
		}
		rec, err := section.ParseTocRecord(rb)
		if err != nil {
			return nil, err
		}
		if _, err := v.Slice(uint64(rec.Offset), uint64(rec.StoredSize())); err != nil {
			return nil, fmt.Errorf("toc[%d] (id=%08x): %w", i, rec.ID, errs.ErrBadOffset)
		}
		toc = append(toc, rec)
		off += section.TocRecordSize
	}

	return &Reader{view: v, toc: toc}, nil
}

// Count returns the number of entries in the archive.
func (r *Reader) Count() int { return len(r.toc) }

// TOC returns the full table of contents, in on-disk order.
func (r *Reader) TOC() []section.TocRecord {
	out := make([]section.TocRecord, len(r.toc))
	copy(out, r.toc)
	return out
}

// storedBytes returns entry seq's on-disk bytes, exactly as stored (still
// deflated when Compressed()).
func (r *Reader) storedBytes(seq int) (section.TocRecord, []byte, error) {
	if seq < 0 || seq >= len(r.toc) {
		return section.TocRecord{}, nil, errs.ErrBadOffset
	}
	rec := r.toc[seq]
	b, err := r.view.Slice(uint64(rec.Offset), uint64(rec.StoredSize()))
	if err != nil {
		return rec, nil, err
	}
	return rec, b, nil
}

// CopyRaw writes entry seq's on-disk bytes verbatim to w, with no inflate
// step — the bytes a merge-from-source build reuses unchanged.
func (r *Reader) CopyRaw(seq int, w io.Writer) (section.TocRecord, error) {
	rec, b, err := r.storedBytes(seq)
	if err != nil {
		return rec, err
	}
	if _, err := w.Write(b); err != nil {
		return rec, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return rec, nil
}

// Decode returns entry seq's logical payload: inflated if the entry is
// compressed, the stored bytes unchanged otherwise (spec §4.5).
func (r *Reader) Decode(seq int) (id uint32, payload []byte, err error) {
	rec, b, err := r.storedBytes(seq)
	if err != nil {
		return 0, nil, err
	}
	if !rec.Compressed() {
		return rec.ID, b, nil
	}
	out, err := compress.NewZlibCodec().Decompress(b)
	if err != nil {
		return 0, nil, errs.WithContext(err, "archive.Decode", rec.ID)
	}
	return rec.ID, out, nil
}
