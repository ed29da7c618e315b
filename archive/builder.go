package archive

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/morkt/xami/byteio"
	"github.com/morkt/xami/classify"
	"github.com/morkt/xami/compress"
	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/format"
	"github.com/morkt/xami/grp"
	"github.com/morkt/xami/scr"
	"github.com/morkt/xami/section"
)

// BuildOptions configures Builder.Build.
type BuildOptions struct {
	// Manifest optionally overrides per-file id/compression choices.
	Manifest *Manifest
	// MergeFrom, if set, is a reference archive path: entries it carries
	// that the source directory does not replace are copied through
	// unchanged, in the reference archive's TOC order (spec §4.7
	// "merge-from-source mode").
	MergeFrom string

	Progress ProgressFunc
	Abort    AbortFunc
	Logger   func(string)
}

// Builder packs a source directory into an AMI archive.
type Builder struct{}

// NewBuilder returns a ready-to-use Builder. It carries no state of its
// own; each Build call is independent.
func NewBuilder() *Builder { return &Builder{} }

// sourceFile is one classified input, ready for emission.
type sourceFile struct {
	path string
	name string
	id   uint32
	kind format.FileKind
}

func (b *Builder) logf(opts BuildOptions, msg string, args ...any) {
	if opts.Logger != nil {
		opts.Logger(fmt.Sprintf(msg, args...))
	}
}

// classifyDir walks srcDir non-recursively, classifying each entry and
// resolving collisions by keeping the strictly-later-mtime file (spec
// §4.7, §8 invariant 7).
func (b *Builder) classifyDir(srcDir string, opts BuildOptions) (map[uint32]sourceFile, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	type candidate struct {
		sourceFile
		modTime int64
	}
	byID := make(map[uint32]candidate)

	for _, de := range entries {
		info, err := de.Info()
		if err != nil {
			b.logf(opts, "%s: %v", de.Name(), err)
			continue
		}
		attrs := classify.FileAttrs{
			Hidden:    strings.HasPrefix(de.Name(), "."),
			Directory: de.IsDir(),
			// No platform attribute API is wired here (spec §1
			// Non-goals: "platform file-attribute queries beyond what
			// os.FileInfo already gives a Go program"); System is
			// always false.
		}

		kind, id, ok := classify.Classify(de.Name(), attrs, info.Size())
		if !ok {
			continue
		}

		path := filepath.Join(srcDir, de.Name())
		if kind == format.FileKindTXT {
			if content, err := os.ReadFile(path); err == nil {
				if hdrID, ok := classify.ResolveTXTFileID(content); ok {
					id = hdrID
				}
			}
		}
		if me, found := opts.Manifest.lookup(de.Name()); found {
			if overrideID, set, err := me.resolveID(); err != nil {
				return nil, err
			} else if set {
				id = overrideID
			}
		}
		if id == 0 {
			continue
		}

		c := candidate{
			sourceFile: sourceFile{path: path, name: de.Name(), id: id, kind: kind},
			modTime:    info.ModTime().UnixNano(),
		}
		if prev, exists := byID[id]; exists {
			if c.modTime <= prev.modTime {
				continue
			}
		}
		byID[id] = c
	}

	out := make(map[uint32]sourceFile, len(byID))
	for id, c := range byID {
		out[id] = c.sourceFile
	}
	return out, nil
}

// emission is one entry's fully-prepared on-disk representation: bytes is
// exactly what gets written to the payload region, packedSize is what goes
// in the TOC record (0 meaning "stored verbatim", matching TocRecord's own
// convention), regardless of whether this builder did the deflating or the
// bytes arrived already compressed (the zgrp case).
type emission struct {
	id           uint32
	unpackedSize uint32
	packedSize   uint32
	bytes        []byte
}

// emit prepares the stored bytes for one source file, per the kind table
// in spec §4.7.
func (b *Builder) emit(sf sourceFile, opts BuildOptions) (emission, error) {
	data, err := os.ReadFile(sf.path)
	if err != nil {
		return emission{}, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	forceCompress, hasOverride := compressOverride(sf.name, opts.Manifest)

	switch sf.kind {
	case format.FileKindPNG:
		img, err := grp.DecodeFromPNG(data)
		if err != nil {
			return emission{}, errs.WithContext(err, sf.name, sf.id)
		}
		blob := grp.EncodeGRPBlob(img)
		packed, err := compress.NewZlibCodec().Compress(blob)
		if err != nil {
			return emission{}, errs.WithContext(err, sf.name, sf.id)
		}
		return emission{id: sf.id, unpackedSize: uint32(len(blob)), packedSize: uint32(len(packed)), bytes: packed}, nil

	case format.FileKindGRP:
		packed, err := compress.NewZlibCodec().Compress(data)
		if err != nil {
			return emission{}, errs.WithContext(err, sf.name, sf.id)
		}
		return emission{id: sf.id, unpackedSize: uint32(len(data)), packedSize: uint32(len(packed)), bytes: packed}, nil

	case format.FileKindZGRP:
		if len(data) < 4 {
			return emission{}, errs.WithContext(errs.ErrInvalidParams, sf.name, sf.id)
		}
		unpacked := binary.LittleEndian.Uint32(data[:4])
		rest := data[4:]
		return emission{id: sf.id, unpackedSize: unpacked, packedSize: uint32(len(rest)), bytes: rest}, nil

	case format.FileKindMLT:
		res, err := scr.CompileMLT(data, scr.CompileOptions{IgnoreErrors: true, Logger: opts.Logger})
		if err != nil {
			return emission{}, errs.WithContext(err, sf.name, sf.id)
		}
		blob := scr.EncodeBinary(res.TypeID, res.Lines)
		// The manifest's compress override is not honored here: a
		// compressed SCR payload can't be told apart from an "other"
		// blob on extraction (archive/extractor.go only sniffs GRP\0
		// inside the compressed branch), so mlt/txt are always stored.
		return b.finishTextEmission(sf, blob, false, false)

	case format.FileKindTXT:
		res, err := scr.CompileTXT(data, scr.CompileOptions{IgnoreErrors: true, Logger: opts.Logger})
		if err != nil {
			return emission{}, errs.WithContext(err, sf.name, sf.id)
		}
		blob := scr.EncodeBinary(res.TypeID, res.Lines)
		return b.finishTextEmission(sf, blob, false, false)

	default:
		return b.finishTextEmission(sf, data, forceCompress, hasOverride)
	}
}

// finishTextEmission applies the manifest's optional compression override
// to an otherwise-verbatim ("other", mlt, txt) entry.
func (b *Builder) finishTextEmission(sf sourceFile, blob []byte, forceCompress, hasOverride bool) (emission, error) {
	if hasOverride && forceCompress {
		packed, err := compress.NewZlibCodec().Compress(blob)
		if err != nil {
			return emission{}, errs.WithContext(err, sf.name, sf.id)
		}
		return emission{id: sf.id, unpackedSize: uint32(len(blob)), packedSize: uint32(len(packed)), bytes: packed}, nil
	}
	return emission{id: sf.id, unpackedSize: uint32(len(blob)), bytes: blob}, nil
}

func compressOverride(name string, m *Manifest) (force bool, has bool) {
	e, ok := m.lookup(name)
	if !ok || e.Compress == nil {
		return false, false
	}
	return *e.Compress, true
}

// Build packs srcDir into dstPath (spec §4.7's layout procedure and, when
// opts.MergeFrom is set, its merge-from-source variant). The output is
// written to a temp file in dstPath's directory and renamed into place
// only on success (spec §4.7 "Atomicity").
func (b *Builder) Build(srcDir, dstPath string, opts BuildOptions) error {
	classified, err := b.classifyDir(srcDir, opts)
	if err != nil {
		return err
	}

	if opts.MergeFrom != "" {
		return b.buildMerged(classified, opts.MergeFrom, dstPath, opts)
	}
	return b.buildFresh(classified, dstPath, opts)
}

// buildFresh lays out a brand-new archive in ascending id order.
func (b *Builder) buildFresh(classified map[uint32]sourceFile, dstPath string, opts BuildOptions) error {
	ids := make([]uint32, 0, len(classified))
	for id := range classified {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return b.commit(dstPath, uint32(len(ids)), func(w *byteio.Writer) ([]section.TocRecord, error) {
		toc := make([]section.TocRecord, 0, len(ids))
		for i, id := range ids {
			sf := classified[id]
			if opts.Abort != nil && opts.Abort() {
				return nil, errs.ErrAborted
			}
			if opts.Progress != nil {
				opts.Progress(sf.name, i, len(ids))
			}
			rec, err := b.writeEntry(w, sf, opts)
			if err != nil {
				return nil, err
			}
			toc = append(toc, rec)
		}
		return toc, nil
	})
}

// buildMerged replays a reference archive's TOC order, substituting any
// entry the source directory reclassified and copying the rest verbatim
// via Reader.CopyRaw (spec §4.7 "merge-from-source mode").
func (b *Builder) buildMerged(classified map[uint32]sourceFile, refPath, dstPath string, opts BuildOptions) error {
	ref, err := Open(refPath)
	if err != nil {
		return err
	}
	refTOC := ref.TOC()

	return b.commit(dstPath, uint32(len(refTOC)), func(w *byteio.Writer) ([]section.TocRecord, error) {
		toc := make([]section.TocRecord, 0, len(refTOC))
		for i, old := range refTOC {
			if opts.Abort != nil && opts.Abort() {
				return nil, errs.ErrAborted
			}
			if opts.Progress != nil {
				opts.Progress(fmt.Sprintf("%08x", old.ID), i, len(refTOC))
			}

			if sf, ok := classified[old.ID]; ok {
				rec, err := b.writeEntry(w, sf, opts)
				if err != nil {
					return nil, err
				}
				toc = append(toc, rec)
				continue
			}

			offset := w.CurrentOffset()
			copied, err := ref.CopyRaw(i, w)
			if err != nil {
				return nil, err
			}
			toc = append(toc, section.TocRecord{
				ID: copied.ID, Offset: offset,
				UnpackedSize: copied.UnpackedSize, PackedSize: copied.PackedSize,
			})
		}
		return toc, nil
	})
}

// writeEntry emits one source file's payload at the writer's current
// offset and returns its TOC record.
func (b *Builder) writeEntry(w *byteio.Writer, sf sourceFile, opts BuildOptions) (section.TocRecord, error) {
	em, err := b.emit(sf, opts)
	if err != nil {
		return section.TocRecord{}, err
	}

	offset := w.CurrentOffset()
	if _, err := w.Write(em.bytes); err != nil {
		return section.TocRecord{}, err
	}

	return section.TocRecord{
		ID:           sf.id,
		Offset:       offset,
		UnpackedSize: em.unpackedSize,
		PackedSize:   em.packedSize,
	}, nil
}

// commit drives layout through fn (which writes every payload and returns
// the resulting TOC), then backfills the header and TOC region, matching
// spec §4.7's layout procedure: reserve, write payloads, backfill.
func (b *Builder) commit(dstPath string, count uint32, fn func(*byteio.Writer) ([]section.TocRecord, error)) (err error) {
	dir := filepath.Dir(dstPath)
	tmp, err := os.CreateTemp(dir, ".xami-build-*")
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	w := byteio.NewWriter(tmp)
	firstPayload := section.FirstPayloadOffset(count)
	if err = w.SeekTo(int64(firstPayload)); err != nil {
		return err
	}

	toc, ferr := fn(w)
	if ferr != nil {
		err = ferr
		return err
	}

	hdr := section.AmiHeader{Count: uint32(len(toc)), FirstPayloadOff: section.FirstPayloadOffset(uint32(len(toc)))}
	if err = w.SeekTo(0); err != nil {
		return err
	}
	if _, err = w.Write(hdr.Bytes()); err != nil {
		return err
	}
	for _, rec := range toc {
		if _, err = w.Write(rec.Bytes()); err != nil {
			return err
		}
	}
	if err = w.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		err = fmt.Errorf("%w: %v", errs.ErrIO, err)
		return err
	}
	if err = os.Rename(tmpPath, dstPath); err != nil {
		err = fmt.Errorf("%w: %v", errs.ErrIO, err)
		return err
	}
	return nil
}
