package archive

import (
	"bytes"
	"fmt"

	"github.com/morkt/xami/compress"
	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/section"
)

// Sink receives one decoded entry per call during extraction (spec §4.6,
// "writer strategy" in spec §9). A sink returns false to abort the run in
// progress; FilesystemSink does this when its destination directory is
// missing.
type Sink interface {
	WriteRaw(id uint32, data []byte) bool
	WriteScript(id uint32, data []byte) bool
	WriteImage(id uint32, data []byte) bool
}

// ProgressFunc reports extraction/build progress (spec §5 "on_progress").
type ProgressFunc func(filename string, done, total int)

// AbortFunc is polled between entries; returning true stops the run before
// its next entry (spec §5 "is_aborted").
type AbortFunc func() bool

// ExtractOptions configures Extract.
type ExtractOptions struct {
	// Progress is called once per entry, before it is dispatched to the
	// sink.
	Progress ProgressFunc
	// Abort is polled before each entry.
	Abort AbortFunc
	// Logger receives one line per per-entry failure (spec §7: logged and
	// counted, does not abort the run).
	Logger func(string)
}

var grp0 = [4]byte{'G', 'R', 'P', 0}
var scr0 = [4]byte{'S', 'C', 'R', 0}

// Extract iterates r's TOC in order, dispatching each entry to sink per
// spec §4.6's signature-sniffing rule, and returns the number of entries
// successfully processed. A per-entry decode failure is logged and
// skipped, not fatal; a sink returning false aborts the run.
func Extract(r *Reader, sink Sink, opts ExtractOptions) (int, error) {
	total := r.Count()
	processed := 0

	for seq, rec := range r.toc {
		// A pre-entry abort stops the run the same way running out of TOC
		// entries does: processed so far, no error. A sink's explicit
		// false return below is the only path that reports ErrAborted,
		// since that is a hard stop mid-entry rather than a polled cutoff.
		if opts.Abort != nil && opts.Abort() {
			break
		}
		if opts.Progress != nil {
			opts.Progress(entryName(rec.ID), seq, total)
		}

		_, stored, err := r.storedBytes(seq)
		if err != nil {
			logf(opts.Logger, "%08x: %v", rec.ID, err)
			continue
		}

		var ok bool
		if rec.Compressed() {
			inflated, derr := compress.NewZlibCodec().Decompress(stored)
			if derr != nil {
				logf(opts.Logger, "%08x: %v", rec.ID, errs.WithContext(derr, "extract", rec.ID))
				continue
			}
			if len(inflated) > section.GrpHeaderSize && bytes.HasPrefix(inflated, grp0[:]) {
				ok = sink.WriteImage(rec.ID, inflated)
			} else {
				ok = sink.WriteRaw(rec.ID, inflated)
			}
		} else {
			if len(stored) > section.ScrHeaderSize && bytes.HasPrefix(stored, scr0[:]) {
				ok = sink.WriteScript(rec.ID, stored)
			} else {
				ok = sink.WriteRaw(rec.ID, stored)
			}
		}

		if !ok {
			return processed, errs.ErrAborted
		}
		processed++
	}
	return processed, nil
}

func entryName(id uint32) string {
	return fmt.Sprintf("%08x", id)
}

func logf(logger func(string), format string, args ...any) {
	if logger == nil {
		return
	}
	logger(fmt.Sprintf(format, args...))
}
