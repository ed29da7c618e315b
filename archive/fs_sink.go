package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/morkt/xami/grp"
	"github.com/morkt/xami/scr"
)

// ImageFormat selects what WriteImage emits a GRP entry as.
type ImageFormat uint8

const (
	// ImagePNG decodes the entry and writes a .png file (default).
	ImagePNG ImageFormat = iota
	// ImageRawGRP writes the entry's own 12-byte-header GRP bytes
	// unchanged, for callers that want to skip the PNG round-trip.
	ImageRawGRP
)

// FilesystemSinkOptions configures FilesystemSink, covering the
// "configuration surface consumed from the GUI/CLI collaborator" in
// spec §6: transcript format/encoding, image output format, and the
// extract_texts/extract_images toggle flags.
type FilesystemSinkOptions struct {
	DestDir string

	TranscriptFormat scr.TranscriptFormat
	Encoding         scr.Encoding
	ImageFormat      ImageFormat

	ExtractTexts  bool
	ExtractImages bool

	// DuplicateRuEn controls whether both "en" and "ru" copies of each
	// line are written for mlt/xml transcripts (spec §9 Open Question).
	DuplicateRuEn bool

	Logger func(string)
}

// FilesystemSink is the Sink that writes each entry as a loose file under
// DestDir, the counterpart of the original's filesystem writer strategy
// (spec §9).
type FilesystemSink struct {
	opts FilesystemSinkOptions
}

// NewFilesystemSink creates a FilesystemSink writing under opts.DestDir.
func NewFilesystemSink(opts FilesystemSinkOptions) *FilesystemSink {
	return &FilesystemSink{opts: opts}
}

var _ Sink = (*FilesystemSink)(nil)

func (s *FilesystemSink) logf(format string, args ...any) {
	if s.opts.Logger != nil {
		s.opts.Logger(fmt.Sprintf(format, args...))
	}
}

func (s *FilesystemSink) path(name string) string {
	return filepath.Join(s.opts.DestDir, name)
}

// WriteRaw writes data unchanged as "<id8>.dat".
func (s *FilesystemSink) WriteRaw(id uint32, data []byte) bool {
	return s.writeFile(fmt.Sprintf("%08x.dat", id), data)
}

// WriteImage decodes a GRP entry and writes it as a PNG (or, in
// ImageRawGRP mode, unchanged) under DestDir.
func (s *FilesystemSink) WriteImage(id uint32, data []byte) bool {
	if !s.opts.ExtractImages {
		return true
	}
	if s.opts.ImageFormat == ImageRawGRP {
		return s.writeFile(fmt.Sprintf("%08x.grp", id), data)
	}

	img, err := grp.DecodeGRPBlob(data)
	if err != nil {
		s.logf("%08x: %v", id, err)
		return true
	}
	png, err := grp.EncodeToPNG(img.Pixels, img.Width, img.Height, img.RefX, img.RefY)
	if err != nil {
		s.logf("%08x: %v", id, err)
		return true
	}
	return s.writeFile(fmt.Sprintf("%08x.png", id), png)
}

// WriteScript parses an SCR entry and writes it as a transcript in the
// configured format/encoding under DestDir.
func (s *FilesystemSink) WriteScript(id uint32, data []byte) bool {
	if !s.opts.ExtractTexts {
		return true
	}
	script, err := scr.ParseBinary(data)
	if err != nil {
		s.logf("%08x: %v", id, err)
		return true
	}
	out, err := scr.WriteTranscript(s.opts.TranscriptFormat, s.opts.Encoding, id, script, s.opts.DuplicateRuEn)
	if err != nil {
		s.logf("%08x: %v", id, err)
		return true
	}
	return s.writeFile(fmt.Sprintf("%08x%s", id, transcriptExt(s.opts.TranscriptFormat)), out)
}

func transcriptExt(tf scr.TranscriptFormat) string {
	switch tf {
	case scr.FormatTXT:
		return ".txt"
	case scr.FormatXML:
		return ".xml"
	default:
		return ".mlt"
	}
}

// writeFile writes data to name under DestDir, logging and returning true
// (non-aborting, spec §7 "logged and counted, do not abort the run") on
// failure, except when the destination directory itself cannot be opened
// at all, in which case it returns false to abort the whole run.
func (s *FilesystemSink) writeFile(name string, data []byte) bool {
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		if os.IsNotExist(err) {
			s.logf("%s: destination directory unavailable: %v", name, err)
			return false
		}
		s.logf("%s: %v", name, err)
	}
	return true
}
