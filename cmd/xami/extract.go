package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ogier/pflag"

	"github.com/morkt/xami/archive"
	"github.com/morkt/xami/errs"
	"github.com/morkt/xami/scr"
)

func runExtract(args []string) int {
	fs := pflag.NewFlagSet("extract", pflag.ContinueOnError)
	format := fs.StringP("format", "f", "mlt", "text transcript format: mlt, txt, or xml")
	encoding := fs.StringP("encoding", "e", "utf8", "text encoding: utf8 or sjis")
	imageFormat := fs.String("images", "png", "image output format: png or grp")
	noTexts := fs.Bool("no-texts", false, "skip writing text transcripts")
	noImages := fs.Bool("no-images", false, "skip writing images")
	noDupRuEn := fs.Bool("no-dup-ru-en", false, "write only the en copy of dual-language lines")

	if err := fs.Parse(args); err != nil {
		return exitCodeFor(err, phaseOpenInput)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "xami extract: expected <archive.ami> <dest-dir>")
		fs.PrintDefaults()
		return 1
	}
	archivePath, destDir := fs.Arg(0), fs.Arg(1)

	tf, err := parseTranscriptFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	enc, err := parseEncoding(*encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	imgFmt, err := parseImageFormat(*imageFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	r, err := archive.Open(archivePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err, phaseOpenInput)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err, phaseOpenOutput)
	}

	logf := newLogger()
	sink := archive.NewFilesystemSink(archive.FilesystemSinkOptions{
		DestDir:          destDir,
		TranscriptFormat: tf,
		Encoding:         enc,
		ImageFormat:      imgFmt,
		ExtractTexts:     !*noTexts,
		ExtractImages:    !*noImages,
		DuplicateRuEn:    !*noDupRuEn,
		Logger:           logf,
	})

	n, err := archive.Extract(r, sink, archive.ExtractOptions{Logger: logf})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errs.ErrAborted) {
			return -1
		}
		return exitCodeFor(err, phaseOther)
	}
	fmt.Fprintf(os.Stdout, "extracted %d entries\n", n)
	return 0
}

func parseTranscriptFormat(s string) (scr.TranscriptFormat, error) {
	switch s {
	case "mlt":
		return scr.FormatMLT, nil
	case "txt":
		return scr.FormatTXT, nil
	case "xml":
		return scr.FormatXML, nil
	default:
		return 0, fmt.Errorf("xami: unknown transcript format %q (want mlt, txt, or xml)", s)
	}
}

func parseEncoding(s string) (scr.Encoding, error) {
	switch s {
	case "utf8", "utf-8":
		return scr.EncodingUTF8, nil
	case "sjis", "shift-jis", "shiftjis":
		return scr.EncodingShiftJIS, nil
	default:
		return 0, fmt.Errorf("xami: unknown encoding %q (want utf8 or sjis)", s)
	}
}

func parseImageFormat(s string) (archive.ImageFormat, error) {
	switch s {
	case "png":
		return archive.ImagePNG, nil
	case "grp":
		return archive.ImageRawGRP, nil
	default:
		return 0, fmt.Errorf("xami: unknown image format %q (want png or grp)", s)
	}
}
