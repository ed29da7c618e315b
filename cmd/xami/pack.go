package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ogier/pflag"

	"github.com/morkt/xami/archive"
	"github.com/morkt/xami/errs"
)

func runPack(args []string) int {
	fs := pflag.NewFlagSet("pack", pflag.ContinueOnError)
	mergeFrom := fs.String("merge-from", "", "reference archive to merge unclassified entries from")
	manifestPath := fs.String("manifest", "", "TOML manifest overriding per-file id/compression")

	if err := fs.Parse(args); err != nil {
		return exitCodeFor(err, phaseOpenInput)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "xami pack: expected <src-dir> <archive.ami>")
		fs.PrintDefaults()
		return 1
	}
	srcDir, dstPath := fs.Arg(0), fs.Arg(1)

	if _, err := os.Stat(srcDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err, phaseOpenInput)
	}
	if *mergeFrom != "" {
		if _, err := os.Stat(*mergeFrom); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err, phaseOpenInput)
		}
	}

	var manifest *archive.Manifest
	if *manifestPath != "" {
		m, err := archive.LoadManifest(*manifestPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err, phaseOpenInput)
		}
		manifest = m
	}

	logf := newLogger()
	opts := archive.BuildOptions{
		Manifest:  manifest,
		MergeFrom: *mergeFrom,
		Logger:    logf,
	}

	if err := archive.NewBuilder().Build(srcDir, dstPath, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err, classifyBuildFailure(err))
	}
	fmt.Fprintf(os.Stdout, "built %s\n", dstPath)
	return 0
}

// classifyBuildFailure maps a Builder.Build error to an exit phase per spec
// §6's exit-code table: a source-side decode/validation failure (invalid
// script, unsupported image, bad zgrp prefix) is "invalid script", a
// reference archive that fails AMI validation is "bad input file" (runPack
// already rejects a missing source directory or reference archive with that
// code before building), anything else falls back to "output open failure"
// since Build's own
// remaining I/O surface is the destination file and its temp-file rename.
func classifyBuildFailure(err error) exitPhase {
	switch {
	case errors.Is(err, errs.ErrScriptSyntax),
		errors.Is(err, errs.ErrScriptEmpty),
		errors.Is(err, errs.ErrInvalidEncoding),
		errors.Is(err, errs.ErrUnsupportedImage),
		errors.Is(err, errs.ErrInterlacedImage),
		errors.Is(err, errs.ErrInvalidParams):
		return phaseScript
	case errors.Is(err, errs.ErrNotAmi), errors.Is(err, errs.ErrBadOffset):
		return phaseOpenInput
	default:
		return phaseOpenOutput
	}
}
