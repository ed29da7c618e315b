// Command xami is the CLI front-end for the archive reader/writer: an
// "extract" subcommand unpacks an AMI archive to loose files, a "pack"
// subcommand builds one from a source directory (spec §6's "configuration
// surface consumed from the GUI/CLI collaborator").
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "extract":
		return runExtract(args[1:])
	case "pack":
		return runPack(args[1:])
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "xami: unrecognized command %q\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage:
  xami extract [flags] <archive.ami> <dest-dir>
  xami pack [flags] <src-dir> <archive.ami>

Run "xami extract --help" or "xami pack --help" for flag details.`)
}

// newLogger returns a single ordered text-stream logger matching spec §6's
// "one line per warning or error with the contributing filename/id".
func newLogger() func(string) {
	l := log.New(os.Stderr, "", 0)
	return func(msg string) { l.Println(msg) }
}

// exitCodeFor classifies an error per spec §6's exit-code contract: 0
// success, 1 bad input file, 2 invalid script, 3 output open failure,
// negative on unexpected exception.
func exitCodeFor(err error, phase exitPhase) int {
	if err == nil {
		return 0
	}
	switch phase {
	case phaseOpenInput:
		return 1
	case phaseScript:
		return 2
	case phaseOpenOutput:
		return 3
	default:
		return -1
	}
}

type exitPhase int

const (
	phaseOpenInput exitPhase = iota
	phaseScript
	phaseOpenOutput
	phaseOther
)
