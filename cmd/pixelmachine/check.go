package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/pixelmachine/manifest"
	"github.com/chazu/pixelmachine/vm"
)

// handleCheckCommand processes the `pixelmachine check` subcommand. It exits
// with status 1 when any file has an error, or a warning under -strict.
func handleCheckCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	strict := fs.Bool("strict", false, "Treat warnings as errors")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelmachine check [-strict] <program files...>\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}

	failed := false
	for _, path := range fs.Args() {
		errs, warns, err := checkFile(os.Stdout, path)
		if err != nil {
			fatal(err)
		}
		if errs > 0 || (*strict && warns > 0) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// checkFile prints the diagnostics of one program file and counts them.
func checkFile(w io.Writer, path string) (errs, warns int, err error) {
	src, err := manifest.ReadProgram(path)
	if err != nil {
		return 0, 0, err
	}
	for _, d := range vm.Check(src) {
		fmt.Fprintf(w, "%s:%s\n", path, d)
		if d.Severity == vm.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns, nil
}
