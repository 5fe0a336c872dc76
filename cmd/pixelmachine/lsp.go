package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/pixelmachine/server"
)

// handleLSPCommand processes the `pixelmachine lsp` subcommand. Logs must not
// go to stdout, which carries the protocol.
func handleLSPCommand(args []string) {
	fs := flag.NewFlagSet("lsp", flag.ExitOnError)
	var verbosity countFlag
	fs.Var(&verbosity, "v", "Verbose logging (repeat for more)")
	logFile := fs.String("log", "", "Write logs to this file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelmachine lsp [-v] [-log file]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	configureLogging(int(verbosity), *logFile)

	if err := server.NewLSP(version).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
