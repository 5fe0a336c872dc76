package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/pixelmachine/manifest"
	"github.com/chazu/pixelmachine/vm"
)

// handleDisasmCommand processes the `pixelmachine disasm` subcommand.
func handleDisasmCommand(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: pixelmachine disasm <program files...>")
		os.Exit(1)
	}

	for _, path := range args {
		src, err := manifest.ReadProgram(path)
		if err != nil {
			fatal(err)
		}
		fmt.Print(vm.DisassembleWithName(src, filepath.Base(path)))
	}
}
