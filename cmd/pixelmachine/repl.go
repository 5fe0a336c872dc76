package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/chazu/pixelmachine/texture"
	"github.com/chazu/pixelmachine/vm"
)

const historyFile = ".pixelmachine_history"

// handleReplCommand processes the `pixelmachine repl` subcommand. Every line
// runs against the same machine, so the stack carries over between lines.
func handleReplCommand(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	x := fs.Uint("x", 0, "Fragment x coordinate")
	y := fs.Uint("y", 0, "Fragment y coordinate")
	width := fs.Uint("w", 64, "Canvas width")
	height := fs.Uint("h", 64, "Canvas height")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelmachine repl [options] [texture files...]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	textures, err := texture.LoadAll(context.Background(), fs.Args(), int(*width), int(*height))
	if err != nil {
		fatal(err)
	}
	m := vm.NewMachine(uint32(*x), uint32(*y), uint32(*width), uint32(*height), texture.Samplers(textures))

	runREPL(m)
}

func runREPL(m *vm.Machine) {
	fmt.Printf("PixelMachine %s. Type :help for commands.\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeKeyword)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("pm> ")
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if quit := handleREPLCommand(os.Stdout, m, line); quit {
				return
			}
			continue
		}

		if err := evalLine(m, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println(formatStack(m.Stack()))
	}
}

// handleREPLCommand handles REPL meta-commands. It reports whether the
// REPL should exit.
func handleREPLCommand(w io.Writer, m *vm.Machine, cmd string) bool {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(w, "Enter tokens to run them on the machine. Commands:")
		fmt.Fprintln(w, "  :stack   Show the stack")
		fmt.Fprintln(w, "  :clear   Empty the stack")
		fmt.Fprintln(w, "  :ops     List every operation")
		fmt.Fprintln(w, "  :quit    Exit")
	case ":stack", ":s":
		fmt.Fprintln(w, formatStack(m.Stack()))
	case ":clear", ":c":
		m.Reset()
	case ":ops":
		for _, code := range vm.AllOpCodes() {
			info := code.Info()
			if info.Keyword == "" {
				continue
			}
			fmt.Fprintf(w, "  %-13s %s\n", info.Keyword, info.Effect)
		}
	case ":quit", ":q":
		return true
	default:
		fmt.Fprintf(w, "Unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

// evalLine parses and executes each token of line in order, stopping at the
// first failure. Tokens executed before the failure keep their effect.
func evalLine(m *vm.Machine, line string) error {
	for _, tok := range vm.Scan(line) {
		op, err := vm.Parse(tok.Text)
		if err != nil {
			return &vm.ExecError{Token: tok, Err: err}
		}
		if err := m.Execute(op); err != nil {
			return &vm.ExecError{Token: tok, Err: err}
		}
	}
	return nil
}

// formatStack renders a stack bottom to top.
func formatStack(stack []vm.Data) string {
	parts := make([]string, len(stack))
	for i, d := range stack {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// completeKeyword completes the last token of line.
func completeKeyword(line string) []string {
	i := strings.LastIndexAny(line, " \t") + 1
	head, prefix := line[:i], line[i:]
	if prefix == "" {
		return nil
	}
	var out []string
	for _, kw := range append(vm.Keywords(), "true", "false") {
		if strings.HasPrefix(kw, prefix) {
			out = append(out, head+kw)
		}
	}
	return out
}
