// PixelMachine CLI - renders images by running a stack program for every pixel
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("pixelmachine.cli")

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "render":
		handleRenderCommand(os.Args[2:])
	case "check":
		handleCheckCommand(os.Args[2:])
	case "disasm":
		handleDisasmCommand(os.Args[2:])
	case "repl":
		handleReplCommand(os.Args[2:])
	case "lsp":
		handleLSPCommand(os.Args[2:])
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage()
	default:
		// `pixelmachine [flags] cfg.json` is shorthand for render.
		if strings.HasPrefix(cmd, "-") || fileExists(cmd) {
			handleRenderCommand(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: pixelmachine <command> [options] [args...]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  render [manifest]   Render the image a manifest describes (default command)\n")
	fmt.Fprintf(os.Stderr, "  check <programs>    Report problems in program files\n")
	fmt.Fprintf(os.Stderr, "  disasm <programs>   Print the operations of program files\n")
	fmt.Fprintf(os.Stderr, "  repl [textures]     Run operations interactively on one machine\n")
	fmt.Fprintf(os.Stderr, "  lsp                 Start the language server on stdio\n")
	fmt.Fprintf(os.Stderr, "  version             Print the version\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  pixelmachine cfg.json                # Render using cfg.json\n")
	fmt.Fprintf(os.Stderr, "  pixelmachine render -v -workers 4    # Find pixelmachine.toml and render\n")
	fmt.Fprintf(os.Stderr, "  pixelmachine check blend.pm          # Check a program\n")
	fmt.Fprintf(os.Stderr, "  pixelmachine repl -w 64 -h 64 a.png  # Experiment with a texture\n")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// countFlag is a boolean flag that counts its occurrences (-v -v).
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		n, nerr := strconv.Atoi(s)
		if nerr != nil {
			return err
		}
		*c = countFlag(n)
		return nil
	}
	if b {
		*c++
	}
	return nil
}

func (c *countFlag) IsBoolFlag() bool { return true }

// configureLogging sets up commonlog. Verbosity 0 shows warnings and
// errors; each -v adds a level.
func configureLogging(verbosity int, path string) {
	var p *string
	if path != "" {
		p = &path
	}
	commonlog.Configure(verbosity, p)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
