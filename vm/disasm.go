package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a program: one line per
// token with its position, op name and stack effect.
func Disassemble(program string) string {
	return DisassembleWithName(program, "")
}

// DisassembleWithName returns a listing with a name header.
func DisassembleWithName(program, name string) string {
	var sb strings.Builder

	tokens := Scan(program)
	if name != "" {
		fmt.Fprintf(&sb, "; === %s ===\n", name)
	}
	fmt.Fprintf(&sb, "; %d tokens\n\n", len(tokens))

	for i, tok := range tokens {
		pos := fmt.Sprintf("%d:%d", tok.Line, tok.Col)
		op, err := Parse(tok.Text)
		if err != nil {
			fmt.Fprintf(&sb, "%04d  %-7s %-14s %-14s ; %v\n", i, pos, "??", tok.Text, err)
			continue
		}

		info := op.Code.Info()
		effect := info.Effect
		if op.Code == OpData {
			effect = fmt.Sprintf("[] -> [%s]", op.Value.Type())
		}
		fmt.Fprintf(&sb, "%04d  %-7s %-14s %-14s ; %s\n", i, pos, info.Name, op, effect)
	}

	return sb.String()
}
