package vm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	commentStart = '#'
	commentEnd   = '\n'
)

// Token is one whitespace-delimited word of program text.
type Token struct {
	Text string
	Line int // 1-based
	Col  int // 1-based, in runes
}

// StripComments normalizes CRLF line endings and removes every span from '#'
// up to (not including) the next newline. Newlines are kept so line numbers
// survive.
func StripComments(program string) string {
	program = strings.ReplaceAll(program, "\r\n", "\n")
	if strings.IndexByte(program, commentStart) < 0 {
		return program
	}

	var sb strings.Builder
	sb.Grow(len(program))
	inComment := false
	for _, r := range program {
		switch {
		case r == commentStart:
			inComment = true
		case r == commentEnd:
			inComment = false
		}
		if !inComment {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Tokenize strips comments and splits the program on runs of whitespace.
func Tokenize(program string) []string {
	return strings.Fields(StripComments(program))
}

// Scan is Tokenize with source positions.
func Scan(program string) []Token {
	src := StripComments(program)

	var tokens []Token
	line, col := 1, 1
	start, startCol := -1, 0
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Text: src[start:i], Line: line, Col: startCol})
				start = -1
			}
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		} else {
			if start < 0 {
				start, startCol = i, col
			}
			col++
		}
		i += size
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: src[start:], Line: line, Col: startCol})
	}
	return tokens
}
