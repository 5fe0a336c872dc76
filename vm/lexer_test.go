package vm

import (
	"reflect"
	"testing"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no comments", "1 2 +", "1 2 +"},
		{"trailing comment", "1 2 + # add them", "1 2 + "},
		{"whole line", "# header\n1", "\n1"},
		{"keeps newlines", "a # x\nb # y\nc", "a \nb \nc"},
		{"crlf", "a # x\r\nb", "a \nb"},
		{"comment at end without newline", "a #", "a "},
		{"hash inside token", "ab#cd ef\ngh", "ab\ngh"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripComments(tt.in); got != tt.want {
				t.Errorf("StripComments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"1 2 +", []string{"1", "2", "+"}},
		{"  fragPos\n\tdrop  ", []string{"fragPos", "drop"}},
		{"# only a comment", nil},
		{"", nil},
		{"a # b c\nd", []string{"a", "d"}},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScanPositions(t *testing.T) {
	src := "fragPos # where am I\n  0 texturePixel\r\ndup"
	got := Scan(src)
	want := []Token{
		{Text: "fragPos", Line: 1, Col: 1},
		{Text: "0", Line: 2, Col: 3},
		{Text: "texturePixel", Line: 2, Col: 5},
		{Text: "dup", Line: 3, Col: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScanMatchesTokenize(t *testing.T) {
	src := "1 2\n\n +  # c\n\tdim drop"
	tokens := Scan(src)
	words := Tokenize(src)
	if len(tokens) != len(words) {
		t.Fatalf("Scan found %d tokens, Tokenize %d", len(tokens), len(words))
	}
	for i := range words {
		if tokens[i].Text != words[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i].Text, words[i])
		}
	}
}
