package server

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ---------------------------------------------------------------------------
// extractPrefix
// ---------------------------------------------------------------------------

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  protocol.Position
		want string
	}{
		{"simple word", "fragPos tex", protocol.Position{Line: 0, Character: 11}, "tex"},
		{"at start", "dup", protocol.Position{Line: 0, Character: 3}, "dup"},
		{"empty line", "", protocol.Position{Line: 0, Character: 0}, ""},
		{"multi line", "first\nsecond\nmake", protocol.Position{Line: 2, Character: 4}, "make"},
		{"symbol", "1 2 >", protocol.Position{Line: 0, Character: 5}, ">"},
		{"cursor at beginning", "hello", protocol.Position{Line: 0, Character: 0}, ""},
		{"line beyond document", "single line", protocol.Position{Line: 5, Character: 0}, ""},
		{"in comment", "dup # rot", protocol.Position{Line: 0, Character: 9}, ""},
		{"column past end", "drop", protocol.Position{Line: 0, Character: 40}, "drop"},
	}

	for _, tt := range tests {
		if got := extractPrefix(tt.text, tt.pos); got != tt.want {
			t.Errorf("%s: extractPrefix = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// extractWord
// ---------------------------------------------------------------------------

func TestExtractWord(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  protocol.Position
		want string
	}{
		{"middle", "fragPos texturePixel", protocol.Position{Line: 0, Character: 3}, "fragPos"},
		{"at end", "fragPos texturePixel", protocol.Position{Line: 0, Character: 7}, "fragPos"},
		{"second", "fragPos texturePixel", protocol.Position{Line: 0, Character: 10}, "texturePixel"},
		{"operator", "1 2 >= 0", protocol.Position{Line: 0, Character: 4}, ">="},
		{"stops at comment", "dup#note", protocol.Position{Line: 0, Character: 1}, "dup"},
		{"inside comment", "dup # rot", protocol.Position{Line: 0, Character: 7}, ""},
		{"blank", "   ", protocol.Position{Line: 0, Character: 1}, ""},
	}

	for _, tt := range tests {
		if got := extractWord(tt.text, tt.pos); got != tt.want {
			t.Errorf("%s: extractWord = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Language features
// ---------------------------------------------------------------------------

func TestComplete(t *testing.T) {
	items := complete("r")
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	if strings.Join(labels, ",") != "rot,rotN" {
		t.Errorf("complete(r) = %v, want [rot rotN]", labels)
	}
	if items[0].Detail == nil || *items[0].Detail == "" {
		t.Error("completion has no stack effect")
	}

	items = complete("T")
	labels = labels[:0]
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	if strings.Join(labels, ",") != "texturePixel,true" {
		t.Errorf("complete(T) = %v, want [texturePixel true]", labels)
	}

	if items := complete("zzz"); len(items) != 0 {
		t.Errorf("complete(zzz) = %v, want none", items)
	}
}

func TestHover(t *testing.T) {
	tests := []struct {
		word string
		want []string
	}{
		{"makeColor", []string{"makeColor", "MAKE_COLOR", "->"}},
		{"+", []string{"ADD"}},
		{"300", []string{"u32", "literal"}},
		{"true", []string{"bool"}},
	}

	for _, tt := range tests {
		h := hover(tt.word)
		if h == nil {
			t.Errorf("hover(%q) = nil", tt.word)
			continue
		}
		value := h.Contents.(protocol.MarkupContent).Value
		for _, w := range tt.want {
			if !strings.Contains(value, w) {
				t.Errorf("hover(%q) = %q, missing %q", tt.word, value, w)
			}
		}
	}

	if h := hover("bogus"); h != nil {
		t.Errorf("hover(bogus) = %v, want nil", h)
	}
}

func TestReferences(t *testing.T) {
	uri := protocol.DocumentUri("file:///p.pm")
	text := "dup 1 dup\n# dup\n  dup"

	locs := references(uri, text, "dup")
	if len(locs) != 3 {
		t.Fatalf("got %d references, want 3", len(locs))
	}
	last := locs[2].Range
	if last.Start.Line != 2 || last.Start.Character != 2 || last.End.Character != 5 {
		t.Errorf("last reference = %+v", last)
	}
}

func TestDiagnostics(t *testing.T) {
	diags := diagnostics("fragPos\nfoo texturePixel")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Range.Start.Line != 1 || d.Range.Start.Character != 0 || d.Range.End.Character != 3 {
		t.Errorf("range = %+v", d.Range)
	}
	if *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v", *d.Severity)
	}
	if !strings.Contains(d.Message, "foo") {
		t.Errorf("message = %q", d.Message)
	}

	if diags := diagnostics("0 0 0 255 makeColor"); len(diags) != 0 {
		t.Errorf("clean program has diagnostics: %v", diags)
	}

	warn := diagnostics("1 0 0 0 255 makeColor")
	if len(warn) != 1 || *warn[0].Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("leftover value diagnostics = %v", warn)
	}
}
