// Package server implements a language server for PixelMachine programs.
package server

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/pixelmachine/vm"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "pixelmachine-lsp"

var log = commonlog.GetLogger("pixelmachine.lsp")

// LspServer serves diagnostics, hover, completion and references for
// program files.
type LspServer struct {
	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server.
func NewLSP(version string) *LspServer {
	s := &LspServer{
		docs:    make(map[string]string),
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentReferences: s.textDocumentReferences,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true
	capabilities.ReferencesProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	log.Info("shutting down")
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.setDoc(uri, text)
	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.setDoc(uri, whole.Text)
			s.publishDiagnostics(ctx, uri, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *LspServer) setDoc(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()
}

func (s *LspServer) doc(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[string(uri)]
	return text, ok
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	prefix := extractPrefix(text, params.Position)
	if prefix == "" {
		return nil, nil
	}
	return complete(prefix), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	return hover(word), nil
}

func (s *LspServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	uri := params.TextDocument.URI
	text, ok := s.doc(uri)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	return references(uri, text, word), nil
}

// complete offers keywords and boolean literals starting with prefix.
func complete(prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	lowerPrefix := strings.ToLower(prefix)

	for _, kw := range vm.Keywords() {
		if !strings.HasPrefix(strings.ToLower(kw), lowerPrefix) {
			continue
		}
		code, _ := vm.LookupKeyword(kw)
		info := code.Info()
		kind := protocol.CompletionItemKindFunction
		detail := info.Effect
		label := kw
		items = append(items, protocol.CompletionItem{
			Label:         kw,
			Kind:          &kind,
			Detail:        &detail,
			Documentation: info.Doc,
			InsertText:    &label,
		})
	}

	for _, lit := range []string{"false", "true"} {
		if strings.HasPrefix(lit, lowerPrefix) {
			kind := protocol.CompletionItemKindConstant
			detail := "bool"
			label := lit
			items = append(items, protocol.CompletionItem{
				Label:      lit,
				Kind:       &kind,
				Detail:     &detail,
				InsertText: &label,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// hover describes the op a token parses to.
func hover(word string) *protocol.Hover {
	op, err := vm.Parse(word)
	if err != nil {
		return nil
	}

	var b strings.Builder
	info := op.Code.Info()
	if op.Code == vm.OpData {
		fmt.Fprintf(&b, "**%s** literal\n\n", op.Value.Type())
		fmt.Fprintf(&b, "`%s`", op.Value)
	} else {
		fmt.Fprintf(&b, "**%s** (%s)\n\n", info.Keyword, info.Name)
		fmt.Fprintf(&b, "`%s`", info.Effect)
		if info.Doc != "" {
			fmt.Fprintf(&b, "\n\n---\n\n%s", info.Doc)
		}
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}
}

// references lists every occurrence of word in the document.
func references(uri protocol.DocumentUri, text, word string) []protocol.Location {
	var locations []protocol.Location
	for _, tok := range vm.Scan(text) {
		if tok.Text != word {
			continue
		}
		locations = append(locations, protocol.Location{
			URI:   uri,
			Range: tokenRange(tok.Line, tok.Col, tok.Col+len([]rune(tok.Text))),
		})
	}
	return locations
}

// --- Diagnostics ---

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics(text),
	})
}

func diagnostics(text string) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	source := lspName
	for _, d := range vm.Check(text) {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == vm.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    tokenRange(d.Line, d.Col, d.EndCol),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return diags
}

// tokenRange converts 1-based line and columns to an LSP range.
func tokenRange(line, col, endCol int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line - 1), Character: protocol.UInteger(col - 1)},
		End:   protocol.Position{Line: protocol.UInteger(line - 1), Character: protocol.UInteger(endCol - 1)},
	}
}

// --- Text extraction helpers ---

// Tokens are whitespace separated; '#' starts a comment.
func isTokenByte(ch byte) bool {
	return ch != '#' && !unicode.IsSpace(rune(ch))
}

// extractPrefix returns the token fragment before the cursor for completion.
func extractPrefix(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := min(int(pos.Character), len(line))

	start := col
	for start > 0 && isTokenByte(line[start-1]) {
		start--
	}

	if start == col || inComment(line, start) {
		return ""
	}
	return line[start:col]
}

// extractWord returns the full token under the cursor.
func extractWord(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := min(int(pos.Character), len(line))

	start := col
	for start > 0 && isTokenByte(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isTokenByte(line[end]) {
		end++
	}

	if start == end || inComment(line, start) {
		return ""
	}
	return line[start:end]
}

func inComment(line string, col int) bool {
	i := strings.IndexByte(line, '#')
	return i >= 0 && i < col
}

func boolPtr(b bool) *bool {
	return &b
}
