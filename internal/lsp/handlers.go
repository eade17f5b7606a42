package lsp

import (
	"context"
	"encoding/json"
	"sort"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/cal-lang/cal/compiler/errors"
	"github.com/cal-lang/cal/internal/tooling"
)

// handleDidOpen analyzes the opened document and publishes diagnostics
func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didOpen params")
	}

	docURI := string(params.TextDocument.URI)
	s.api.Analyze(docURI, params.TextDocument.Text, int(params.TextDocument.Version))
	s.publishDiagnostics(ctx, docURI)

	return reply(ctx, nil, nil)
}

// handleDidChange re-analyzes on full-sync content changes
func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didChange params")
	}

	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full document sync: take the last change
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	docURI := string(params.TextDocument.URI)
	s.api.UpdateDocument(docURI, content, int(params.TextDocument.Version))
	s.publishDiagnostics(ctx, docURI)

	return reply(ctx, nil, nil)
}

// handleDidClose drops the document from the cache
func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didClose params")
	}

	s.api.CloseDocument(string(params.TextDocument.URI))
	return reply(ctx, nil, nil)
}

// handleDidSave re-publishes diagnostics
func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didSave params")
	}

	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return reply(ctx, nil, nil)
}

// publishDiagnostics converts the core's diagnostics to wire shape
func (s *Server) publishDiagnostics(ctx context.Context, docURI string) {
	diagnostics := s.api.Diagnostics(docURI)

	lspDiagnostics := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		lspDiagnostics = append(lspDiagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(d.Range.Start.Line),
					Character: uint32(d.Range.Start.Character),
				},
				End: protocol.Position{
					Line:      uint32(d.Range.End.Line),
					Character: uint32(d.Range.End.Character),
				},
			},
			Severity: convertSeverity(d.Severity),
			Code:     d.Code,
			Source:   "cal",
			Message:  d.Message,
		})
	}

	params := protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: lspDiagnostics,
	}
	if err := s.client.PublishDiagnostics(ctx, &params); err != nil {
		s.logger.Warn("error publishing diagnostics", zap.Error(err))
	}
}

// handleFoldingRange returns folding ranges for the document
func (s *Server) handleFoldingRange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.FoldingRangeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse foldingRange params")
	}

	ranges := s.api.FoldingRangesFor(string(params.TextDocument.URI))
	result := make([]protocol.FoldingRange, 0, len(ranges))
	for _, r := range ranges {
		result = append(result, protocol.FoldingRange{
			StartLine: uint32(r.StartLine),
			EndLine:   uint32(r.EndLine),
			Kind:      protocol.FoldingRangeKind(r.Kind),
		})
	}
	return reply(ctx, result, nil)
}

// tokenEncoder accumulates pushed spans and delta-encodes them for the wire
type tokenEncoder struct {
	typeIndex map[string]uint32
	entries   []tokenEntry
}

type tokenEntry struct {
	line, char, length uint32
	tokenType          uint32
}

func newTokenEncoder() *tokenEncoder {
	idx := make(map[string]uint32, len(tooling.SemanticTokenTypes))
	for i, t := range tooling.SemanticTokenTypes {
		idx[t] = uint32(i)
	}
	return &tokenEncoder{typeIndex: idx}
}

// Push implements tooling.SemanticTokenBuilder
func (e *tokenEncoder) Push(line, char, length int, tokenType string, tokenModifiers []string) {
	idx, ok := e.typeIndex[tokenType]
	if !ok {
		return
	}
	e.entries = append(e.entries, tokenEntry{
		line:      uint32(line),
		char:      uint32(char),
		length:    uint32(length),
		tokenType: idx,
	})
}

// encode produces the LSP delta-encoded data array
func (e *tokenEncoder) encode() []uint32 {
	sort.SliceStable(e.entries, func(i, j int) bool {
		if e.entries[i].line != e.entries[j].line {
			return e.entries[i].line < e.entries[j].line
		}
		return e.entries[i].char < e.entries[j].char
	})

	data := make([]uint32, 0, len(e.entries)*5)
	var prevLine, prevChar uint32
	for _, entry := range e.entries {
		deltaLine := entry.line - prevLine
		deltaChar := entry.char
		if deltaLine == 0 {
			deltaChar = entry.char - prevChar
		}
		data = append(data, deltaLine, deltaChar, entry.length, entry.tokenType, 0)
		prevLine, prevChar = entry.line, entry.char
	}
	return data
}

// handleSemanticTokens returns the full semantic-token stream
func (s *Server) handleSemanticTokens(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.SemanticTokensParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse semanticTokens params")
	}

	encoder := newTokenEncoder()
	s.api.SemanticTokensFor(string(params.TextDocument.URI), encoder)

	return reply(ctx, protocol.SemanticTokens{Data: encoder.encode()}, nil)
}

// handleDocumentSymbol returns a flat symbol listing
func (s *Server) handleDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse documentSymbol params")
	}

	docURI := string(params.TextDocument.URI)
	table := s.api.SymbolsFor(docURI)
	if table == nil {
		return reply(ctx, []protocol.SymbolInformation{}, nil)
	}

	symbols := make([]protocol.SymbolInformation, 0, len(table.GetAllSymbols()))
	for _, sym := range table.GetAllSymbols() {
		if sym.Name == "" {
			continue
		}
		symbols = append(symbols, protocol.SymbolInformation{
			Name: sym.Name,
			Kind: convertSymbolKind(sym.Kind),
			Location: protocol.Location{
				URI:   protocol.DocumentURI(docURI),
				Range: symbolRange(sym),
			},
		})
	}
	return reply(ctx, symbols, nil)
}

func symbolRange(sym *tooling.Symbol) protocol.Range {
	if sym.Decl == nil || sym.Decl.Start() == nil {
		return protocol.Range{}
	}
	start := sym.Decl.Start()
	end := sym.Decl.End()
	return protocol.Range{
		Start: protocol.Position{Line: uint32(start.Line - 1), Character: uint32(start.Column - 1)},
		End:   protocol.Position{Line: uint32(end.Line - 1), Character: uint32(end.Column - 1 + end.Length())},
	}
}

func convertSymbolKind(kind tooling.SymbolKind) protocol.SymbolKind {
	switch kind {
	case tooling.SymbolObject:
		return protocol.SymbolKindClass
	case tooling.SymbolProcedure, tooling.SymbolTrigger:
		return protocol.SymbolKindFunction
	case tooling.SymbolEvent:
		return protocol.SymbolKindEvent
	case tooling.SymbolParameter, tooling.SymbolVariable:
		return protocol.SymbolKindVariable
	case tooling.SymbolField:
		return protocol.SymbolKindField
	default:
		return protocol.SymbolKindVariable
	}
}

// convertSeverity converts core severity to LSP severity
func convertSeverity(severity errors.Severity) protocol.DiagnosticSeverity {
	switch severity {
	case errors.SeverityError:
		return protocol.DiagnosticSeverityError
	case errors.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case errors.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}
