// Package tooling exposes the analysis core to IDE integrations. It keeps
// per-document results behind a thread-safe cache and answers the queries
// the LSP layer needs: diagnostics, symbols, folding ranges and semantic
// tokens. Concurrent analyses run on independent pipeline instances that
// share no mutable state.
package tooling

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cal-lang/cal/compiler/errors"
	"github.com/cal-lang/cal/compiler/lexer"
	"github.com/cal-lang/cal/compiler/parser"
	"github.com/cal-lang/cal/compiler/walker"
)

// Config holds analysis options
type Config struct {
	// MaxDepth is the logical nesting limit for the depth-limited walk
	MaxDepth int

	// AllowRdldataUnderflow suppresses the CONTEXT_UNDERFLOW clean-exit
	// violation for report layout exports
	AllowRdldataUnderflow bool
}

// Document is one cached analysis result
type Document struct {
	URI     string
	Content string
	Version int

	// AnalysisID identifies the analysis batch that produced this result
	AnalysisID uuid.UUID

	Tokens      []lexer.Token
	CleanExit   lexer.CleanExitReport
	AST         *parser.CALDocument
	ParseErrors []parser.ParseError
	Symbols     *SymbolTable
	WalkerDiags errors.DiagnosticList
}

// API provides thread-safe access to the analysis pipeline for IDE
// integration
type API struct {
	documents map[string]*Document
	docsMutex sync.RWMutex

	config Config
	logger *zap.Logger
}

// NewAPI creates an API with the given configuration
func NewAPI(config Config, logger *zap.Logger) *API {
	if config.MaxDepth <= 0 {
		config.MaxDepth = walker.DefaultMaxDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		documents: make(map[string]*Document),
		config:    config,
		logger:    logger,
	}
}

// Analyze runs the full pipeline on a document and caches the result
func (a *API) Analyze(uri, content string, version int) *Document {
	doc := a.analyze(uri, content, version)

	a.docsMutex.Lock()
	a.documents[uri] = doc
	a.docsMutex.Unlock()

	a.logger.Debug("document analyzed",
		zap.String("uri", uri),
		zap.Int("version", version),
		zap.String("analysis_id", doc.AnalysisID.String()),
		zap.Int("tokens", len(doc.Tokens)),
		zap.Int("parse_errors", len(doc.ParseErrors)),
		zap.Bool("clean_exit", doc.CleanExit.Passed))
	return doc
}

// analyze runs lexer, parser, symbol builder and the depth-limited walk on
// a fresh pipeline instance
func (a *API) analyze(uri, content string, version int) *Document {
	doc := &Document{
		URI:        uri,
		Content:    content,
		Version:    version,
		AnalysisID: uuid.New(),
	}

	l := lexer.New(content)
	l.SetAllowRdldataUnderflow(a.config.AllowRdldataUnderflow)
	l.SetLogger(a.logger)
	doc.Tokens, doc.CleanExit = l.Tokenize()

	p := parser.New(doc.Tokens)
	doc.AST, doc.ParseErrors = p.Parse()

	doc.Symbols = BuildSymbols(doc.AST)

	w := walker.NewDepthLimitedWalker(a.config.MaxDepth)
	doc.WalkerDiags = w.Walk(doc.AST, &walker.Visitor{})

	return doc
}

// UpdateDocument re-analyzes a changed document
func (a *API) UpdateDocument(uri, content string, version int) *Document {
	return a.Analyze(uri, content, version)
}

// Document returns the cached result for a URI
func (a *API) Document(uri string) (*Document, bool) {
	a.docsMutex.RLock()
	defer a.docsMutex.RUnlock()
	doc, ok := a.documents[uri]
	return doc, ok
}

// CloseDocument drops a document from the cache
func (a *API) CloseDocument(uri string) {
	a.docsMutex.Lock()
	delete(a.documents, uri)
	a.docsMutex.Unlock()
}

// Diagnostics merges clean-exit violations, parse errors and walker
// diagnostics into boundary shape
func (a *API) Diagnostics(uri string) errors.DiagnosticList {
	doc, ok := a.Document(uri)
	if !ok {
		return nil
	}

	diags := make(errors.DiagnosticList, 0,
		len(doc.CleanExit.Violations)+len(doc.ParseErrors)+len(doc.WalkerDiags))

	for _, v := range doc.CleanExit.Violations {
		diags = append(diags, errors.NewDiagnostic(
			1, 1, 0, errors.SeverityError, v.Kind.Code(), v.String()))
	}
	for _, e := range doc.ParseErrors {
		diags = append(diags, e.Diagnostic())
	}
	diags = append(diags, doc.WalkerDiags...)

	return diags
}

// FoldingRangesFor returns the folding ranges for a cached document
func (a *API) FoldingRangesFor(uri string) []FoldingRange {
	doc, ok := a.Document(uri)
	if !ok {
		return nil
	}
	return FoldingRanges(doc.AST, doc.Content)
}

// SemanticTokensFor classifies the cached document's tokens through the
// builder
func (a *API) SemanticTokensFor(uri string, builder SemanticTokenBuilder) {
	doc, ok := a.Document(uri)
	if !ok {
		return
	}
	SemanticTokens(doc.Tokens, doc.AST, builder)
}

// SymbolsFor returns the cached document's symbol table
func (a *API) SymbolsFor(uri string) *SymbolTable {
	doc, ok := a.Document(uri)
	if !ok {
		return nil
	}
	return doc.Symbols
}
