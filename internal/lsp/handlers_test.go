package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/cal-lang/cal/compiler/errors"
	"github.com/cal-lang/cal/internal/tooling"
)

func TestTokenEncoder_DeltaEncoding(t *testing.T) {
	e := newTokenEncoder()
	e.Push(0, 0, 6, tooling.SemTokenKeyword, nil)
	e.Push(0, 7, 5, tooling.SemTokenVariable, nil)
	e.Push(2, 2, 3, tooling.SemTokenNumber, nil)

	data := e.encode()
	require.Len(t, data, 15)

	// First token: absolute position
	assert.Equal(t, []uint32{0, 0, 6}, data[0:3])
	// Same line: char is a delta
	assert.Equal(t, []uint32{0, 7, 5}, data[5:8])
	// New line: char is absolute again
	assert.Equal(t, []uint32{2, 2, 3}, data[10:13])
}

func TestTokenEncoder_SortsOutOfOrderPushes(t *testing.T) {
	e := newTokenEncoder()
	e.Push(3, 0, 1, tooling.SemTokenKeyword, nil)
	e.Push(1, 0, 1, tooling.SemTokenKeyword, nil)

	data := e.encode()
	require.Len(t, data, 10)
	assert.Equal(t, uint32(1), data[0], "encoding must be in document order")
	assert.Equal(t, uint32(2), data[5], "second entry is a line delta")
}

func TestTokenEncoder_UnknownTypeDropped(t *testing.T) {
	e := newTokenEncoder()
	e.Push(0, 0, 1, "no-such-type", nil)
	assert.Empty(t, e.encode())
}

func TestConvertSeverity(t *testing.T) {
	assert.Equal(t, protocol.DiagnosticSeverityError, convertSeverity(errors.SeverityError))
	assert.Equal(t, protocol.DiagnosticSeverityWarning, convertSeverity(errors.SeverityWarning))
	assert.Equal(t, protocol.DiagnosticSeverityInformation, convertSeverity(errors.SeverityInformation))
	assert.Equal(t, protocol.DiagnosticSeverityHint, convertSeverity(errors.SeverityHint))
}

func TestConvertSymbolKind(t *testing.T) {
	assert.Equal(t, protocol.SymbolKindClass, convertSymbolKind(tooling.SymbolObject))
	assert.Equal(t, protocol.SymbolKindFunction, convertSymbolKind(tooling.SymbolProcedure))
	assert.Equal(t, protocol.SymbolKindFunction, convertSymbolKind(tooling.SymbolTrigger))
	assert.Equal(t, protocol.SymbolKindEvent, convertSymbolKind(tooling.SymbolEvent))
	assert.Equal(t, protocol.SymbolKindVariable, convertSymbolKind(tooling.SymbolVariable))
	assert.Equal(t, protocol.SymbolKindField, convertSymbolKind(tooling.SymbolField))
}

func TestNewServer_Capabilities(t *testing.T) {
	api := tooling.NewAPI(tooling.Config{}, nil)
	s := NewServer(api, nil)

	assert.Equal(t, true, s.capabilities.DocumentSymbolProvider)
	assert.Equal(t, true, s.capabilities.FoldingRangeProvider)
	require.NotNil(t, s.capabilities.SemanticTokensProvider)
}
