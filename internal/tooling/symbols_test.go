package tooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cal-lang/cal/compiler/lexer"
	"github.com/cal-lang/cal/compiler/parser"
)

func parseDoc(t *testing.T, source string) *parser.CALDocument {
	t.Helper()
	tokens, _ := lexer.New(source).Tokenize()
	doc, errs := parser.New(tokens).Parse()
	require.Empty(t, errs, "fixture must parse cleanly")
	return doc
}

const symbolFixture = `OBJECT Codeunit 50000 Sales Mgt. {
CODE
{
VAR
  GlobalCount@1 : Integer;
  Customer@2 : Record 18;
PROCEDURE Post@1(VAR SalesLine@100 : Record 37) Posted : Boolean;
VAR
  LineCount@101 : Integer;
BEGIN
END;
TRIGGER OnRun();
VAR
  Window@102 : Dialog;
BEGIN
END;
BEGIN
END.
}
}`

func TestBuildSymbols_ScopeShape(t *testing.T) {
	table := BuildSymbols(parseDoc(t, symbolFixture))

	obj := table.GetSymbol("Sales Mgt.")
	require.NotNil(t, obj)
	assert.Equal(t, SymbolObject, obj.Kind)

	proc := table.GetSymbol("Post")
	require.NotNil(t, proc)
	assert.Equal(t, SymbolProcedure, proc.Kind)
	assert.Equal(t, "Boolean", proc.ReturnType)

	trig := table.GetSymbol("OnRun")
	require.NotNil(t, trig)
	assert.Equal(t, SymbolTrigger, trig.Kind)
}

func TestBuildSymbols_CaseInsensitiveLookup(t *testing.T) {
	table := BuildSymbols(parseDoc(t, symbolFixture))

	for _, spelling := range []string{"globalcount", "GLOBALCOUNT", "GlobalCount", "gLoBaLcOuNt"} {
		sym := table.GetSymbol(spelling)
		require.NotNil(t, sym, "lookup %q", spelling)
		assert.Equal(t, "GlobalCount", sym.Name, "stored name keeps original casing")
	}
}

func TestBuildSymbols_ScopeChainResolution(t *testing.T) {
	table := BuildSymbols(parseDoc(t, symbolFixture))

	proc := table.GetSymbol("Post")
	require.NotNil(t, proc)
	procScope := findScopeByOwner(table.Document, proc.Decl)
	require.NotNil(t, procScope)

	// Locals and parameters resolve in the procedure scope
	assert.NotNil(t, procScope.Resolve("SalesLine"))
	assert.NotNil(t, procScope.Resolve("LineCount"))

	// Outer names resolve by walking parents
	global := procScope.Resolve("GlobalCount")
	require.NotNil(t, global)
	assert.Equal(t, SymbolVariable, global.Kind)

	// The trigger's locals stay invisible here
	assert.Nil(t, procScope.Resolve("Window"))
}

func TestBuildSymbols_ShadowedEntriesRetained(t *testing.T) {
	source := `OBJECT Codeunit 1 X {
CODE
{
VAR
  Total@1 : Integer;
PROCEDURE Sum@1(Total@100 : Decimal);
BEGIN
END;
BEGIN
END.
}
}`
	table := BuildSymbols(parseDoc(t, source))

	count := 0
	for _, sym := range table.GetAllSymbols() {
		if lexer.EqualFold(sym.Name, "Total") {
			count++
		}
	}
	assert.Equal(t, 2, count, "shadowed declarations stay as independent entries")

	proc := table.GetSymbol("Sum")
	procScope := findScopeByOwner(table.Document, proc.Decl)
	require.NotNil(t, procScope)
	inner := procScope.Resolve("Total")
	require.NotNil(t, inner)
	assert.Equal(t, SymbolParameter, inner.Kind, "the inner declaration wins in its scope")
}

func TestBuildSymbols_ParameterReturnTypeAndKinds(t *testing.T) {
	table := BuildSymbols(parseDoc(t, symbolFixture))

	all := table.GetAllSymbols()
	kinds := map[SymbolKind]int{}
	for _, sym := range all {
		kinds[sym.Kind]++
	}
	assert.Equal(t, 1, kinds[SymbolObject])
	assert.Equal(t, 1, kinds[SymbolProcedure])
	assert.Equal(t, 1, kinds[SymbolTrigger])
	assert.Equal(t, 1, kinds[SymbolParameter])
	assert.Equal(t, 4, kinds[SymbolVariable])

	proc := table.GetSymbol("Post")
	require.NotNil(t, proc)
	assert.Equal(t, "Boolean", proc.ReturnType)
}

func TestBuildSymbols_NilDocument(t *testing.T) {
	table := BuildSymbols(nil)
	assert.Nil(t, table.GetSymbol("anything"))
	assert.Empty(t, table.GetAllSymbols())
}

func findScopeByOwner(scope *Scope, owner parser.Node) *Scope {
	if scope.Owner == owner {
		return scope
	}
	for _, child := range scope.Children {
		if found := findScopeByOwner(child, owner); found != nil {
			return found
		}
	}
	return nil
}
