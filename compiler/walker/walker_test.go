package walker

import (
	"testing"

	"github.com/cal-lang/cal/compiler/lexer"
	"github.com/cal-lang/cal/compiler/parser"
)

func parseSource(t *testing.T, source string) *parser.CALDocument {
	t.Helper()
	tokens, _ := lexer.New(source).Tokenize()
	doc, _ := parser.New(tokens).Parse()
	return doc
}

const walkFixture = `OBJECT Codeunit 50000 Util {
CODE
{
VAR
  Count@1 : Integer;
PROCEDURE P@1();
BEGIN
  IF Count > 0 THEN
    Count := Count - 1;
END;
BEGIN
END.
}
}`

func TestWalk_VisitsAllNodeKinds(t *testing.T) {
	doc := parseSource(t, walkFixture)

	seen := map[string]bool{}
	Walk(doc, &Visitor{
		VisitNode: func(n parser.Node) bool {
			switch n.(type) {
			case *parser.ObjectDeclaration:
				seen["object"] = true
			case *parser.CodeSection:
				seen["code"] = true
			case *parser.ProcedureDeclaration:
				seen["procedure"] = true
			case *parser.IfStatement:
				seen["if"] = true
			case *parser.AssignmentStatement:
				seen["assignment"] = true
			case *parser.VariableDeclaration:
				seen["variable"] = true
			}
			return true
		},
	})

	for _, kind := range []string{"object", "code", "procedure", "if", "assignment", "variable"} {
		if !seen[kind] {
			t.Errorf("walker never visited a %s node", kind)
		}
	}
}

func TestWalk_FalseFromVisitNodePrunes(t *testing.T) {
	doc := parseSource(t, walkFixture)

	visited := 0
	Walk(doc, &Visitor{
		VisitNode: func(n parser.Node) bool {
			visited++
			_, isProc := n.(*parser.ProcedureDeclaration)
			return !isProc
		},
		VisitIfStatement: func(n *parser.IfStatement) bool {
			t.Error("pruning a procedure must hide its body")
			return true
		},
	})

	if visited == 0 {
		t.Fatal("expected visits")
	}
}

func TestWalk_VariantCallbackPrunes(t *testing.T) {
	doc := parseSource(t, walkFixture)

	Walk(doc, &Visitor{
		VisitProcedure: func(n *parser.ProcedureDeclaration) bool {
			return false
		},
		VisitBlockStatement: func(n *parser.BlockStatement) bool {
			// Only the documentation trigger remains reachable
			if len(n.Statements) != 0 {
				t.Error("procedure bodies must be pruned")
			}
			return true
		},
	})
}

func TestWalk_VariantCallbackStillInvokedWhenVisitNodePrunes(t *testing.T) {
	doc := parseSource(t, walkFixture)

	sawObject := false
	Walk(doc, &Visitor{
		VisitNode: func(n parser.Node) bool {
			_, isObj := n.(*parser.ObjectDeclaration)
			return !isObj
		},
		VisitObjectDeclaration: func(n *parser.ObjectDeclaration) bool {
			sawObject = true
			return true
		},
	})

	if !sawObject {
		t.Error("the variant callback runs even when VisitNode prunes")
	}
}

func TestWalk_SourceOrder(t *testing.T) {
	doc := parseSource(t, `OBJECT Codeunit 1 X {
CODE
{
PROCEDURE A@1();
BEGIN
END;
PROCEDURE B@2();
BEGIN
END;
BEGIN
END.
}
}`)

	var names []string
	Walk(doc, &Visitor{
		VisitProcedure: func(n *parser.ProcedureDeclaration) bool {
			names = append(names, n.Name)
			return true
		},
	})

	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("expected source order [A B], got %v", names)
	}
}

func TestWalk_NilRootIsNoop(t *testing.T) {
	Walk(nil, &Visitor{
		VisitNode: func(n parser.Node) bool {
			t.Error("nothing should be visited")
			return true
		},
	})
}
