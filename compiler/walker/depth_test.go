package walker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cal-lang/cal/compiler/errors"
	"github.com/cal-lang/cal/compiler/parser"
)

// nestedIfs builds a synthetic IF chain of the given depth. The walker does
// not require token provenance, so spans stay empty.
func nestedIfs(depth int) parser.Statement {
	var stmt parser.Statement = &parser.ExitStatement{}
	for i := 0; i < depth; i++ {
		stmt = &parser.IfStatement{
			Condition: &parser.Identifier{Name: "x"},
			Then:      stmt,
		}
	}
	return stmt
}

func TestDepthLimited_PhysicalLimitOnDeepInput(t *testing.T) {
	root := nestedIfs(5500)
	w := NewDepthLimitedWalker(10000)

	diags := w.Walk(root, &Visitor{})

	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Severity != errors.SeverityWarning {
		t.Errorf("expected Warning severity, got %v", d.Severity)
	}
	if d.Code != errors.CodeNestingDepthExceeded {
		t.Errorf("expected nesting-depth-exceeded, got %q", d.Code)
	}
	if !strings.Contains(d.Message, "1001") || !strings.Contains(d.Message, fmt.Sprintf("%d", PhysicalStackLimit)) {
		t.Errorf("message must cite depth 1001 and limit %d, got %q", PhysicalStackLimit, d.Message)
	}
}

func TestDepthLimited_LogicalLimit(t *testing.T) {
	root := nestedIfs(10)
	w := NewDepthLimitedWalker(5)

	diags := w.Walk(root, &Visitor{})

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	if !strings.Contains(diags[0].Message, "6") || !strings.Contains(diags[0].Message, "5") {
		t.Errorf("message must contain the offending depth and the limit, got %q", diags[0].Message)
	}
}

func TestDepthLimited_NonHierarchicalNodesDoNotCount(t *testing.T) {
	// A block chain is not hierarchical; only the IFs count
	var stmt parser.Statement = &parser.ExitStatement{}
	for i := 0; i < 10; i++ {
		stmt = &parser.BlockStatement{Statements: []parser.Statement{stmt}}
	}
	for i := 0; i < 3; i++ {
		stmt = &parser.IfStatement{Then: stmt}
	}

	w := NewDepthLimitedWalker(5)
	diags := w.Walk(stmt, &Visitor{})
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}

func TestDepthLimited_SiblingViolationsReportIndependently(t *testing.T) {
	root := &parser.BlockStatement{Statements: []parser.Statement{
		nestedIfs(10),
		nestedIfs(10),
		nestedIfs(10),
	}}

	w := NewDepthLimitedWalker(5)
	diags := w.Walk(root, &Visitor{})

	if len(diags) != 3 {
		t.Fatalf("expected three sibling diagnostics, got %d", len(diags))
	}
}

func TestDepthLimited_MixedNestingSharesOneCounter(t *testing.T) {
	// Control > trigger property > IF chain: combined depth uses the single
	// shared counter
	inner := nestedIfs(3)
	control := &parser.ControlDeclaration{
		Kind: "Container",
		Properties: []*parser.Property{{
			Name: "OnAction",
			Trigger: &parser.TriggerDeclaration{
				Name: "OnAction",
				Body: &parser.BlockStatement{Statements: []parser.Statement{inner}},
			},
		}},
	}

	w := NewDepthLimitedWalker(3)
	diags := w.Walk(control, &Visitor{})

	// control(1) + if(2) + if(3) + if(4): the fourth level violates
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic from combined depth, got %d", len(diags))
	}
	if !strings.Contains(diags[0].Message, "4") {
		t.Errorf("expected combined depth 4, got %q", diags[0].Message)
	}
}

func TestDepthLimited_ResetPermitsReuse(t *testing.T) {
	w := NewDepthLimitedWalker(5)

	w.Walk(nestedIfs(10), &Visitor{})
	if len(w.Diagnostics()) == 0 {
		t.Fatal("expected diagnostics before reset")
	}

	w.ResetDiagnostics()
	if len(w.Diagnostics()) != 0 {
		t.Fatal("expected no diagnostics after reset")
	}

	diags := w.Walk(nestedIfs(3), &Visitor{})
	if len(diags) != 0 {
		t.Errorf("shallow input after reset must be clean, got %v", diags)
	}
}

func TestDepthLimited_DiagnosticsAccumulateAcrossWalks(t *testing.T) {
	w := NewDepthLimitedWalker(5)
	w.Walk(nestedIfs(10), &Visitor{})
	w.Walk(nestedIfs(10), &Visitor{})

	if len(w.Diagnostics()) != 2 {
		t.Errorf("expected accumulation across walks, got %d", len(w.Diagnostics()))
	}
}

func TestDepthLimited_VisitorStillRuns(t *testing.T) {
	w := NewDepthLimitedWalker(100)
	count := 0
	w.Walk(nestedIfs(5), &Visitor{
		VisitIfStatement: func(n *parser.IfStatement) bool {
			count++
			return true
		},
	})
	if count != 5 {
		t.Errorf("expected 5 IF visits, got %d", count)
	}
}
