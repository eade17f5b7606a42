package walker

import (
	"fmt"

	"github.com/cal-lang/cal/compiler/errors"
	"github.com/cal-lang/cal/compiler/parser"
)

// PhysicalStackLimit clamps traversal recursion independently of the
// configured logical limit, guaranteeing termination on adversarial input.
const PhysicalStackLimit = 1000

// DefaultMaxDepth is the logical nesting limit used when none is configured
const DefaultMaxDepth = 100

// DepthLimitedWalker extends the walker with a single shared logical depth
// counter over hierarchical node kinds. Crossing the logical limit emits one
// Warning per offending subtree and prunes it; crossing the physical limit
// prunes regardless of the configured maximum and emits one Warning per
// walk, however many branches cross it. The instance is
// reusable across walks after ResetDiagnostics.
type DepthLimitedWalker struct {
	maxDepth         int
	currentDepth     int
	physicalDepth    int
	physicalReported bool
	diagnostics      errors.DiagnosticList
}

// NewDepthLimitedWalker creates a walker with the given logical limit;
// zero or negative selects DefaultMaxDepth
func NewDepthLimitedWalker(maxDepth int) *DepthLimitedWalker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &DepthLimitedWalker{maxDepth: maxDepth}
}

// MaxDepth returns the configured logical limit
func (w *DepthLimitedWalker) MaxDepth() int {
	return w.maxDepth
}

// Diagnostics returns the diagnostics accumulated since the last reset
func (w *DepthLimitedWalker) Diagnostics() errors.DiagnosticList {
	return w.diagnostics
}

// ResetDiagnostics clears accumulated diagnostics and depth counters so the
// walker instance can be reused
func (w *DepthLimitedWalker) ResetDiagnostics() {
	w.diagnostics = nil
	w.currentDepth = 0
	w.physicalDepth = 0
	w.physicalReported = false
}

// Walk traverses the tree with depth enforcement and returns the
// diagnostics accumulated so far
func (w *DepthLimitedWalker) Walk(root parser.Node, v *Visitor) errors.DiagnosticList {
	if root == nil {
		return w.diagnostics
	}
	w.currentDepth = 0
	w.physicalDepth = 0
	w.physicalReported = false
	w.walk(root, v)
	return w.diagnostics
}

func (w *DepthLimitedWalker) walk(n parser.Node, v *Visitor) {
	if isNil(n) {
		return
	}

	w.physicalDepth++
	defer func() { w.physicalDepth-- }()

	if w.physicalDepth > PhysicalStackLimit {
		// One diagnostic per walk: sibling leaves at the crossing point
		// would otherwise each re-report the same runaway branch
		if !w.physicalReported {
			w.physicalReported = true
			w.report(n, w.physicalDepth, PhysicalStackLimit)
		}
		return
	}

	hierarchical := isHierarchical(n)
	if hierarchical {
		w.currentDepth++
		defer func() { w.currentDepth-- }()

		if w.currentDepth > w.maxDepth {
			w.report(n, w.currentDepth, w.maxDepth)
			return
		}
	}

	descend := true
	if v != nil {
		if v.VisitNode != nil && !v.VisitNode(n) {
			descend = false
		}
		if !v.dispatch(n) {
			descend = false
		}
	}
	if !descend {
		return
	}

	for _, child := range Children(n) {
		w.walk(child, v)
	}
}

// report emits the nesting-depth warning; the message carries both the
// offending depth and the limit
func (w *DepthLimitedWalker) report(n parser.Node, depth, limit int) {
	line, column, length := 1, 1, 0
	if tok := n.Start(); tok != nil {
		line, column, length = tok.Line, tok.Column, tok.Length()
	}
	w.diagnostics = append(w.diagnostics, errors.NewDiagnostic(
		line, column, length,
		errors.SeverityWarning,
		errors.CodeNestingDepthExceeded,
		fmt.Sprintf("nesting depth %d exceeds the limit of %d", depth, limit),
	))
}

// isHierarchical reports whether a node kind counts against the shared
// logical depth: container declarations and the block-producing statements
func isHierarchical(n parser.Node) bool {
	switch n.(type) {
	case *parser.ActionDeclaration, *parser.ControlDeclaration, *parser.XMLportElement,
		*parser.IfStatement, *parser.WhileStatement, *parser.ForStatement,
		*parser.RepeatStatement, *parser.CaseStatement, *parser.WithStatement:
		return true
	}
	return false
}
