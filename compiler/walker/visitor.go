// Package walker provides read-only traversal over the C/AL syntax tree:
// a plain walker driven by a visitor, and a depth-limited walker that
// bounds logical nesting and physical recursion on adversarial input.
package walker

import "github.com/cal-lang/cal/compiler/parser"

// Visitor offers one optional callback per node variant plus the generic
// VisitNode. A callback returning false prunes descent into that node; a
// nil callback means "descend".
type Visitor struct {
	VisitNode func(n parser.Node) bool

	VisitDocument           func(n *parser.CALDocument) bool
	VisitObjectDeclaration  func(n *parser.ObjectDeclaration) bool
	VisitPropertySection    func(n *parser.PropertySection) bool
	VisitProperty           func(n *parser.Property) bool
	VisitFieldSection       func(n *parser.FieldSection) bool
	VisitFieldDeclaration   func(n *parser.FieldDeclaration) bool
	VisitKeySection         func(n *parser.KeySection) bool
	VisitKeyDeclaration     func(n *parser.KeyDeclaration) bool
	VisitFieldGroupSection  func(n *parser.FieldGroupSection) bool
	VisitControlsSection    func(n *parser.ControlsSection) bool
	VisitControlDeclaration func(n *parser.ControlDeclaration) bool
	VisitActionsSection     func(n *parser.ActionsSection) bool
	VisitActionDeclaration  func(n *parser.ActionDeclaration) bool
	VisitElementsSection    func(n *parser.ElementsSection) bool
	VisitXMLportElement     func(n *parser.XMLportElement) bool
	VisitDatasetSection     func(n *parser.DatasetSection) bool
	VisitCodeSection        func(n *parser.CodeSection) bool
	VisitVariable           func(n *parser.VariableDeclaration) bool
	VisitParameter          func(n *parser.ParameterDeclaration) bool
	VisitProcedure          func(n *parser.ProcedureDeclaration) bool
	VisitTrigger            func(n *parser.TriggerDeclaration) bool
	VisitEvent              func(n *parser.EventDeclaration) bool

	VisitBlockStatement      func(n *parser.BlockStatement) bool
	VisitIfStatement         func(n *parser.IfStatement) bool
	VisitCaseStatement       func(n *parser.CaseStatement) bool
	VisitCaseBranch          func(n *parser.CaseBranch) bool
	VisitForStatement        func(n *parser.ForStatement) bool
	VisitWhileStatement      func(n *parser.WhileStatement) bool
	VisitRepeatStatement     func(n *parser.RepeatStatement) bool
	VisitWithStatement       func(n *parser.WithStatement) bool
	VisitAssignmentStatement func(n *parser.AssignmentStatement) bool
	VisitExpressionStatement func(n *parser.ExpressionStatement) bool
	VisitExitStatement       func(n *parser.ExitStatement) bool

	VisitLiteral          func(n *parser.Literal) bool
	VisitIdentifier       func(n *parser.Identifier) bool
	VisitBinaryExpression func(n *parser.BinaryExpression) bool
	VisitUnaryExpression  func(n *parser.UnaryExpression) bool
	VisitMemberExpression func(n *parser.MemberExpression) bool
	VisitCallExpression   func(n *parser.CallExpression) bool
	VisitIndexExpression  func(n *parser.IndexExpression) bool
	VisitSetLiteral       func(n *parser.SetLiteral) bool
	VisitRangeExpression  func(n *parser.RangeExpression) bool
}

// dispatch invokes the variant-specific callback for a node. Returning
// false signals "do not descend".
func (v *Visitor) dispatch(n parser.Node) bool {
	switch node := n.(type) {
	case *parser.CALDocument:
		return v.VisitDocument == nil || v.VisitDocument(node)
	case *parser.ObjectDeclaration:
		return v.VisitObjectDeclaration == nil || v.VisitObjectDeclaration(node)
	case *parser.PropertySection:
		return v.VisitPropertySection == nil || v.VisitPropertySection(node)
	case *parser.Property:
		return v.VisitProperty == nil || v.VisitProperty(node)
	case *parser.FieldSection:
		return v.VisitFieldSection == nil || v.VisitFieldSection(node)
	case *parser.FieldDeclaration:
		return v.VisitFieldDeclaration == nil || v.VisitFieldDeclaration(node)
	case *parser.KeySection:
		return v.VisitKeySection == nil || v.VisitKeySection(node)
	case *parser.KeyDeclaration:
		return v.VisitKeyDeclaration == nil || v.VisitKeyDeclaration(node)
	case *parser.FieldGroupSection:
		return v.VisitFieldGroupSection == nil || v.VisitFieldGroupSection(node)
	case *parser.ControlsSection:
		return v.VisitControlsSection == nil || v.VisitControlsSection(node)
	case *parser.ControlDeclaration:
		return v.VisitControlDeclaration == nil || v.VisitControlDeclaration(node)
	case *parser.ActionsSection:
		return v.VisitActionsSection == nil || v.VisitActionsSection(node)
	case *parser.ActionDeclaration:
		return v.VisitActionDeclaration == nil || v.VisitActionDeclaration(node)
	case *parser.ElementsSection:
		return v.VisitElementsSection == nil || v.VisitElementsSection(node)
	case *parser.XMLportElement:
		return v.VisitXMLportElement == nil || v.VisitXMLportElement(node)
	case *parser.DatasetSection:
		return v.VisitDatasetSection == nil || v.VisitDatasetSection(node)
	case *parser.CodeSection:
		return v.VisitCodeSection == nil || v.VisitCodeSection(node)
	case *parser.VariableDeclaration:
		return v.VisitVariable == nil || v.VisitVariable(node)
	case *parser.ParameterDeclaration:
		return v.VisitParameter == nil || v.VisitParameter(node)
	case *parser.ProcedureDeclaration:
		return v.VisitProcedure == nil || v.VisitProcedure(node)
	case *parser.TriggerDeclaration:
		return v.VisitTrigger == nil || v.VisitTrigger(node)
	case *parser.EventDeclaration:
		return v.VisitEvent == nil || v.VisitEvent(node)

	case *parser.BlockStatement:
		return v.VisitBlockStatement == nil || v.VisitBlockStatement(node)
	case *parser.IfStatement:
		return v.VisitIfStatement == nil || v.VisitIfStatement(node)
	case *parser.CaseStatement:
		return v.VisitCaseStatement == nil || v.VisitCaseStatement(node)
	case *parser.CaseBranch:
		return v.VisitCaseBranch == nil || v.VisitCaseBranch(node)
	case *parser.ForStatement:
		return v.VisitForStatement == nil || v.VisitForStatement(node)
	case *parser.WhileStatement:
		return v.VisitWhileStatement == nil || v.VisitWhileStatement(node)
	case *parser.RepeatStatement:
		return v.VisitRepeatStatement == nil || v.VisitRepeatStatement(node)
	case *parser.WithStatement:
		return v.VisitWithStatement == nil || v.VisitWithStatement(node)
	case *parser.AssignmentStatement:
		return v.VisitAssignmentStatement == nil || v.VisitAssignmentStatement(node)
	case *parser.ExpressionStatement:
		return v.VisitExpressionStatement == nil || v.VisitExpressionStatement(node)
	case *parser.ExitStatement:
		return v.VisitExitStatement == nil || v.VisitExitStatement(node)

	case *parser.Literal:
		return v.VisitLiteral == nil || v.VisitLiteral(node)
	case *parser.Identifier:
		return v.VisitIdentifier == nil || v.VisitIdentifier(node)
	case *parser.BinaryExpression:
		return v.VisitBinaryExpression == nil || v.VisitBinaryExpression(node)
	case *parser.UnaryExpression:
		return v.VisitUnaryExpression == nil || v.VisitUnaryExpression(node)
	case *parser.MemberExpression:
		return v.VisitMemberExpression == nil || v.VisitMemberExpression(node)
	case *parser.CallExpression:
		return v.VisitCallExpression == nil || v.VisitCallExpression(node)
	case *parser.IndexExpression:
		return v.VisitIndexExpression == nil || v.VisitIndexExpression(node)
	case *parser.SetLiteral:
		return v.VisitSetLiteral == nil || v.VisitSetLiteral(node)
	case *parser.RangeExpression:
		return v.VisitRangeExpression == nil || v.VisitRangeExpression(node)
	}
	return true
}
