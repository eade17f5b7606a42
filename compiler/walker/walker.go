package walker

import "github.com/cal-lang/cal/compiler/parser"

// Walk traverses the tree rooted at root in source order. For each node it
// invokes VisitNode, then the variant-specific callback; unless either
// returned false it recurses into the node's children.
func Walk(root parser.Node, v *Visitor) {
	if root == nil || v == nil {
		return
	}
	walk(root, v)
}

func walk(n parser.Node, v *Visitor) {
	if isNil(n) {
		return
	}

	descend := true
	if v.VisitNode != nil && !v.VisitNode(n) {
		descend = false
	}
	if !v.dispatch(n) {
		descend = false
	}
	if !descend {
		return
	}

	for _, child := range Children(n) {
		walk(child, v)
	}
}

// isNil reports whether a Node interface holds a nil pointer
func isNil(n parser.Node) bool {
	if n == nil {
		return true
	}
	switch node := n.(type) {
	case *parser.CALDocument:
		return node == nil
	case *parser.ObjectDeclaration:
		return node == nil
	case *parser.BlockStatement:
		return node == nil
	}
	return false
}

// Children returns a node's children in source order. Nil children are
// omitted.
func Children(n parser.Node) []parser.Node {
	var out []parser.Node
	add := func(c parser.Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addStmt := func(s parser.Statement) {
		if s != nil {
			out = append(out, s)
		}
	}
	addExpr := func(e parser.Expression) {
		if e != nil {
			out = append(out, e)
		}
	}

	switch node := n.(type) {
	case *parser.CALDocument:
		for _, o := range node.Objects {
			add(o)
		}

	case *parser.ObjectDeclaration:
		if node.ObjectProperties != nil {
			add(node.ObjectProperties)
		}
		if node.Properties != nil {
			add(node.Properties)
		}
		if node.Fields != nil {
			add(node.Fields)
		}
		if node.Keys != nil {
			add(node.Keys)
		}
		if node.FieldGroups != nil {
			add(node.FieldGroups)
		}
		if node.Controls != nil {
			add(node.Controls)
		}
		if node.Actions != nil {
			add(node.Actions)
		}
		if node.Elements != nil {
			add(node.Elements)
		}
		if node.Dataset != nil {
			add(node.Dataset)
		}
		if node.Code != nil {
			add(node.Code)
		}

	case *parser.PropertySection:
		for _, p := range node.Properties {
			add(p)
		}
	case *parser.Property:
		if node.Trigger != nil {
			add(node.Trigger)
		}
	case *parser.FieldSection:
		for _, f := range node.Fields {
			add(f)
		}
	case *parser.FieldDeclaration:
		for _, p := range node.Properties {
			add(p)
		}
	case *parser.KeySection:
		for _, k := range node.Keys {
			add(k)
		}
	case *parser.KeyDeclaration:
		for _, p := range node.Properties {
			add(p)
		}
	case *parser.FieldGroupSection:
		for _, g := range node.Groups {
			add(g)
		}
	case *parser.ControlsSection:
		for _, c := range node.Controls {
			add(c)
		}
	case *parser.ControlDeclaration:
		for _, p := range node.Properties {
			add(p)
		}
		for _, c := range node.Children {
			add(c)
		}
	case *parser.ActionsSection:
		for _, a := range node.Actions {
			add(a)
		}
	case *parser.ActionDeclaration:
		for _, p := range node.Properties {
			add(p)
		}
		for _, a := range node.Children {
			add(a)
		}
	case *parser.ElementsSection:
		for _, e := range node.Elements {
			add(e)
		}
	case *parser.XMLportElement:
		for _, p := range node.Properties {
			add(p)
		}
		for _, e := range node.Children {
			add(e)
		}
	case *parser.DatasetSection:
		for _, i := range node.Items {
			add(i)
		}

	case *parser.CodeSection:
		for _, v := range node.Variables {
			add(v)
		}
		for _, t := range node.Triggers {
			add(t)
		}
		for _, pr := range node.Procedures {
			add(pr)
		}
		for _, e := range node.Events {
			add(e)
		}
		if node.Documentation != nil {
			add(node.Documentation)
		}

	case *parser.ProcedureDeclaration:
		for _, p := range node.Parameters {
			add(p)
		}
		for _, v := range node.Variables {
			add(v)
		}
		if node.Body != nil {
			add(node.Body)
		}
	case *parser.TriggerDeclaration:
		for _, v := range node.Variables {
			add(v)
		}
		if node.Body != nil {
			add(node.Body)
		}
	case *parser.EventDeclaration:
		for _, p := range node.Parameters {
			add(p)
		}
		for _, v := range node.Variables {
			add(v)
		}
		if node.Body != nil {
			add(node.Body)
		}

	case *parser.BlockStatement:
		for _, s := range node.Statements {
			addStmt(s)
		}
	case *parser.IfStatement:
		addExpr(node.Condition)
		addStmt(node.Then)
		addStmt(node.Else)
	case *parser.CaseStatement:
		addExpr(node.Expression)
		for _, b := range node.Branches {
			add(b)
		}
		for _, s := range node.ElseBranch {
			addStmt(s)
		}
	case *parser.CaseBranch:
		for _, val := range node.Values {
			addExpr(val)
		}
		addStmt(node.Body)
	case *parser.ForStatement:
		addExpr(node.Variable)
		addExpr(node.From)
		addExpr(node.To)
		addStmt(node.Body)
	case *parser.WhileStatement:
		addExpr(node.Condition)
		addStmt(node.Body)
	case *parser.RepeatStatement:
		for _, s := range node.Statements {
			addStmt(s)
		}
		addExpr(node.Condition)
	case *parser.WithStatement:
		addExpr(node.Record)
		addStmt(node.Body)
	case *parser.AssignmentStatement:
		addExpr(node.Target)
		addExpr(node.Value)
	case *parser.ExpressionStatement:
		addExpr(node.Expression)
	case *parser.ExitStatement:
		addExpr(node.Value)

	case *parser.BinaryExpression:
		addExpr(node.Left)
		addExpr(node.Right)
	case *parser.UnaryExpression:
		addExpr(node.Operand)
	case *parser.MemberExpression:
		addExpr(node.Object)
		if node.Member != nil {
			add(node.Member)
		}
	case *parser.CallExpression:
		addExpr(node.Callee)
		for _, a := range node.Arguments {
			addExpr(a)
		}
	case *parser.IndexExpression:
		addExpr(node.Object)
		for _, i := range node.Indexes {
			addExpr(i)
		}
	case *parser.SetLiteral:
		for _, val := range node.Values {
			addExpr(val)
		}
	case *parser.RangeExpression:
		addExpr(node.Low)
		addExpr(node.High)
	}

	return out
}
