package tooling

import (
	"github.com/cal-lang/cal/compiler/lexer"
	"github.com/cal-lang/cal/compiler/parser"
	"github.com/cal-lang/cal/compiler/walker"
)

// FoldingRangeKind tags a folding range for the editor
type FoldingRangeKind string

const (
	FoldingRegion  FoldingRangeKind = "region"
	FoldingComment FoldingRangeKind = "comment"
)

// FoldingRange is a foldable line span. Lines are 0-based at this boundary;
// the range excludes the terminator line so END, UNTIL or the closing brace
// stays visible when folded.
type FoldingRange struct {
	StartLine int
	EndLine   int
	Kind      FoldingRangeKind // "" for plain code ranges
}

// FoldingRanges combines the AST-driven collector with a raw-text comment
// scan. The two sets cannot overlap: comments are not AST nodes.
func FoldingRanges(doc *parser.CALDocument, source string) []FoldingRange {
	ranges := collectASTRanges(doc)
	ranges = append(ranges, collectCommentRanges(source)...)
	return ranges
}

// collectASTRanges emits one range per hierarchical multi-line node.
// Sections are tagged Region; procedures, triggers and statements stay
// untagged. Single-line constructs are skipped.
func collectASTRanges(doc *parser.CALDocument) []FoldingRange {
	var ranges []FoldingRange
	if doc == nil {
		return ranges
	}

	add := func(n parser.Node, kind FoldingRangeKind) {
		start, end := n.Start(), n.End()
		if start == nil || end == nil {
			return
		}
		// Internal lines are 1-based; the emitted range is 0-based and
		// stops one line above the terminator
		startLine := start.Line - 1
		endLine := end.Line - 2
		if endLine <= startLine {
			return
		}
		ranges = append(ranges, FoldingRange{StartLine: startLine, EndLine: endLine, Kind: kind})
	}

	region := func(n parser.Node) { add(n, FoldingRegion) }
	plain := func(n parser.Node) { add(n, "") }

	walker.Walk(doc, &walker.Visitor{
		VisitObjectDeclaration: func(n *parser.ObjectDeclaration) bool { plain(n); return true },
		VisitPropertySection:   func(n *parser.PropertySection) bool { region(n); return true },
		VisitFieldSection:      func(n *parser.FieldSection) bool { region(n); return true },
		VisitKeySection:        func(n *parser.KeySection) bool { region(n); return true },
		VisitFieldGroupSection: func(n *parser.FieldGroupSection) bool { region(n); return true },
		VisitControlsSection:   func(n *parser.ControlsSection) bool { region(n); return true },
		VisitActionsSection:    func(n *parser.ActionsSection) bool { region(n); return true },
		VisitElementsSection:   func(n *parser.ElementsSection) bool { region(n); return true },
		VisitDatasetSection:    func(n *parser.DatasetSection) bool { region(n); return true },
		VisitCodeSection:       func(n *parser.CodeSection) bool { region(n); return true },

		VisitProcedure: func(n *parser.ProcedureDeclaration) bool { plain(n); return true },
		VisitTrigger:   func(n *parser.TriggerDeclaration) bool { plain(n); return true },
		VisitEvent:     func(n *parser.EventDeclaration) bool { plain(n); return true },

		VisitControlDeclaration: func(n *parser.ControlDeclaration) bool { plain(n); return true },
		VisitActionDeclaration:  func(n *parser.ActionDeclaration) bool { plain(n); return true },
		VisitXMLportElement:     func(n *parser.XMLportElement) bool { plain(n); return true },

		VisitBlockStatement:  func(n *parser.BlockStatement) bool { plain(n); return true },
		VisitIfStatement:     func(n *parser.IfStatement) bool { plain(n); return true },
		VisitCaseStatement:   func(n *parser.CaseStatement) bool { plain(n); return true },
		VisitForStatement:    func(n *parser.ForStatement) bool { plain(n); return true },
		VisitWhileStatement:  func(n *parser.WhileStatement) bool { plain(n); return true },
		VisitRepeatStatement: func(n *parser.RepeatStatement) bool { plain(n); return true },
		VisitWithStatement:   func(n *parser.WithStatement) bool { plain(n); return true },
	})

	return ranges
}

// collectCommentRanges runs a second pass over the raw source, not the
// token stream, and emits Comment ranges for `/* */` and code-context
// `{ }` comments spanning three or more lines. Strings and quoted
// identifiers are skipped honoring the doubled-delimiter escape, `//`
// comments mask `/*`, and a `{` only opens a comment inside BEGIN..END
// (or CASE..END) code, tracked by counting those keywords. A brace comment
// in a CODE section body outside any BEGIN..END is not folded.
func collectCommentRanges(source string) []FoldingRange {
	var ranges []FoldingRange
	runes := []rune(source)

	line := 1
	codeDepth := 0

	i := 0
	n := len(runes)

	newline := func(r rune) bool {
		switch r {
		case '\n':
			line++
			return true
		case '\r':
			if i < n && runes[i] == '\n' {
				i++
			}
			line++
			return true
		}
		return false
	}

	skipQuoted := func(quote rune) {
		for i < n {
			r := runes[i]
			i++
			if newline(r) {
				continue
			}
			if r == quote {
				if i < n && runes[i] == quote {
					i++
					continue
				}
				return
			}
		}
	}

	for i < n {
		r := runes[i]
		i++

		if newline(r) {
			continue
		}

		switch r {
		case '\'':
			skipQuoted('\'')
		case '"':
			skipQuoted('"')

		case '/':
			if i < n && runes[i] == '/' {
				for i < n && runes[i] != '\n' && runes[i] != '\r' {
					i++
				}
				continue
			}
			if i < n && runes[i] == '*' {
				i++
				startLine := line
				for i < n {
					c := runes[i]
					i++
					if newline(c) {
						continue
					}
					if c == '*' && i < n && runes[i] == '/' {
						i++
						break
					}
				}
				if line-startLine >= 2 {
					ranges = append(ranges, FoldingRange{StartLine: startLine - 1, EndLine: line - 1, Kind: FoldingComment})
				}
			}

		case '{':
			if codeDepth > 0 {
				startLine := line
				for i < n {
					c := runes[i]
					i++
					if newline(c) {
						continue
					}
					if c == '}' {
						break
					}
				}
				if line-startLine >= 2 {
					ranges = append(ranges, FoldingRange{StartLine: startLine - 1, EndLine: line - 1, Kind: FoldingComment})
				}
			}

		default:
			if isWordStart(r) {
				start := i - 1
				for i < n && isWordPart(runes[i]) {
					i++
				}
				word := string(runes[start:i])
				switch {
				case lexer.EqualFold(word, "BEGIN"), lexer.EqualFold(word, "CASE"):
					codeDepth++
				case lexer.EqualFold(word, "END"):
					if codeDepth > 0 {
						codeDepth--
					}
				}
			}
		}
	}

	return ranges
}

func isWordStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isWordPart(r rune) bool {
	return isWordStart(r) || (r >= '0' && r <= '9')
}
