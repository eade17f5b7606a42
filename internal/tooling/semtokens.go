package tooling

import (
	"github.com/cal-lang/cal/compiler/lexer"
	"github.com/cal-lang/cal/compiler/parser"
	"github.com/cal-lang/cal/compiler/walker"
)

// Semantic token types emitted by the builder. SemTokenSetValue is the
// distinct type for values inside set literals, enabling set-expression
// highlighting.
const (
	SemTokenKeyword   = "keyword"
	SemTokenVariable  = "variable"
	SemTokenParameter = "parameter"
	SemTokenFunction  = "function"
	SemTokenType      = "type"
	SemTokenProperty  = "property"
	SemTokenNumber    = "number"
	SemTokenString    = "string"
	SemTokenOperator  = "operator"
	SemTokenSetValue  = "enumMember"
)

// SemanticTokenTypes lists every type the builder can emit, in legend order
var SemanticTokenTypes = []string{
	SemTokenKeyword, SemTokenVariable, SemTokenParameter, SemTokenFunction,
	SemTokenType, SemTokenProperty, SemTokenNumber, SemTokenString,
	SemTokenOperator, SemTokenSetValue,
}

// SemanticTokenBuilder receives classified spans in source order. Line and
// char are 0-based at this boundary.
type SemanticTokenBuilder interface {
	Push(line, char, length int, tokenType string, tokenModifiers []string)
}

// SemanticTokens classifies each contributing token and pushes it through
// the builder in source order. Classification is a single traversal over
// tokens plus AST context; no state survives between documents.
func SemanticTokens(tokens []lexer.Token, doc *parser.CALDocument, builder SemanticTokenBuilder) {
	if builder == nil {
		return
	}

	setSpans := collectSetSpans(doc)
	classes := collectIdentifierClasses(doc)

	for i := range tokens {
		tok := &tokens[i]
		tokenType, ok := classifyToken(tok, i, tokens, setSpans, classes)
		if !ok {
			continue
		}
		builder.Push(tok.Line-1, tok.Column-1, tok.Length(), tokenType, nil)
	}
}

// span is a half-open offset interval
type span struct {
	start, end int
}

func (s span) contains(tok *lexer.Token) bool {
	return tok.Start >= s.start && tok.End <= s.end
}

// collectSetSpans records the offset spans of every set-literal member
func collectSetSpans(doc *parser.CALDocument) []span {
	var spans []span
	walker.Walk(doc, &walker.Visitor{
		VisitSetLiteral: func(n *parser.SetLiteral) bool {
			for _, v := range n.Values {
				start, end := v.Start(), v.End()
				if start != nil && end != nil {
					spans = append(spans, span{start: start.Start, end: end.End})
				}
			}
			return true
		},
	})
	return spans
}

// collectIdentifierClasses resolves declared names to their narrowed token
// types using the symbol table
func collectIdentifierClasses(doc *parser.CALDocument) map[string]string {
	classes := make(map[string]string)
	if doc == nil {
		return classes
	}

	table := BuildSymbols(doc)
	for _, sym := range table.GetAllSymbols() {
		key := lexer.FoldKey(sym.Name)
		if _, seen := classes[key]; seen {
			continue
		}
		switch sym.Kind {
		case SymbolProcedure, SymbolTrigger, SymbolEvent:
			classes[key] = SemTokenFunction
		case SymbolParameter:
			classes[key] = SemTokenParameter
		case SymbolVariable, SymbolField:
			classes[key] = SemTokenVariable
		case SymbolObject:
			classes[key] = SemTokenType
		}
	}
	return classes
}

func classifyToken(tok *lexer.Token, idx int, tokens []lexer.Token, setSpans []span, classes map[string]string) (string, bool) {
	// The distinct set-value type applies to value tokens only; the range
	// operator between them keeps its operator class and commas are not
	// classified
	inSet := false
	for _, s := range setSpans {
		if s.contains(tok) {
			inSet = true
			break
		}
	}

	switch tok.Type {
	case lexer.TOKEN_INTEGER, lexer.TOKEN_DECIMAL, lexer.TOKEN_DATE,
		lexer.TOKEN_TIME, lexer.TOKEN_DATETIME:
		if inSet {
			return SemTokenSetValue, true
		}
		return SemTokenNumber, true

	case lexer.TOKEN_STRING:
		if inSet {
			return SemTokenSetValue, true
		}
		return SemTokenString, true

	case lexer.TOKEN_ASSIGN, lexer.TOKEN_PLUS_ASSIGN, lexer.TOKEN_MINUS_ASSIGN,
		lexer.TOKEN_MULT_ASSIGN, lexer.TOKEN_DIV_ASSIGN, lexer.TOKEN_PLUS,
		lexer.TOKEN_MINUS, lexer.TOKEN_MULTIPLY, lexer.TOKEN_DIVIDE,
		lexer.TOKEN_EQUALS, lexer.TOKEN_NOT_EQUALS, lexer.TOKEN_LESS,
		lexer.TOKEN_GREATER, lexer.TOKEN_LESS_EQUAL, lexer.TOKEN_GREATER_EQUAL,
		lexer.TOKEN_RANGE, lexer.TOKEN_DOUBLECOLON:
		return SemTokenOperator, true

	case lexer.TOKEN_IDENTIFIER, lexer.TOKEN_QUOTED_IDENTIFIER:
		if inSet {
			return SemTokenSetValue, true
		}
		// A name followed by '=' is a property in section bodies
		if idx+1 < len(tokens) && tokens[idx+1].Type == lexer.TOKEN_EQUALS {
			return SemTokenProperty, true
		}
		if class, ok := classes[lexer.FoldKey(tok.Value)]; ok {
			return class, true
		}
		return SemTokenVariable, true
	}

	if tok.Type.IsKeyword() {
		return SemTokenKeyword, true
	}
	return "", false
}
