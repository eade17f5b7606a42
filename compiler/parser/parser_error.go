package parser

import (
	"fmt"

	"github.com/cal-lang/cal/compiler/errors"
	"github.com/cal-lang/cal/compiler/lexer"
)

// Category classifies a parse error with its boundary diagnostic code
type Category string

const (
	CategoryUnexpectedToken    Category = errors.CodeUnexpectedToken
	CategoryExpectedRange      Category = errors.CodeExpectedRangeExpression
	CategoryExpectedCaseEnd    Category = errors.CodeExpectedCaseEnd
	CategoryMissingBrace       Category = errors.CodeMissingOpeningBrace
	CategoryUnbalancedBraces   Category = errors.CodeUnbalancedBraces
	CategoryExpectedExpression Category = errors.CodeExpectedExpression
	CategoryExpectedIdentifier Category = errors.CodeExpectedIdentifier
)

// ParseError is one recovered parse failure. Message is sanitized before
// construction completes: raw token values never enter it. Token is kept
// for position and length arithmetic only; consumers producing outward
// diagnostics must extract numeric metadata, never Token.Value.
type ParseError struct {
	Category Category
	Message  string
	Token    lexer.Token
	Expected string // token-type name, "" when not applicable
	Actual   string // token-type name, "" when not applicable
}

// Error implements the error interface
func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Line, e.Token.Column, e.Message)
}

// Diagnostic converts the error to its boundary shape. Only numeric
// position metadata crosses over from the token.
func (e ParseError) Diagnostic() errors.Diagnostic {
	return errors.NewDiagnostic(
		e.Token.Line, e.Token.Column, e.Token.Length(),
		errors.SeverityError, string(e.Category), e.Message)
}

// newParseError is the single ParseError construction site. Everything the
// parser reports flows through here so the sanitization invariant has one
// enforcement point; the guard test fails the build when another composite
// literal appears in the package.
func newParseError(category Category, message string, tok lexer.Token, expected, actual string) ParseError {
	return ParseError{
		Category: category,
		Message:  errors.SanitizeMessage(message),
		Token:    tok,
		Expected: expected,
		Actual:   actual,
	}
}

// addError records an error at the given token
func (p *Parser) addError(category Category, message string, tok lexer.Token) {
	p.errors = append(p.errors, newParseError(category, message, tok, "", ""))
}

// addErrorExpected records an error carrying expected/actual token-type names
func (p *Parser) addErrorExpected(category Category, message string, tok lexer.Token, expected lexer.TokenType) {
	p.errors = append(p.errors, newParseError(category, message, tok, expected.String(), tok.Type.String()))
}
