package parser

import "github.com/cal-lang/cal/compiler/lexer"

// Operator precedence levels (higher number = higher precedence)
const (
	PREC_NONE       = iota
	PREC_OR         // OR XOR
	PREC_AND        // AND
	PREC_COMPARISON // = <> < <= > >= IN
	PREC_TERM       // + -
	PREC_FACTOR     // * / DIV MOD
	PREC_UNARY      // + - NOT
	PREC_CALL       // () [] . ::
	PREC_PRIMARY
)

func precedenceOf(t lexer.TokenType) int {
	switch t {
	case lexer.TOKEN_OR, lexer.TOKEN_XOR:
		return PREC_OR
	case lexer.TOKEN_AND:
		return PREC_AND
	case lexer.TOKEN_EQUALS, lexer.TOKEN_NOT_EQUALS, lexer.TOKEN_LESS,
		lexer.TOKEN_LESS_EQUAL, lexer.TOKEN_GREATER, lexer.TOKEN_GREATER_EQUAL,
		lexer.TOKEN_IN:
		return PREC_COMPARISON
	case lexer.TOKEN_PLUS, lexer.TOKEN_MINUS:
		return PREC_TERM
	case lexer.TOKEN_MULTIPLY, lexer.TOKEN_DIVIDE, lexer.TOKEN_DIV, lexer.TOKEN_MOD:
		return PREC_FACTOR
	case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET, lexer.TOKEN_DOT, lexer.TOKEN_DOUBLECOLON:
		return PREC_CALL
	}
	return PREC_NONE
}

// parseExpression parses an expression with the minimum precedence
func (p *Parser) parseExpression() Expression {
	return p.parseExpressionWithPrecedence(PREC_OR)
}

// parseExpressionWithPrecedence implements precedence climbing
func (p *Parser) parseExpressionWithPrecedence(minPrec int) Expression {
	left := p.parsePrefixExpression()
	if left == nil {
		return nil
	}

	for {
		prec := precedenceOf(p.peek().Type)
		if prec < minPrec {
			return left
		}

		before := p.current
		left = p.parseInfixExpression(left, prec)
		if left == nil {
			return nil
		}
		if p.current == before {
			return left
		}
	}
}

// parsePrefixExpression parses unary and primary expressions
func (p *Parser) parsePrefixExpression() Expression {
	switch p.peek().Type {
	case lexer.TOKEN_PLUS, lexer.TOKEN_MINUS, lexer.TOKEN_NOT:
		startRef := p.currentRef()
		opTok := p.advance()
		operand := p.parseExpressionWithPrecedence(PREC_UNARY)
		if operand == nil {
			p.addError(CategoryExpectedExpression, "Expected expression after unary operator", p.peek())
			return nil
		}
		return &UnaryExpression{
			Span:     Span{StartToken: startRef, EndToken: p.prevRef()},
			Operator: opTok.Value,
			Operand:  operand,
		}
	}
	return p.parsePrimaryExpression()
}

// parsePrimaryExpression parses literals, identifiers, parenthesized
// expressions and set literals
func (p *Parser) parsePrimaryExpression() Expression {
	tok := p.peek()

	switch tok.Type {
	case lexer.TOKEN_INTEGER:
		return p.literal(LiteralInteger)
	case lexer.TOKEN_DECIMAL:
		return p.literal(LiteralDecimal)
	case lexer.TOKEN_STRING:
		return p.literal(LiteralString)
	case lexer.TOKEN_DATE:
		return p.literal(LiteralDate)
	case lexer.TOKEN_TIME:
		return p.literal(LiteralTime)
	case lexer.TOKEN_DATETIME:
		return p.literal(LiteralDateTime)
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		return p.literal(LiteralBoolean)

	case lexer.TOKEN_IDENTIFIER, lexer.TOKEN_QUOTED_IDENTIFIER:
		return p.identifier()

	case lexer.TOKEN_LPAREN:
		p.advance()
		expr := p.parseExpression()
		if expr == nil {
			p.addError(CategoryExpectedExpression, "Expected expression after '('", p.peek())
			return nil
		}
		if !p.match(lexer.TOKEN_RPAREN) {
			p.addErrorExpected(CategoryUnexpectedToken,
				"Expected ')' to close expression", p.peek(), lexer.TOKEN_RPAREN)
		}
		return expr

	case lexer.TOKEN_LBRACKET:
		return p.parseSetLiteral()
	}

	// Data-type keywords double as identifiers in expression position,
	// as in DATABASE::Customer or Format(Option)
	if tok.Type.IsKeyword() && !isExpressionTerminator(tok.Type) {
		return p.identifier()
	}

	p.addError(CategoryExpectedExpression, "Expected expression", tok)
	return nil
}

// isExpressionTerminator lists keywords that can never begin an expression
func isExpressionTerminator(t lexer.TokenType) bool {
	switch t {
	case lexer.TOKEN_END, lexer.TOKEN_THEN, lexer.TOKEN_ELSE, lexer.TOKEN_DO,
		lexer.TOKEN_OF, lexer.TOKEN_TO, lexer.TOKEN_DOWNTO, lexer.TOKEN_UNTIL,
		lexer.TOKEN_BEGIN, lexer.TOKEN_CASE, lexer.TOKEN_IF, lexer.TOKEN_FOR,
		lexer.TOKEN_WHILE, lexer.TOKEN_REPEAT, lexer.TOKEN_WITH, lexer.TOKEN_EXIT,
		lexer.TOKEN_VAR, lexer.TOKEN_PROCEDURE, lexer.TOKEN_FUNCTION,
		lexer.TOKEN_TRIGGER, lexer.TOKEN_EVENT, lexer.TOKEN_LOCAL:
		return true
	}
	return t.IsSectionKeyword()
}

func (p *Parser) literal(kind LiteralKind) Expression {
	ref := p.currentRef()
	tok := p.advance()
	return &Literal{
		Span:  Span{StartToken: ref, EndToken: ref},
		Kind:  kind,
		Value: tok.Value,
	}
}

func (p *Parser) identifier() *Identifier {
	ref := p.currentRef()
	tok := p.advance()
	return &Identifier{
		Span:     Span{StartToken: ref, EndToken: ref},
		Name:     tok.Value,
		IsQuoted: tok.Type == lexer.TOKEN_QUOTED_IDENTIFIER,
	}
}

// parseInfixExpression parses binary operators and the postfix forms:
// calls, indexing and member access
func (p *Parser) parseInfixExpression(left Expression, prec int) Expression {
	switch p.peek().Type {
	case lexer.TOKEN_LPAREN:
		p.advance()
		return p.parseCallExpression(left)

	case lexer.TOKEN_LBRACKET:
		p.advance()
		return p.parseIndexExpression(left)

	case lexer.TOKEN_DOT:
		p.advance()
		return p.parseMemberExpression(left, false)

	case lexer.TOKEN_DOUBLECOLON:
		p.advance()
		return p.parseMemberExpression(left, true)
	}

	opTok := p.advance()
	right := p.parseExpressionWithPrecedence(prec + 1)
	if right == nil {
		p.addError(CategoryExpectedExpression, "Expected expression after operator", p.peek())
		return nil
	}
	return &BinaryExpression{
		Span:     Span{StartToken: left.Start(), EndToken: p.prevRef()},
		Left:     left,
		Operator: opTok.Value,
		Right:    right,
	}
}

// parseCallExpression parses the argument list after '('
func (p *Parser) parseCallExpression(callee Expression) Expression {
	call := &CallExpression{Span: Span{StartToken: callee.Start()}, Callee: callee}

	for !p.isAtEnd() && !p.check(lexer.TOKEN_RPAREN) {
		// Empty argument slots are legal, as in STRSUBSTNO(Text, , 2)
		if p.check(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)
		if !p.check(lexer.TOKEN_COMMA) {
			break
		}
	}

	if !p.match(lexer.TOKEN_RPAREN) {
		p.addErrorExpected(CategoryUnexpectedToken,
			"Expected ')' to close argument list", p.peek(), lexer.TOKEN_RPAREN)
		return nil
	}
	call.EndToken = p.prevRef()
	return call
}

// parseIndexExpression parses the index list after '['
func (p *Parser) parseIndexExpression(object Expression) Expression {
	idx := &IndexExpression{Span: Span{StartToken: object.Start()}, Object: object}

	for !p.isAtEnd() && !p.check(lexer.TOKEN_RBRACKET) {
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		idx.Indexes = append(idx.Indexes, expr)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	if !p.match(lexer.TOKEN_RBRACKET) {
		p.addErrorExpected(CategoryUnexpectedToken,
			"Expected ']' to close index expression", p.peek(), lexer.TOKEN_RBRACKET)
		return nil
	}
	idx.EndToken = p.prevRef()
	return idx
}

// parseMemberExpression parses `.member` and `::member` access
func (p *Parser) parseMemberExpression(object Expression, isScope bool) Expression {
	expr := &MemberExpression{Span: Span{StartToken: object.Start()}, Object: object, IsScope: isScope}

	if p.canBeName() || p.check(lexer.TOKEN_INTEGER) {
		ref := p.currentRef()
		tok := p.advance()
		expr.Member = &Identifier{
			Span:     Span{StartToken: ref, EndToken: ref},
			Name:     tok.Value,
			IsQuoted: tok.Type == lexer.TOKEN_QUOTED_IDENTIFIER,
		}
	} else {
		p.addError(CategoryExpectedIdentifier, "Expected member name", p.peek())
	}

	expr.EndToken = p.prevRef()
	return expr
}

// parseSetLiteral parses `[ value | range, ... ]`. Members may be ranges;
// an empty set is legal.
func (p *Parser) parseSetLiteral() Expression {
	set := &SetLiteral{Span: Span{StartToken: p.currentRef()}}
	p.advance() // [

	for !p.isAtEnd() && !p.check(lexer.TOKEN_RBRACKET) {
		if p.match(lexer.TOKEN_COMMA) {
			continue
		}
		expr := p.parseExpressionWithPrecedence(PREC_OR)
		if expr == nil {
			// Skip what cannot be parsed and resume at the next member
			for !p.isAtEnd() && !p.check(lexer.TOKEN_COMMA) && !p.check(lexer.TOKEN_RBRACKET) {
				if p.isDeclBoundary() || p.check(lexer.TOKEN_SEMICOLON) {
					set.EndToken = p.prevRef()
					return set
				}
				p.advance()
			}
			continue
		}
		if p.check(lexer.TOKEN_RANGE) {
			rangeTok := p.advance()
			expr = p.finishRange(expr, rangeTok)
		}
		set.Values = append(set.Values, expr)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	if !p.match(lexer.TOKEN_RBRACKET) {
		p.addErrorExpected(CategoryUnexpectedToken,
			"Expected ']' to close set literal", p.peek(), lexer.TOKEN_RBRACKET)
	}
	set.EndToken = p.prevRef()
	return set
}

// finishRange completes `a..b` after the '..' was consumed. When the next
// token cannot start an expression the error token points at the offending
// delimiter and the high bound stays nil.
func (p *Parser) finishRange(low Expression, rangeTok lexer.Token) Expression {
	r := &RangeExpression{Span: Span{StartToken: low.Start()}, Low: low}

	if !p.canStartExpression() {
		p.addError(CategoryExpectedRange, "Expected expression after '..' in range", p.peek())
		r.EndToken = p.prevRef()
		return r
	}

	r.High = p.parseExpressionWithPrecedence(PREC_TERM)
	if r.High == nil {
		p.addError(CategoryExpectedRange, "Expected expression after '..' in range", p.peek())
	}
	r.EndToken = p.prevRef()
	return r
}

// canStartExpression reports whether the current token can begin an
// expression; `)`, `,`, `:`, END, `;` and `]` cannot
func (p *Parser) canStartExpression() bool {
	switch p.peek().Type {
	case lexer.TOKEN_RPAREN, lexer.TOKEN_COMMA, lexer.TOKEN_COLON,
		lexer.TOKEN_END, lexer.TOKEN_SEMICOLON, lexer.TOKEN_RBRACKET,
		lexer.TOKEN_RBRACE, lexer.TOKEN_EOF:
		return false
	}
	return !isExpressionTerminator(p.peek().Type)
}
