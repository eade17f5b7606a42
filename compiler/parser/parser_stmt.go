package parser

import "github.com/cal-lang/cal/compiler/lexer"

// parseBlock parses BEGIN ... END. A declaration- or section-layer boundary
// reached before END closes the block synthetically so the next construct
// survives.
func (p *Parser) parseBlock() *BlockStatement {
	block := &BlockStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // BEGIN

	for !p.isAtEnd() && !p.check(lexer.TOKEN_END) {
		if p.isDeclBoundary() || p.isSectionBoundary() {
			p.addErrorExpected(CategoryUnexpectedToken,
				"Expected END to close BEGIN block", p.peek(), lexer.TOKEN_END)
			block.EndToken = p.prevRef()
			return block
		}
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		before := p.current
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.current == before {
			p.syncStatement()
			if p.current == before {
				p.advance()
			}
		}
	}

	if p.check(lexer.TOKEN_END) {
		p.advance()
	}
	block.EndToken = p.prevRef()
	return block
}

// parseStatement dispatches on the leading token
func (p *Parser) parseStatement() Statement {
	switch p.peek().Type {
	case lexer.TOKEN_BEGIN:
		return p.parseBlock()
	case lexer.TOKEN_IF:
		return p.parseIf()
	case lexer.TOKEN_CASE:
		return p.parseCase()
	case lexer.TOKEN_FOR:
		return p.parseFor()
	case lexer.TOKEN_WHILE:
		return p.parseWhile()
	case lexer.TOKEN_REPEAT:
		return p.parseRepeat()
	case lexer.TOKEN_WITH:
		return p.parseWith()
	case lexer.TOKEN_EXIT:
		return p.parseExit()
	case lexer.TOKEN_ASSERTERROR:
		// The assertion wrapper is transparent to the tree
		p.advance()
		return p.parseStatement()
	}

	return p.parseSimpleStatement()
}

// parseSimpleStatement parses an assignment or expression statement
func (p *Parser) parseSimpleStatement() Statement {
	startRef := p.currentRef()
	expr := p.parseExpression()
	if expr == nil {
		p.addError(CategoryExpectedExpression, "Expected statement", p.peek())
		p.syncStatement()
		return nil
	}

	switch p.peek().Type {
	case lexer.TOKEN_ASSIGN, lexer.TOKEN_PLUS_ASSIGN, lexer.TOKEN_MINUS_ASSIGN,
		lexer.TOKEN_MULT_ASSIGN, lexer.TOKEN_DIV_ASSIGN:
		op := p.advance().Type
		value := p.parseExpression()
		if value == nil {
			p.addError(CategoryExpectedExpression, "Expected expression after assignment operator", p.peek())
			p.syncStatement()
		}
		return &AssignmentStatement{
			Span:     Span{StartToken: startRef, EndToken: p.prevRef()},
			Target:   expr,
			Operator: op,
			Value:    value,
		}
	}

	return &ExpressionStatement{
		Span:       Span{StartToken: startRef, EndToken: p.prevRef()},
		Expression: expr,
	}
}

// parseIf parses IF <cond> THEN <stmt> [ELSE <stmt>]
func (p *Parser) parseIf() Statement {
	stmt := &IfStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // IF

	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		p.addError(CategoryExpectedExpression, "Expected condition after IF", p.peek())
		p.syncStatement()
	}

	if _, ok := p.expect(lexer.TOKEN_THEN, "Expected THEN after IF condition"); ok {
		if !p.check(lexer.TOKEN_ELSE) && !p.isStatementBoundary() {
			stmt.Then = p.parseStatement()
		}
	}

	if p.match(lexer.TOKEN_ELSE) {
		stmt.Else = p.parseStatement()
	}

	stmt.EndToken = p.prevRef()
	return stmt
}

// parseFor parses FOR <var> := <from> (TO|DOWNTO) <to> DO <stmt>
func (p *Parser) parseFor() Statement {
	stmt := &ForStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // FOR

	stmt.Variable = p.parseExpression()
	if stmt.Variable == nil {
		p.addError(CategoryExpectedExpression, "Expected loop variable after FOR", p.peek())
		p.syncStatement()
		stmt.EndToken = p.prevRef()
		return stmt
	}

	if _, ok := p.expect(lexer.TOKEN_ASSIGN, "Expected ':=' in FOR statement"); ok {
		stmt.From = p.parseExpression()
	}

	if p.match(lexer.TOKEN_DOWNTO) {
		stmt.Downto = true
	} else if !p.match(lexer.TOKEN_TO) {
		p.addErrorExpected(CategoryUnexpectedToken,
			"Expected TO or DOWNTO in FOR statement", p.peek(), lexer.TOKEN_TO)
	}
	stmt.To = p.parseExpression()

	if _, ok := p.expect(lexer.TOKEN_DO, "Expected DO in FOR statement"); ok {
		stmt.Body = p.parseStatement()
	}

	stmt.EndToken = p.prevRef()
	return stmt
}

// parseWhile parses WHILE <expr> DO <stmt>
func (p *Parser) parseWhile() Statement {
	stmt := &WhileStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // WHILE

	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		p.addError(CategoryExpectedExpression, "Expected condition after WHILE", p.peek())
		p.syncStatement()
	}

	if _, ok := p.expect(lexer.TOKEN_DO, "Expected DO after WHILE condition"); ok {
		stmt.Body = p.parseStatement()
	}

	stmt.EndToken = p.prevRef()
	return stmt
}

// parseRepeat parses REPEAT <stmts> UNTIL <expr>
func (p *Parser) parseRepeat() Statement {
	stmt := &RepeatStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // REPEAT

	for !p.isAtEnd() && !p.check(lexer.TOKEN_UNTIL) {
		if p.isDeclBoundary() || p.isSectionBoundary() {
			break
		}
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		before := p.current
		if s := p.parseStatement(); s != nil {
			stmt.Statements = append(stmt.Statements, s)
		}
		if p.current == before {
			p.syncStatement()
			if p.current == before {
				p.advance()
			}
		}
	}

	if _, ok := p.expect(lexer.TOKEN_UNTIL, "Expected UNTIL to close REPEAT"); ok {
		stmt.Condition = p.parseExpression()
		if stmt.Condition == nil {
			p.addError(CategoryExpectedExpression, "Expected condition after UNTIL", p.peek())
			p.syncStatement()
		}
	}

	stmt.EndToken = p.prevRef()
	return stmt
}

// parseWith parses WITH <record> DO <stmt>
func (p *Parser) parseWith() Statement {
	stmt := &WithStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // WITH

	stmt.Record = p.parseExpression()
	if stmt.Record == nil {
		p.addError(CategoryExpectedExpression, "Expected record after WITH", p.peek())
		p.syncStatement()
	}

	if _, ok := p.expect(lexer.TOKEN_DO, "Expected DO after WITH record"); ok {
		stmt.Body = p.parseStatement()
	}

	stmt.EndToken = p.prevRef()
	return stmt
}

// parseExit parses EXIT or EXIT(<expr>)
func (p *Parser) parseExit() Statement {
	stmt := &ExitStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // EXIT

	if p.match(lexer.TOKEN_LPAREN) {
		stmt.Value = p.parseExpression()
		if stmt.Value == nil {
			p.addError(CategoryExpectedExpression, "Expected expression in EXIT", p.peek())
		}
		if !p.match(lexer.TOKEN_RPAREN) {
			p.addErrorExpected(CategoryUnexpectedToken,
				"Expected ')' to close EXIT", p.peek(), lexer.TOKEN_RPAREN)
		}
	}

	stmt.EndToken = p.prevRef()
	return stmt
}

// CASE parsing and recovery. Recovery is modeled as two interlocking state
// machines: boundary-layer membership decides how far a scan may travel,
// and the branch lookahead searches for `<identifier> ':'` at CASE-body
// depth while ignoring matched []/BEGIN..END; parentheses are not tracked
// (see findCaseBranchPattern).

// parseCase parses CASE <expr> OF <branches> [ELSE <stmts>] END
func (p *Parser) parseCase() Statement {
	stmt := &CaseStatement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // CASE

	stmt.Expression = p.parseExpression()
	if stmt.Expression == nil {
		p.addError(CategoryExpectedExpression, "Expected expression after CASE", p.peek())
	}
	p.expect(lexer.TOKEN_OF, "Expected OF after CASE expression")

	for !p.isAtEnd() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if p.check(lexer.TOKEN_END) {
			break
		}
		if p.isDeclBoundary() || p.isSectionBoundary() {
			p.addErrorExpected(CategoryExpectedCaseEnd,
				"Expected END to close CASE statement", p.peek(), lexer.TOKEN_END)
			stmt.EndToken = p.prevRef()
			return stmt
		}

		if p.match(lexer.TOKEN_ELSE) {
			stmt.ElseBranch = p.parseCaseElse()
			break
		}

		before := p.current
		if branch := p.parseCaseBranch(); branch != nil {
			stmt.Branches = append(stmt.Branches, branch)
		}
		if p.current == before {
			p.advance()
		}
	}

	if p.check(lexer.TOKEN_END) {
		p.advance()
	} else {
		p.addErrorExpected(CategoryExpectedCaseEnd,
			"Expected END to close CASE statement", p.peek(), lexer.TOKEN_END)
	}
	stmt.EndToken = p.prevRef()
	return stmt
}

// parseCaseElse parses the ELSE branch statement list. Recovery still
// expects END to close the CASE; reaching a declaration-layer boundary
// first closes the CASE synthetically.
func (p *Parser) parseCaseElse() []Statement {
	stmts := []Statement{}
	for !p.isAtEnd() && !p.check(lexer.TOKEN_END) {
		if p.isDeclBoundary() || p.isSectionBoundary() {
			return stmts
		}
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		before := p.current
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		if p.current == before {
			p.syncStatement()
			if p.current == before {
				p.advance()
			}
		}
	}
	return stmts
}

// parseCaseBranch parses `<value-list> : <statement-or-block>`. Body may
// be empty when the next branch pattern follows immediately.
func (p *Parser) parseCaseBranch() *CaseBranch {
	branch := &CaseBranch{Span: Span{StartToken: p.currentRef()}}
	branchStart := p.current

	for {
		value := p.parseCaseValue()
		if value == nil {
			// A malformed value, such as a call missing its ')'. Rescan
			// from the branch start for the next `<identifier> ':'` at
			// CASE depth; an identifier followed by ',' is still inside
			// an argument list and is not a recovery point.
			idx, ok := p.findCaseBranchPattern(branchStart)
			if !ok {
				p.skipToCaseBoundary()
				branch.EndToken = p.prevRef()
				if len(branch.Values) == 0 {
					return nil
				}
				return branch
			}
			p.current = idx
			value = p.parseCaseValue()
			if value == nil {
				p.skipToCaseBoundary()
				branch.EndToken = p.prevRef()
				if len(branch.Values) == 0 {
					return nil
				}
				return branch
			}
		}
		branch.Values = append(branch.Values, value)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	if !p.match(lexer.TOKEN_COLON) {
		p.addErrorExpected(CategoryUnexpectedToken,
			"Expected ':' after CASE branch value", p.peek(), lexer.TOKEN_COLON)
		p.skipToCaseBoundary()
		branch.EndToken = p.prevRef()
		return branch
	}

	// An immediately following branch pattern, END, ELSE or ';' leaves the
	// body empty; empty branches are accepted without error
	if !p.check(lexer.TOKEN_SEMICOLON) && !p.check(lexer.TOKEN_END) &&
		!p.check(lexer.TOKEN_ELSE) && !p.atCaseBranchPattern() && !p.isAtEnd() &&
		!p.isDeclBoundary() && !p.isSectionBoundary() {
		branch.Body = p.parseStatement()
	}

	branch.EndToken = p.prevRef()
	return branch
}

// parseCaseValue parses one branch value: an expression or `a..b` range
func (p *Parser) parseCaseValue() Expression {
	low := p.parseExpression()
	if low == nil {
		return nil
	}
	if p.check(lexer.TOKEN_RANGE) {
		rangeTok := p.advance()
		return p.finishRange(low, rangeTok)
	}
	return low
}

// atCaseBranchPattern reports whether the current position looks like the
// start of a new branch: an identifier or literal, optionally `@<seq>`,
// followed by ':'
func (p *Parser) atCaseBranchPattern() bool {
	t := p.peek().Type
	if t != lexer.TOKEN_IDENTIFIER && t != lexer.TOKEN_QUOTED_IDENTIFIER &&
		t != lexer.TOKEN_INTEGER && t != lexer.TOKEN_STRING && !t.IsKeyword() {
		return false
	}
	next := 1
	if p.peekAt(1).Type == lexer.TOKEN_AT && p.peekAt(2).Type == lexer.TOKEN_INTEGER {
		next = 3
	}
	return p.peekAt(next).Type == lexer.TOKEN_COLON
}

// findCaseBranchPattern scans forward from `from` for `<identifier> ':'` at
// CASE-body depth. Matched brackets and BEGIN..END pairs are skipped; END,
// UNTIL, ELSE or a declaration-layer token at depth zero stops the scan.
// Parentheses are deliberately not tracked: the scan exists to recover from
// an unmatched '(' and a ':' never occurs inside a well-formed argument
// list, so an identifier followed by ',' keeps the scan inside the list
// while identifier-then-colon is the recovery point.
func (p *Parser) findCaseBranchPattern(from int) (int, bool) {
	brackets, blocks := 0, 0

	for i := from; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Type {
		case lexer.TOKEN_EOF:
			return 0, false
		case lexer.TOKEN_LBRACKET:
			brackets++
			continue
		case lexer.TOKEN_RBRACKET:
			if brackets > 0 {
				brackets--
			}
			continue
		case lexer.TOKEN_BEGIN:
			blocks++
			continue
		case lexer.TOKEN_END:
			if blocks > 0 {
				blocks--
				continue
			}
			return 0, false
		case lexer.TOKEN_UNTIL, lexer.TOKEN_ELSE,
			lexer.TOKEN_PROCEDURE, lexer.TOKEN_FUNCTION, lexer.TOKEN_TRIGGER,
			lexer.TOKEN_EVENT, lexer.TOKEN_VAR, lexer.TOKEN_RBRACE:
			if blocks == 0 && brackets == 0 {
				return 0, false
			}
			continue
		}

		if brackets != 0 || blocks != 0 {
			continue
		}

		switch tok.Type {
		case lexer.TOKEN_IDENTIFIER, lexer.TOKEN_QUOTED_IDENTIFIER,
			lexer.TOKEN_INTEGER, lexer.TOKEN_STRING:
			next := i + 1
			if next+1 < len(p.tokens) && p.tokens[next].Type == lexer.TOKEN_AT &&
				p.tokens[next+1].Type == lexer.TOKEN_INTEGER {
				next += 2
			}
			if next < len(p.tokens) && p.tokens[next].Type == lexer.TOKEN_COLON {
				return i, true
			}
		}
	}
	return 0, false
}

// skipToCaseBoundary advances to the next branch pattern, the CASE's END,
// ELSE, or a declaration-layer boundary, refusing to cross any of them
func (p *Parser) skipToCaseBoundary() {
	brackets, blocks := 0, 0
	for !p.isAtEnd() {
		if brackets == 0 && blocks == 0 {
			if p.check(lexer.TOKEN_END) || p.check(lexer.TOKEN_ELSE) ||
				p.check(lexer.TOKEN_UNTIL) || p.isDeclBoundary() ||
				p.check(lexer.TOKEN_RBRACE) || p.atCaseBranchPattern() {
				return
			}
		}
		switch p.peek().Type {
		case lexer.TOKEN_LBRACKET:
			brackets++
		case lexer.TOKEN_RBRACKET:
			if brackets > 0 {
				brackets--
			}
		case lexer.TOKEN_BEGIN:
			blocks++
		case lexer.TOKEN_END:
			if blocks > 0 {
				blocks--
			}
		}
		p.advance()
	}
}
