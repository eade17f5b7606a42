package parser

import (
	"strings"

	"github.com/cal-lang/cal/compiler/lexer"
)

// parseCodeSection parses the CODE section body: VAR blocks, procedures,
// triggers, events and the terminal documentation trigger `BEGIN END.`
func (p *Parser) parseCodeSection(kwRef *lexer.Token) *CodeSection {
	sec := &CodeSection{Span: Span{StartToken: kwRef}}

	for !p.sectionBodyDone() {
		switch {
		case p.check(lexer.TOKEN_VAR):
			p.advance()
			sec.Variables = append(sec.Variables, p.parseVariableBlock()...)

		case p.check(lexer.TOKEN_PROCEDURE), p.check(lexer.TOKEN_FUNCTION),
			p.check(lexer.TOKEN_LOCAL):
			if proc := p.parseProcedure(); proc != nil {
				sec.Procedures = append(sec.Procedures, proc)
			}

		case p.check(lexer.TOKEN_TRIGGER):
			if trig := p.parseTriggerDeclaration(); trig != nil {
				sec.Triggers = append(sec.Triggers, trig)
			}

		case p.check(lexer.TOKEN_EVENT):
			if ev := p.parseEventDeclaration(); ev != nil {
				sec.Events = append(sec.Events, ev)
			}

		case p.check(lexer.TOKEN_BEGIN):
			// Object documentation trigger; the trailing period is required
			sec.Documentation = p.parseBlock()
			if !p.match(lexer.TOKEN_DOT) {
				p.addErrorExpected(CategoryUnexpectedToken,
					"Expected '.' after object documentation trigger", p.peek(), lexer.TOKEN_DOT)
			}

		default:
			p.addError(CategoryUnexpectedToken, "Unexpected token in CODE section", p.peek())
			before := p.current
			p.syncDeclaration()
			if p.current == before {
				p.advance()
			}
		}
	}

	sec.EndToken = p.closeSection()
	return sec
}

// syncDeclaration advances to the next declaration- or section-layer boundary
func (p *Parser) syncDeclaration() {
	for !p.isAtEnd() {
		if p.isDeclBoundary() || p.isSectionBoundary() || p.check(lexer.TOKEN_BEGIN) {
			return
		}
		p.advance()
	}
}

// parseVariableBlock parses declarations under a VAR header until the next
// declaration boundary or body
func (p *Parser) parseVariableBlock() []*VariableDeclaration {
	var vars []*VariableDeclaration
	for !p.isAtEnd() {
		if p.isDeclBoundary() || p.isSectionBoundary() || p.check(lexer.TOKEN_BEGIN) {
			return vars
		}
		if !p.canBeName() {
			return vars
		}
		before := p.current
		if v := p.parseVariableDeclaration(); v != nil {
			vars = append(vars, v)
		}
		if p.current == before {
			p.advance()
		}
	}
	return vars
}

// parseVariableDeclaration parses `<name>[@<seq>] : [TEMPORARY] <type>
// [modifier...]`. Modifier order is accepted liberally and duplicates set
// the flag once; SECURITYFILTERING requires a parenthesized value.
func (p *Parser) parseVariableDeclaration() *VariableDeclaration {
	v := &VariableDeclaration{Span: Span{StartToken: p.currentRef()}}

	nameTok := p.advance()
	v.Name = nameTok.Value
	v.NameIsQuoted = nameTok.Type == lexer.TOKEN_QUOTED_IDENTIFIER

	if p.match(lexer.TOKEN_AT) {
		if p.check(lexer.TOKEN_INTEGER) {
			v.SequenceNo = p.advance().Value
		}
	}

	if _, ok := p.expect(lexer.TOKEN_COLON, "Expected ':' in variable declaration"); !ok {
		p.syncStatement()
		v.EndToken = p.prevRef()
		return v
	}

	p.parseVariableType(&v.TypeName, &v.Subtype, &v.IsTemporary, &v.RunOnClient,
		&v.WithEvents, &v.IsInDataSet, &v.SecurityFiltering)

	p.match(lexer.TOKEN_SEMICOLON)
	v.EndToken = p.prevRef()
	return v
}

// parseVariableType consumes the type name, subtype and modifiers shared by
// variable and parameter declarations
func (p *Parser) parseVariableType(typeName, subtype *string, isTemporary, runOnClient, withEvents, isInDataSet *bool, securityFiltering *string) {
	if p.match(lexer.TOKEN_TEMPORARY) {
		*isTemporary = true
	}

	if p.canBeName() {
		*typeName = p.advance().Value
	} else {
		p.addError(CategoryExpectedIdentifier, "Expected type in declaration", p.peek())
	}

	var subtypeParts []string
	for !p.isAtEnd() {
		switch p.peek().Type {
		case lexer.TOKEN_SEMICOLON, lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACE,
			lexer.TOKEN_BEGIN, lexer.TOKEN_PROCEDURE, lexer.TOKEN_FUNCTION,
			lexer.TOKEN_TRIGGER, lexer.TOKEN_EVENT, lexer.TOKEN_VAR,
			lexer.TOKEN_LOCAL:
			if len(subtypeParts) > 0 {
				*subtype = strings.Join(subtypeParts, " ")
			}
			return

		case lexer.TOKEN_TEMPORARY:
			p.advance()
			*isTemporary = true
		case lexer.TOKEN_RUNONCLIENT:
			p.advance()
			*runOnClient = true
		case lexer.TOKEN_WITHEVENTS:
			p.advance()
			*withEvents = true
		case lexer.TOKEN_INDATASET:
			p.advance()
			*isInDataSet = true

		case lexer.TOKEN_SECURITYFILTERING:
			p.advance()
			if !p.match(lexer.TOKEN_LPAREN) {
				p.addErrorExpected(CategoryUnexpectedToken,
					"Expected '(' after SECURITYFILTERING", p.peek(), lexer.TOKEN_LPAREN)
				continue
			}
			if p.canBeName() {
				*securityFiltering = p.advance().Value
			}
			p.match(lexer.TOKEN_RPAREN)

		default:
			subtypeParts = append(subtypeParts, p.advance().Value)
		}
	}
	if len(subtypeParts) > 0 {
		*subtype = strings.Join(subtypeParts, " ")
	}
}

// parseProcedure parses PROCEDURE and FUNCTION declarations, including the
// optional LOCAL prefix, parameter list, return type, VAR block and body
func (p *Parser) parseProcedure() *ProcedureDeclaration {
	proc := &ProcedureDeclaration{Span: Span{StartToken: p.currentRef()}}
	proc.IsLocal = p.match(lexer.TOKEN_LOCAL)
	p.advance() // PROCEDURE | FUNCTION

	if !p.canBeName() {
		p.addError(CategoryExpectedIdentifier, "Expected procedure name", p.peek())
		p.syncDeclaration()
		proc.EndToken = p.prevRef()
		return proc
	}
	proc.Name = p.advance().Value

	if p.match(lexer.TOKEN_AT) {
		if p.check(lexer.TOKEN_INTEGER) {
			proc.SequenceNo = p.advance().Value
		}
	}

	if p.match(lexer.TOKEN_LPAREN) {
		proc.Parameters = p.parseParameterList()
	}

	// Optional return value: [name] : type
	if p.canBeName() && p.peekAt(1).Type == lexer.TOKEN_COLON {
		proc.ReturnName = p.advance().Value
	}
	if p.match(lexer.TOKEN_COLON) {
		if p.canBeName() {
			proc.ReturnType = p.advance().Value
			// Length suffix such as Text[30]
			if p.check(lexer.TOKEN_LBRACKET) {
				for !p.isAtEnd() && !p.match(lexer.TOKEN_RBRACKET) {
					if p.check(lexer.TOKEN_SEMICOLON) || p.check(lexer.TOKEN_BEGIN) {
						break
					}
					p.advance()
				}
			}
		} else {
			p.addError(CategoryExpectedIdentifier, "Expected return type", p.peek())
		}
	}

	p.match(lexer.TOKEN_SEMICOLON)

	if p.check(lexer.TOKEN_VAR) {
		p.advance()
		proc.Variables = p.parseVariableBlock()
	}

	if p.check(lexer.TOKEN_BEGIN) {
		proc.Body = p.parseBlock()
		p.match(lexer.TOKEN_SEMICOLON)
	}

	proc.EndToken = p.prevRef()
	return proc
}

// parseParameterList parses `[VAR] name[@seq] : type [; ...]` up to `)`
func (p *Parser) parseParameterList() []*ParameterDeclaration {
	var params []*ParameterDeclaration

	for !p.isAtEnd() && !p.check(lexer.TOKEN_RPAREN) {
		if p.isDeclBoundary() && !p.check(lexer.TOKEN_VAR) {
			break
		}
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}

		param := &ParameterDeclaration{Span: Span{StartToken: p.currentRef()}}
		param.IsVar = p.match(lexer.TOKEN_VAR)

		if !p.canBeName() {
			p.addError(CategoryExpectedIdentifier, "Expected parameter name", p.peek())
			for !p.isAtEnd() && !p.check(lexer.TOKEN_SEMICOLON) && !p.check(lexer.TOKEN_RPAREN) {
				p.advance()
			}
			continue
		}

		nameTok := p.advance()
		param.Name = nameTok.Value
		param.NameIsQuoted = nameTok.Type == lexer.TOKEN_QUOTED_IDENTIFIER

		if p.match(lexer.TOKEN_AT) {
			if p.check(lexer.TOKEN_INTEGER) {
				param.SequenceNo = p.advance().Value
			}
		}

		if p.match(lexer.TOKEN_COLON) {
			p.parseVariableType(&param.TypeName, &param.Subtype, &param.IsTemporary,
				&param.RunOnClient, &param.WithEvents, &param.IsInDataSet, &param.SecurityFiltering)
		} else {
			p.addErrorExpected(CategoryUnexpectedToken,
				"Expected ':' in parameter declaration", p.peek(), lexer.TOKEN_COLON)
		}

		param.EndToken = p.prevRef()
		params = append(params, param)
	}

	if !p.match(lexer.TOKEN_RPAREN) {
		p.addErrorExpected(CategoryUnexpectedToken,
			"Expected ')' to close parameter list", p.peek(), lexer.TOKEN_RPAREN)
	}
	return params
}

// parseTriggerDeclaration parses `TRIGGER <name>() ; [VAR ...] BEGIN ... END ;`
func (p *Parser) parseTriggerDeclaration() *TriggerDeclaration {
	trig := &TriggerDeclaration{Span: Span{StartToken: p.currentRef()}}
	p.advance() // TRIGGER

	if !p.canBeName() {
		p.addError(CategoryExpectedIdentifier, "Expected trigger name", p.peek())
		p.syncDeclaration()
		trig.EndToken = p.prevRef()
		return trig
	}
	trig.Name = p.advance().Value

	if p.match(lexer.TOKEN_LPAREN) {
		for !p.isAtEnd() && !p.match(lexer.TOKEN_RPAREN) {
			if p.isDeclBoundary() || p.check(lexer.TOKEN_BEGIN) {
				break
			}
			p.advance()
		}
	}
	p.match(lexer.TOKEN_SEMICOLON)

	if p.check(lexer.TOKEN_VAR) {
		p.advance()
		trig.Variables = p.parseVariableBlock()
	}
	if p.check(lexer.TOKEN_BEGIN) {
		trig.Body = p.parseBlock()
		p.match(lexer.TOKEN_SEMICOLON)
	}

	trig.EndToken = p.prevRef()
	return trig
}

// parseEventDeclaration parses `EVENT [publisher@seq::]<name>[@seq](params);`
// with an optional VAR block and body for subscribers
func (p *Parser) parseEventDeclaration() *EventDeclaration {
	ev := &EventDeclaration{Span: Span{StartToken: p.currentRef()}}
	p.advance() // EVENT

	if !p.canBeName() {
		p.addError(CategoryExpectedIdentifier, "Expected event name", p.peek())
		p.syncDeclaration()
		ev.EndToken = p.prevRef()
		return ev
	}
	first := p.advance().Value
	if p.match(lexer.TOKEN_AT) {
		if p.check(lexer.TOKEN_INTEGER) {
			p.advance()
		}
	}

	if p.match(lexer.TOKEN_DOUBLECOLON) {
		ev.Publisher = first
		if p.canBeName() {
			ev.Name = p.advance().Value
		} else {
			p.addError(CategoryExpectedIdentifier, "Expected event name after '::'", p.peek())
		}
		if p.match(lexer.TOKEN_AT) {
			if p.check(lexer.TOKEN_INTEGER) {
				p.advance()
			}
		}
	} else {
		ev.Name = first
	}

	if p.match(lexer.TOKEN_LPAREN) {
		ev.Parameters = p.parseParameterList()
	}
	p.match(lexer.TOKEN_SEMICOLON)

	if p.check(lexer.TOKEN_VAR) {
		p.advance()
		ev.Variables = p.parseVariableBlock()
	}
	if p.check(lexer.TOKEN_BEGIN) {
		ev.Body = p.parseBlock()
		p.match(lexer.TOKEN_SEMICOLON)
	}

	ev.EndToken = p.prevRef()
	return ev
}
