package parser

import (
	"strconv"
	"strings"

	"github.com/cal-lang/cal/compiler/lexer"
)

// parseDocument parses zero or more object declarations
func (p *Parser) parseDocument() *CALDocument {
	doc := &CALDocument{Span: Span{StartToken: p.currentRef()}}

	for !p.isAtEnd() {
		if p.check(lexer.TOKEN_OBJECT) {
			if obj := p.parseObject(); obj != nil {
				doc.Objects = append(doc.Objects, obj)
			}
			continue
		}
		p.addError(CategoryUnexpectedToken, "Expected OBJECT declaration", p.peek())
		for !p.isAtEnd() && !p.check(lexer.TOKEN_OBJECT) {
			p.advance()
		}
	}

	doc.EndToken = p.prevRef()
	return doc
}

// parseObject parses `OBJECT <kind> <id> <name> { <sections> }`. An
// unrecognized kind word is consumed and ObjectKind stays empty; the
// sections are still parsed.
func (p *Parser) parseObject() *ObjectDeclaration {
	obj := &ObjectDeclaration{Span: Span{StartToken: p.currentRef()}}
	p.advance() // OBJECT

	kindTok := p.peek()
	if kindTok.Type.IsObjectKind() {
		p.advance()
		obj.ObjectKind = lexer.FoldKey(kindTok.Value)
	} else if kindTok.Type == lexer.TOKEN_IDENTIFIER {
		p.advance()
	}

	if p.check(lexer.TOKEN_INTEGER) {
		obj.ObjectID = p.advance().Value
	}

	// The object name runs to the opening brace; unquoted names may span
	// several words and carry abbreviation dots
	var name strings.Builder
	for !p.isAtEnd() && !p.check(lexer.TOKEN_LBRACE) && !p.check(lexer.TOKEN_OBJECT) {
		tok := p.advance()
		if name.Len() > 0 && tok.Type != lexer.TOKEN_DOT {
			name.WriteByte(' ')
		}
		name.WriteString(tok.Value)
	}
	obj.ObjectName = name.String()

	if _, ok := p.expect(lexer.TOKEN_LBRACE, "Expected '{' to open object body"); !ok {
		obj.EndToken = p.prevRef()
		return obj
	}

	p.parseSections(obj)

	if p.check(lexer.TOKEN_RBRACE) {
		p.advance()
	} else {
		p.addErrorExpected(CategoryUnbalancedBraces, "Expected '}' to close object body", p.peek(), lexer.TOKEN_RBRACE)
	}
	obj.EndToken = p.prevRef()
	return obj
}

// parseSections dispatches on section keywords until the object closes
func (p *Parser) parseSections(obj *ObjectDeclaration) {
	for !p.isAtEnd() && !p.check(lexer.TOKEN_RBRACE) {
		tok := p.peek()
		if tok.Type.IsSectionKeyword() {
			p.parseSection(obj, tok.Type)
			continue
		}

		p.addError(CategoryUnexpectedToken, "Expected section keyword in object body", tok)
		before := p.current
		p.syncSection()
		if p.current == before {
			p.advance()
		}
	}
}

// parseSection parses one `<KEYWORD> { ... }` section. A section keyword
// not followed by `{` records a missing-opening-brace error and the body is
// parsed as if the brace were present.
func (p *Parser) parseSection(obj *ObjectDeclaration, kw lexer.TokenType) {
	kwRef := p.currentRef()
	p.advance()

	if !p.check(lexer.TOKEN_LBRACE) {
		p.addError(CategoryMissingBrace, "Missing opening brace for section", p.peek())
	} else {
		p.advance()
	}

	switch kw {
	case lexer.TOKEN_OBJECT_PROPERTIES:
		obj.ObjectProperties = p.parsePropertySection(kwRef)
	case lexer.TOKEN_PROPERTIES:
		obj.Properties = p.parsePropertySection(kwRef)
	case lexer.TOKEN_FIELDS:
		obj.Fields = p.parseFieldSection(kwRef)
	case lexer.TOKEN_KEYS:
		obj.Keys = p.parseKeySection(kwRef)
	case lexer.TOKEN_FIELDGROUPS, lexer.TOKEN_LABELS:
		obj.FieldGroups = p.parseFieldGroupSection(kwRef)
	case lexer.TOKEN_CONTROLS, lexer.TOKEN_MENUNODES:
		obj.Controls = p.parseControlsSection(kwRef)
	case lexer.TOKEN_ACTIONS:
		obj.Actions = p.parseActionsSection(kwRef)
	case lexer.TOKEN_ELEMENTS:
		obj.Elements = p.parseElementsSection(kwRef)
	case lexer.TOKEN_DATASET, lexer.TOKEN_RDLDATA, lexer.TOKEN_REQUESTPAGE:
		obj.Dataset = p.parseDatasetSection(kwRef)
	case lexer.TOKEN_CODE:
		obj.Code = p.parseCodeSection(kwRef)
	}
}

// sectionBodyDone reports whether the section body ends at the current
// token. Hitting the next section keyword means the current section was
// never closed: the close is synthesized and the error recorded once.
func (p *Parser) sectionBodyDone() bool {
	if p.isAtEnd() || p.check(lexer.TOKEN_RBRACE) {
		return true
	}
	if p.peek().Type.IsSectionKeyword() {
		p.addError(CategoryUnbalancedBraces, "Section not closed before next section", p.peek())
		return true
	}
	return false
}

// closeSection consumes the section's `}` when present and returns the end
// token reference
func (p *Parser) closeSection() *lexer.Token {
	if p.check(lexer.TOKEN_RBRACE) {
		p.advance()
	}
	return p.prevRef()
}

// parsePropertySection parses `Name=Value;` entries
func (p *Parser) parsePropertySection(kwRef *lexer.Token) *PropertySection {
	sec := &PropertySection{Span: Span{StartToken: kwRef}}

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		before := p.current
		if prop := p.parseProperty(); prop != nil {
			sec.Properties = append(sec.Properties, prop)
		}
		if p.current == before {
			p.advance()
		}
	}

	sec.EndToken = p.closeSection()
	return sec
}

// parseProperty parses one property entry. Trigger-valued properties such
// as OnValidate=BEGIN ... END parse their code body through the normal
// statement machinery.
func (p *Parser) parseProperty() *Property {
	if !p.canBeName() {
		p.addError(CategoryExpectedIdentifier, "Expected property name", p.peek())
		p.skipToPropertyEnd()
		return nil
	}

	prop := &Property{Span: Span{StartToken: p.currentRef()}}
	prop.Name = p.advance().Value

	if _, ok := p.expect(lexer.TOKEN_EQUALS, "Expected '=' after property name"); !ok {
		p.skipToPropertyEnd()
		return nil
	}

	switch p.peek().Type {
	case lexer.TOKEN_PROPERTY_VALUE:
		prop.Value = p.advance().Value
	case lexer.TOKEN_BEGIN, lexer.TOKEN_VAR:
		prop.Trigger = p.parsePropertyTrigger(prop.Name, prop.StartToken)
	default:
		// The lexer normally folds the value into one token; anything else
		// is collected until the property terminator
		var parts []string
		for !p.isAtEnd() && !p.check(lexer.TOKEN_SEMICOLON) && !p.check(lexer.TOKEN_RBRACE) {
			parts = append(parts, p.advance().Value)
		}
		prop.Value = strings.Join(parts, " ")
	}

	prop.EndToken = p.prevRef()
	return prop
}

// parsePropertyTrigger parses the VAR block and body of a trigger-valued
// property
func (p *Parser) parsePropertyTrigger(name string, start *lexer.Token) *TriggerDeclaration {
	trig := &TriggerDeclaration{Span: Span{StartToken: start}, Name: name}
	if p.check(lexer.TOKEN_VAR) {
		p.advance()
		trig.Variables = p.parseVariableBlock()
	}
	if p.check(lexer.TOKEN_BEGIN) {
		trig.Body = p.parseBlock()
	}
	trig.EndToken = p.prevRef()
	return trig
}

func (p *Parser) skipToPropertyEnd() {
	for !p.isAtEnd() && !p.check(lexer.TOKEN_SEMICOLON) && !p.check(lexer.TOKEN_RBRACE) {
		if p.peek().Type.IsSectionKeyword() {
			return
		}
		p.advance()
	}
}

// parseFieldSection parses `{ id ; ; name ; type ; props }` records
func (p *Parser) parseFieldSection(kwRef *lexer.Token) *FieldSection {
	sec := &FieldSection{Span: Span{StartToken: kwRef}}

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if !p.check(lexer.TOKEN_LBRACE) {
			p.addError(CategoryUnexpectedToken, "Expected field record", p.peek())
			p.skipToRecordStart()
			continue
		}
		if f := p.parseFieldRecord(); f != nil {
			sec.Fields = append(sec.Fields, f)
		}
	}

	sec.EndToken = p.closeSection()
	return sec
}

func (p *Parser) parseFieldRecord() *FieldDeclaration {
	f := &FieldDeclaration{Span: Span{StartToken: p.currentRef()}}
	p.advance() // {

	if p.check(lexer.TOKEN_INTEGER) {
		f.ID = p.advance().Value
	}
	p.match(lexer.TOKEN_SEMICOLON)
	// Reserved column, usually empty
	p.match(lexer.TOKEN_SEMICOLON)

	if p.canBeName() {
		f.Name = p.advance().Value
	}
	if p.match(lexer.TOKEN_SEMICOLON) && p.canBeName() {
		f.TypeName = p.advance().Value
	}
	if p.match(lexer.TOKEN_SEMICOLON) {
		f.Properties = p.parseRecordProperties()
	}

	p.finishRecord(&f.Span)
	return f
}

// parseKeySection parses `{ ; field,field ; props }` records
func (p *Parser) parseKeySection(kwRef *lexer.Token) *KeySection {
	sec := &KeySection{Span: Span{StartToken: kwRef}}

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if !p.check(lexer.TOKEN_LBRACE) {
			p.addError(CategoryUnexpectedToken, "Expected key record", p.peek())
			p.skipToRecordStart()
			continue
		}
		k := &KeyDeclaration{Span: Span{StartToken: p.currentRef()}}
		p.advance() // {
		p.match(lexer.TOKEN_SEMICOLON)
		for p.canBeName() {
			k.Fields = append(k.Fields, p.advance().Value)
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		if p.match(lexer.TOKEN_SEMICOLON) {
			k.Properties = p.parseRecordProperties()
		}
		p.finishRecord(&k.Span)
		sec.Keys = append(sec.Keys, k)
	}

	sec.EndToken = p.closeSection()
	return sec
}

// parseFieldGroupSection parses `{ id ; name ; field,field }` records
func (p *Parser) parseFieldGroupSection(kwRef *lexer.Token) *FieldGroupSection {
	sec := &FieldGroupSection{Span: Span{StartToken: kwRef}}

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if !p.check(lexer.TOKEN_LBRACE) {
			p.addError(CategoryUnexpectedToken, "Expected field group record", p.peek())
			p.skipToRecordStart()
			continue
		}
		g := &FieldGroupDeclaration{Span: Span{StartToken: p.currentRef()}}
		p.advance() // {
		if p.check(lexer.TOKEN_INTEGER) {
			g.ID = p.advance().Value
		}
		if p.match(lexer.TOKEN_SEMICOLON) && p.canBeName() {
			g.Name = p.advance().Value
		}
		if p.match(lexer.TOKEN_SEMICOLON) {
			for p.canBeName() {
				g.Fields = append(g.Fields, p.advance().Value)
				if !p.match(lexer.TOKEN_COMMA) {
					break
				}
			}
		}
		p.finishRecord(&g.Span)
		sec.Groups = append(sec.Groups, g)
	}

	sec.EndToken = p.closeSection()
	return sec
}

// control-shaped records serve CONTROLS, ACTIONS and DATASET sections

type controlRecord struct {
	span  Span
	id    string
	depth int
	kind  string
	name  string
	props []*Property
}

// parseControlRecord parses `{ id ; indent ; kind [; name] ; props }`
func (p *Parser) parseControlRecord() *controlRecord {
	r := &controlRecord{span: Span{StartToken: p.currentRef()}}
	p.advance() // {

	if p.check(lexer.TOKEN_INTEGER) {
		r.id = p.advance().Value
	}
	p.match(lexer.TOKEN_SEMICOLON)
	if p.check(lexer.TOKEN_INTEGER) {
		r.depth, _ = strconv.Atoi(p.advance().Value)
	}
	p.match(lexer.TOKEN_SEMICOLON)
	if p.canBeName() && !p.propertyAhead() {
		r.kind = p.advance().Value
	}
	if p.match(lexer.TOKEN_SEMICOLON) {
		if p.canBeName() && !p.propertyAhead() {
			r.name = p.advance().Value
			p.match(lexer.TOKEN_SEMICOLON)
		}
		r.props = p.parseRecordProperties()
	}

	p.finishRecord(&r.span)
	return r
}

// propertyAhead reports whether the current position starts a `Name=` pair
func (p *Parser) propertyAhead() bool {
	return p.canBeName() && p.peekAt(1).Type == lexer.TOKEN_EQUALS
}

func (p *Parser) parseControlsSection(kwRef *lexer.Token) *ControlsSection {
	sec := &ControlsSection{Span: Span{StartToken: kwRef}}
	var stack []*ControlDeclaration

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if !p.check(lexer.TOKEN_LBRACE) {
			p.addError(CategoryUnexpectedToken, "Expected control record", p.peek())
			p.skipToRecordStart()
			continue
		}
		r := p.parseControlRecord()
		ctl := &ControlDeclaration{Span: r.span, ID: r.id, Indent: strconv.Itoa(r.depth), Kind: r.kind, Name: r.name, Properties: r.props}
		stack = placeControl(&sec.Controls, stack, ctl, r.depth)
	}

	sec.EndToken = p.closeSection()
	return sec
}

// placeControl files a record under its parent by indent depth
func placeControl(roots *[]*ControlDeclaration, stack []*ControlDeclaration, ctl *ControlDeclaration, depth int) []*ControlDeclaration {
	if depth > len(stack) {
		depth = len(stack)
	}
	stack = stack[:depth]
	if len(stack) == 0 {
		*roots = append(*roots, ctl)
	} else {
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, ctl)
	}
	return append(stack, ctl)
}

func (p *Parser) parseActionsSection(kwRef *lexer.Token) *ActionsSection {
	sec := &ActionsSection{Span: Span{StartToken: kwRef}}
	var stack []*ActionDeclaration

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if !p.check(lexer.TOKEN_LBRACE) {
			p.addError(CategoryUnexpectedToken, "Expected action record", p.peek())
			p.skipToRecordStart()
			continue
		}
		r := p.parseControlRecord()
		act := &ActionDeclaration{Span: r.span, ID: r.id, Indent: strconv.Itoa(r.depth), Kind: r.kind, Properties: r.props}

		depth := r.depth
		if depth > len(stack) {
			depth = len(stack)
		}
		stack = stack[:depth]
		if len(stack) == 0 {
			sec.Actions = append(sec.Actions, act)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, act)
		}
		stack = append(stack, act)
	}

	sec.EndToken = p.closeSection()
	return sec
}

func (p *Parser) parseElementsSection(kwRef *lexer.Token) *ElementsSection {
	sec := &ElementsSection{Span: Span{StartToken: kwRef}}
	var stack []*XMLportElement

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if !p.check(lexer.TOKEN_LBRACE) {
			p.addError(CategoryUnexpectedToken, "Expected element record", p.peek())
			p.skipToRecordStart()
			continue
		}
		el := p.parseXMLportElement()

		depth, _ := strconv.Atoi(el.Indent)
		if depth > len(stack) {
			depth = len(stack)
		}
		stack = stack[:depth]
		if len(stack) == 0 {
			sec.Elements = append(sec.Elements, el)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, el)
		}
		stack = append(stack, el)
	}

	sec.EndToken = p.closeSection()
	return sec
}

// parseXMLportElement parses `{ [id] ; indent ; name ; nodetype ; sourcetype ; props }`
func (p *Parser) parseXMLportElement() *XMLportElement {
	el := &XMLportElement{Span: Span{StartToken: p.currentRef()}}
	p.advance() // {

	if p.check(lexer.TOKEN_LBRACKET) {
		// GUID column, e.g. [{1234...}-...]; consumed wholesale
		for !p.isAtEnd() && !p.check(lexer.TOKEN_RBRACKET) && !p.check(lexer.TOKEN_SEMICOLON) {
			p.advance()
		}
		p.match(lexer.TOKEN_RBRACKET)
	} else if p.check(lexer.TOKEN_INTEGER) {
		el.ID = p.advance().Value
	}
	p.match(lexer.TOKEN_SEMICOLON)
	if p.check(lexer.TOKEN_INTEGER) {
		el.Indent = p.advance().Value
	}
	p.match(lexer.TOKEN_SEMICOLON)
	if p.canBeName() && !p.propertyAhead() {
		el.Name = p.advance().Value
	}
	if p.match(lexer.TOKEN_SEMICOLON) && p.canBeName() && !p.propertyAhead() {
		el.NodeType = p.advance().Value
	}
	if p.match(lexer.TOKEN_SEMICOLON) {
		if p.canBeName() && !p.propertyAhead() {
			el.SourceType = p.advance().Value
			p.match(lexer.TOKEN_SEMICOLON)
		}
		el.Properties = p.parseRecordProperties()
	}

	p.finishRecord(&el.Span)
	return el
}

func (p *Parser) parseDatasetSection(kwRef *lexer.Token) *DatasetSection {
	sec := &DatasetSection{Span: Span{StartToken: kwRef}}
	var stack []*ControlDeclaration

	for !p.sectionBodyDone() {
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		if !p.check(lexer.TOKEN_LBRACE) {
			p.addError(CategoryUnexpectedToken, "Expected dataset record", p.peek())
			p.skipToRecordStart()
			continue
		}
		r := p.parseControlRecord()
		item := &ControlDeclaration{Span: r.span, ID: r.id, Indent: strconv.Itoa(r.depth), Kind: r.kind, Name: r.name, Properties: r.props}
		stack = placeControl(&sec.Items, stack, item, r.depth)
	}

	sec.EndToken = p.closeSection()
	return sec
}

// parseRecordProperties parses the trailing property list of a record
func (p *Parser) parseRecordProperties() []*Property {
	var props []*Property
	for !p.isAtEnd() && !p.check(lexer.TOKEN_RBRACE) {
		if p.peek().Type.IsSectionKeyword() {
			return props
		}
		if p.match(lexer.TOKEN_SEMICOLON) {
			continue
		}
		before := p.current
		if prop := p.parseProperty(); prop != nil {
			props = append(props, prop)
		}
		if p.current == before {
			p.advance()
		}
	}
	return props
}

// finishRecord consumes the record's `}` and stamps the end token
func (p *Parser) finishRecord(span *Span) {
	if p.check(lexer.TOKEN_RBRACE) {
		p.advance()
	} else {
		p.addErrorExpected(CategoryUnbalancedBraces, "Expected '}' to close record", p.peek(), lexer.TOKEN_RBRACE)
	}
	span.EndToken = p.prevRef()
}

// skipToRecordStart advances to the next record, section close or section
// keyword
func (p *Parser) skipToRecordStart() {
	for !p.isAtEnd() && !p.check(lexer.TOKEN_LBRACE) && !p.check(lexer.TOKEN_RBRACE) {
		if p.peek().Type.IsSectionKeyword() {
			return
		}
		p.advance()
	}
}
