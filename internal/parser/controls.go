package parser

import (
	"strings"

	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// canonicalControlKinds and its action/element counterparts are the known
// spellings each section recognizes (case-insensitively); anything else
// falls back to the section's default kind with the original lexeme
// preserved in Raw* (spec.md §4.2.4).
var canonicalControlKinds = map[string]string{
	"container": "Container", "group": "Group", "field": "Field",
	"part": "Part", "grid": "Grid", "usercontrol": "UserControl",
}

var canonicalActionKinds = map[string]string{
	"actioncontainer": "ActionContainer", "action": "Action",
	"actiongroup": "ActionGroup", "separator": "Separator",
}

var canonicalNodeTypes = map[string]string{
	"element": "Element", "attribute": "Attribute",
}

var canonicalSourceTypes = map[string]string{
	"text": "Text", "field": "Field", "table": "Table",
}

func canonicalize(table map[string]string, raw, fallback string) string {
	if kind, ok := table[strings.ToLower(raw)]; ok {
		return kind
	}
	return fallback
}

// parseControlsSection parses CONTROLS entries and arranges them into a
// forest via the shared indent-tree builder.
func (p *Parser) parseControlsSection() []*ast.ControlDecl {
	var flat []*ast.ControlDecl
	if !p.expect(lexer.LBRACE, "to open CONTROLS section") {
		return nil
	}
	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.LBRACE) {
			p.localRecover(startDepth)
			continue
		}
		c := p.parseControlEntry()
		if c != nil {
			flat = append(flat, c)
		} else {
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("CONTROLS")
	return ast.BuildIndentTree(flat)
}

func (p *Parser) parseControlEntry() *ast.ControlDecl {
	builder := p.StartNode()
	c := &ast.ControlDecl{}
	entryDepth := p.braceDepth + 1 // depth inside the entry once its '{' is consumed

	p.nextToken() // consume '{'

	if !p.curIs(lexer.INTEGER) {
		p.addError("Expected field number", ErrExpectedFieldNumber)
		return nil
	}
	c.ID = parseIntLiteral(p.cur().Value)
	p.nextToken()
	p.expect(lexer.SEMICOLON, "after control id")

	if p.curIs(lexer.INTEGER) {
		c.IndentLevel = parseIntLiteral(p.cur().Value)
		p.nextToken()
	}
	p.expect(lexer.SEMICOLON, "after control indent level")

	if isIdentLike(p.cur().Kind) {
		c.RawKind = p.identName()
		c.Kind = canonicalize(canonicalControlKinds, c.RawKind, "Control")
	}

	p.parseIndentEntryTail(entryDepth, &c.Properties, &c.Triggers)

	return builder.Finish(c).(*ast.ControlDecl)
}

// parseActionsSection parses ACTIONS entries into a forest.
func (p *Parser) parseActionsSection() []*ast.ActionDecl {
	var flat []*ast.ActionDecl
	if !p.expect(lexer.LBRACE, "to open ACTIONS section") {
		return nil
	}
	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.LBRACE) {
			p.localRecover(startDepth)
			continue
		}
		a := p.parseActionEntry()
		if a != nil {
			flat = append(flat, a)
		} else {
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("ACTIONS")
	return ast.BuildIndentTree(flat)
}

func (p *Parser) parseActionEntry() *ast.ActionDecl {
	builder := p.StartNode()
	a := &ast.ActionDecl{}
	entryDepth := p.braceDepth + 1 // depth inside the entry once its '{' is consumed

	p.nextToken() // consume '{'

	if !p.curIs(lexer.INTEGER) {
		p.addError("Expected field number", ErrExpectedFieldNumber)
		return nil
	}
	a.ID = parseIntLiteral(p.cur().Value)
	p.nextToken()
	p.expect(lexer.SEMICOLON, "after action id")

	if p.curIs(lexer.INTEGER) {
		a.IndentLevel = parseIntLiteral(p.cur().Value)
		p.nextToken()
	}
	p.expect(lexer.SEMICOLON, "after action indent level")

	if isIdentLike(p.cur().Kind) {
		a.RawKind = p.identName()
		a.Kind = canonicalize(canonicalActionKinds, a.RawKind, "Action")
	}

	p.parseIndentEntryTail(entryDepth, &a.Properties, &a.Triggers)

	return builder.Finish(a).(*ast.ActionDecl)
}

// parseElementsSection parses XMLport ELEMENTS entries into a forest.
func (p *Parser) parseElementsSection() []*ast.XMLportElementDecl {
	var flat []*ast.XMLportElementDecl
	if !p.expect(lexer.LBRACE, "to open ELEMENTS section") {
		return nil
	}
	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.LBRACE) {
			p.localRecover(startDepth)
			continue
		}
		e := p.parseElementEntry()
		if e != nil {
			flat = append(flat, e)
		} else {
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("ELEMENTS")
	return ast.BuildIndentTree(flat)
}

func (p *Parser) parseElementEntry() *ast.XMLportElementDecl {
	builder := p.StartNode()
	e := &ast.XMLportElementDecl{}
	entryDepth := p.braceDepth + 1 // depth inside the entry once its '{' is consumed

	p.nextToken() // consume '{'

	// Optional `[{guid}]` leading column.
	if p.curIs(lexer.LBRACK) {
		p.nextToken()
		var b strings.Builder
		for !p.curIs(lexer.RBRACK) && !p.curIs(lexer.EOF) {
			b.WriteString(p.cur().Value)
			p.nextToken()
		}
		e.GUID = b.String()
		p.expect(lexer.RBRACK, "to close GUID")
	}
	p.expect(lexer.SEMICOLON, "after element GUID column")

	if p.curIs(lexer.INTEGER) {
		e.IndentLevel = parseIntLiteral(p.cur().Value)
		p.nextToken()
	}
	p.expect(lexer.SEMICOLON, "after element indent level")

	if isIdentLike(p.cur().Kind) {
		e.Name = p.identName()
	}
	p.expect(lexer.SEMICOLON, "after element name")

	if isIdentLike(p.cur().Kind) {
		e.RawNodeType = p.identName()
		e.NodeType = canonicalize(canonicalNodeTypes, e.RawNodeType, "Element")
	}
	p.expect(lexer.SEMICOLON, "after element node type")

	if isIdentLike(p.cur().Kind) {
		e.RawSourceType = p.identName()
		e.SourceType = canonicalize(canonicalSourceTypes, e.RawSourceType, "Text")
	}

	p.parseIndentEntryTail(entryDepth, &e.Properties, nil)

	return builder.Finish(e).(*ast.XMLportElementDecl)
}

// parseIndentEntryTail consumes the optional trailing `; propList` shared by
// CONTROLS/ACTIONS/ELEMENTS entries, then the entry's own closing brace.
func (p *Parser) parseIndentEntryTail(entryDepth int, props **ast.PropertyList, triggers *[]*ast.Trigger) {
	for p.curIs(lexer.SEMICOLON) {
		p.nextToken()
		if p.braceDepth == entryDepth && p.curIs(lexer.RBRACE) {
			break
		}
		prop := p.parseProperty()
		if prop == nil {
			break
		}
		if prop.Trigger != nil && triggers != nil {
			*triggers = append(*triggers, prop.Trigger)
			continue
		}
		if *props == nil {
			*props = &ast.PropertyList{}
		}
		(*props).Properties = append((*props).Properties, prop)
	}

	if p.braceDepth == entryDepth && p.curIs(lexer.RBRACE) {
		p.nextToken()
	}
}
