package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// expectSectionClose implements the bit-exact "Expected } to close <SECTION>
// section" contract of spec.md §6 for the six sections it names.
func (p *Parser) expectSectionClose(section string) {
	if p.curIs(lexer.RBRACE) {
		p.nextToken()
		return
	}
	if p.curIs(lexer.EOF) {
		p.addError(fmt.Sprintf("Expected } to close %s section", section), ErrExpectedCloseBrace)
		return
	}
	p.addError(fmt.Sprintf("Expected } to close %s section", section), ErrExpectedCloseBrace)
}

// parsePropertyListSection parses `KEYWORD { entries }` where KEYWORD has
// already been consumed by the caller.
func (p *Parser) parsePropertyListSection() *ast.PropertyList {
	builder := p.StartNode()
	list := &ast.PropertyList{}

	if !p.expect(lexer.LBRACE, "to open property list") {
		return builder.Finish(list).(*ast.PropertyList)
	}

	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		prop := p.parseProperty()
		if prop != nil {
			list.Properties = append(list.Properties, prop)
		} else {
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("PROPERTIES")

	return builder.Finish(list).(*ast.PropertyList)
}

// parseProperty parses one `Name = Value ;` or `Name = BEGIN...END ;` entry.
func (p *Parser) parseProperty() *ast.Property {
	if !isIdentLike(p.cur().Kind) {
		return nil
	}
	builder := p.StartNode()
	prop := &ast.Property{Name: p.identName()}

	if p.curIs(lexer.EQ) || p.curIs(lexer.ASSIGN) {
		p.nextToken()
		if p.curIs(lexer.KW_BEGIN) {
			prop.Trigger = p.parseTrigger(prop.Name)
		} else {
			prop.Value = p.parseRawPropertyValue()
		}
	}

	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return builder.Finish(prop).(*ast.Property)
}

// parseRawPropertyValue reconstructs the literal text of a property value:
// a `[`-bracketed block (copied verbatim up to the matching `]`) or a bare
// run of tokens up to the next `;` or `}`.
func (p *Parser) parseRawPropertyValue() string {
	var b strings.Builder
	if p.curIs(lexer.LBRACK) {
		p.nextToken()
		for !p.curIs(lexer.RBRACK) && !p.curIs(lexer.EOF) {
			b.WriteString(p.cur().Value)
			p.nextToken()
		}
		if p.curIs(lexer.RBRACK) {
			p.nextToken()
		}
		return b.String()
	}
	for !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.cur().Value)
		p.nextToken()
	}
	return b.String()
}

// parseTrigger parses a `BEGIN ... END` trigger body, optionally preceded by
// a local VAR block (property-trigger and field-trigger bodies share this
// shape with object-level TRIGGER declarations).
func (p *Parser) parseTrigger(name string) *ast.Trigger {
	builder := p.StartNode()
	trig := &ast.Trigger{Name: name}

	if p.curIs(lexer.KW_VAR) {
		p.nextToken()
		trig.Variables = p.parseVarBlock()
	}

	trig.Body = p.parseBlock()

	return builder.Finish(trig).(*ast.Trigger)
}

// localRecover implements the local (entry-level) recovery of spec.md
// §4.2.6: advance past the next `;`, or up to (not past) the section's
// closing `}` or the next section keyword, recording a SkippedRegion when more than one token was
// consumed. startDepth is the brace depth at the top of the enclosing
// section, so recovery never reads past its close.
func (p *Parser) localRecover(startDepth int) {
	start := p.cur()
	count := 0
	for !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
			count++
			break
		}
		if p.braceDepth <= startDepth && (p.curIs(lexer.RBRACE) || isObjectSectionKeyword(p.cur().Kind)) {
			break
		}
		p.nextToken()
		count++
	}
	if count > 1 {
		p.recordSkippedRegion(start, p.lastConsumed, count, "Error recovery")
	}
}

// parseFieldsSection parses the FIELDS section: `{ id; ; name; dataType[; propList] }` entries.
func (p *Parser) parseFieldsSection() []*ast.FieldDecl {
	var fields []*ast.FieldDecl
	if !p.expect(lexer.LBRACE, "to open FIELDS section") {
		return fields
	}
	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.LBRACE) {
			p.localRecover(startDepth)
			continue
		}
		f := p.parseFieldEntry()
		if f != nil {
			fields = append(fields, f)
		} else {
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("FIELDS")
	return fields
}

func (p *Parser) parseFieldEntry() *ast.FieldDecl {
	builder := p.StartNode()
	field := &ast.FieldDecl{}
	entryDepth := p.braceDepth + 1 // depth inside the entry once its '{' is consumed

	p.nextToken() // consume '{'

	if !p.curIs(lexer.INTEGER) {
		p.addError("Expected field number", ErrExpectedFieldNumber)
		return nil
	}
	field.ID = parseIntLiteral(p.cur().Value)
	p.nextToken()
	p.expect(lexer.SEMICOLON, "after field number")

	// Legacy empty second column.
	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	if p.curIs(lexer.SEMICOLON) {
		p.addError("Field name cannot be empty (in FIELDS section)", ErrEmptyFieldName)
	} else if isIdentLike(p.cur().Kind) || p.curIs(lexer.STRING) {
		if p.curIs(lexer.STRING) {
			field.Name = p.cur().Value
			p.nextToken()
		} else {
			field.Name = p.identName()
			// A bare field name runs to the next `;` and may span several
			// tokens (No., Sell-to Customer No.).
			for !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
				if p.cur().StartOffset > p.lastConsumed.EndOffset {
					field.Name += " "
				}
				field.Name += p.cur().Value
				p.nextToken()
			}
		}
	}
	p.expect(lexer.SEMICOLON, "after field name")

	field.DataType = p.parseDataType()

	// Optional trailing `; propList` / triggers, terminated by the field's
	// own closing brace (tracked via entryDepth, since property values or
	// trigger bodies may themselves contain braces).
	for p.curIs(lexer.SEMICOLON) {
		p.nextToken()
		if p.braceDepth == entryDepth && p.curIs(lexer.RBRACE) {
			break
		}
		if prop := p.parseProperty(); prop != nil {
			if field.Properties == nil {
				field.Properties = &ast.PropertyList{}
			}
			if prop.Trigger != nil {
				field.Triggers = append(field.Triggers, prop.Trigger)
			} else {
				field.Properties.Properties = append(field.Properties.Properties, prop)
			}
		} else {
			break
		}
	}

	if p.braceDepth == entryDepth && p.curIs(lexer.RBRACE) {
		p.nextToken()
	}

	return builder.Finish(field).(*ast.FieldDecl)
}

// parseKeysSection parses KEYS entries: a field-name list plus a trailing
// property list using the same grammar as FIELDS (supplemented feature).
func (p *Parser) parseKeysSection() []*ast.KeyDecl {
	var keys []*ast.KeyDecl
	if !p.expect(lexer.LBRACE, "to open KEYS section") {
		return keys
	}
	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.LBRACE) {
			p.localRecover(startDepth)
			continue
		}
		k := p.parseKeyEntry()
		if k != nil {
			keys = append(keys, k)
		} else {
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("KEYS")
	return keys
}

func (p *Parser) parseKeyEntry() *ast.KeyDecl {
	builder := p.StartNode()
	key := &ast.KeyDecl{}
	entryDepth := p.braceDepth + 1 // depth inside the entry once its '{' is consumed

	p.nextToken() // consume '{'

	for isIdentLike(p.cur().Kind) || p.curIs(lexer.STRING) {
		if p.curIs(lexer.STRING) {
			key.Fields = append(key.Fields, p.cur().Value)
			p.nextToken()
		} else {
			key.Fields = append(key.Fields, p.identName())
		}
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	for p.curIs(lexer.SEMICOLON) {
		p.nextToken()
		if p.braceDepth == entryDepth && p.curIs(lexer.RBRACE) {
			break
		}
		if prop := p.parseProperty(); prop != nil {
			if key.Properties == nil {
				key.Properties = &ast.PropertyList{}
			}
			key.Properties.Properties = append(key.Properties.Properties, prop)
		} else {
			break
		}
	}

	if p.braceDepth == entryDepth && p.curIs(lexer.RBRACE) {
		p.nextToken()
	}

	return builder.Finish(key).(*ast.KeyDecl)
}

// parseFieldGroupsSection parses FIELDGROUPS entries: `{ id; name; field(,field)* }`.
func (p *Parser) parseFieldGroupsSection() []*ast.FieldGroupDecl {
	var groups []*ast.FieldGroupDecl
	if !p.expect(lexer.LBRACE, "to open FIELDGROUPS section") {
		return groups
	}
	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.LBRACE) {
			p.localRecover(startDepth)
			continue
		}
		g := p.parseFieldGroupEntry()
		if g != nil {
			groups = append(groups, g)
		} else {
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("FIELDGROUPS")
	return groups
}

func (p *Parser) parseFieldGroupEntry() *ast.FieldGroupDecl {
	builder := p.StartNode()
	fg := &ast.FieldGroupDecl{}

	p.nextToken() // consume '{'

	if !p.curIs(lexer.INTEGER) {
		p.addError("Expected field number", ErrExpectedFieldNumber)
		return nil
	}
	fg.ID = parseIntLiteral(p.cur().Value)
	p.nextToken()
	p.expect(lexer.SEMICOLON, "after field group id")

	if isIdentLike(p.cur().Kind) {
		fg.Name = p.identName()
	}
	p.expect(lexer.SEMICOLON, "after field group name")

	for isIdentLike(p.cur().Kind) {
		fg.Fields = append(fg.Fields, p.identName())
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if p.curIs(lexer.RBRACE) {
		p.nextToken()
	}

	return builder.Finish(fg).(*ast.FieldGroupDecl)
}

// parseDataType parses a type expression per spec.md §4.2.5: optional
// TEMPORARY, a base type (bare identifier, identifier+integer,
// identifier-with-embedded-digits, identifier[length], or ARRAY[dims] OF
// base), optional SECURITYFILTERING(Ident).
func (p *Parser) parseDataType() *ast.DataType {
	builder := p.StartNode()
	dt := &ast.DataType{}

	if p.curIs(lexer.KW_TEMPORARY) {
		dt.IsTemporary = true
		p.nextToken()
	}

	if p.curIs(lexer.KW_ARRAY) {
		p.nextToken()
		if p.expect(lexer.LBRACK, "after ARRAY") {
			for {
				if p.curIs(lexer.INTEGER) {
					dt.Dimensions = append(dt.Dimensions, parseIntLiteral(p.cur().Value))
					p.nextToken()
				} else {
					p.addError("Expected array size", ErrExpectedArraySize)
					break
				}
				if p.curIs(lexer.COMMA) {
					p.nextToken()
					continue
				}
				break
			}
			p.expect(lexer.RBRACK, "to close array dimensions")
		}
		p.expect(lexer.KW_OF, "after ARRAY dimensions")
		elem := p.parseDataType()
		dt.TypeName = "ARRAY OF " + elem.TypeName
		dt.Length = elem.Length
		dt.TableID = elem.TableID
	} else if isIdentLike(p.cur().Kind) {
		dt.TypeName = p.identName()
		// Decimal<digits> (Decimal5): the digits are kept as Length.
		if rest, ok := strings.CutPrefix(strings.ToLower(dt.TypeName), "decimal"); ok {
			if n, err := strconv.Atoi(rest); err == nil {
				dt.Length = &n
			}
		}

		switch {
		case p.curIs(lexer.LBRACK):
			p.nextToken()
			if p.curIs(lexer.INTEGER) {
				n := parseIntLiteral(p.cur().Value)
				dt.Length = &n
				p.nextToken()
			} else {
				p.addError("Expected length", ErrExpectedLength)
			}
			p.expect(lexer.RBRACK, "to close bracketed length")
		case p.curIs(lexer.INTEGER):
			n := parseIntLiteral(p.cur().Value)
			dt.TableID = &n
			dt.TypeName = dt.TypeName + " " + p.cur().Value
			p.nextToken()
		case strings.EqualFold(dt.TypeName, "Option"):
			if p.curIs(lexer.STRING) {
				dt.OptionString = p.cur().Value
				p.nextToken()
			}
		}
	}

	if p.curIs(lexer.KW_SECURITYFILTERING) {
		p.nextToken()
		if p.expect(lexer.LPAREN, "after SECURITYFILTERING") {
			if isIdentLike(p.cur().Kind) {
				dt.SecurityFiltering = p.identName()
			}
			p.expect(lexer.RPAREN, "to close SECURITYFILTERING")
		}
	}

	return builder.Finish(dt).(*ast.DataType)
}
