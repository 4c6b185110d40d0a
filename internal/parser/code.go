package parser

import (
	"fmt"
	"strings"

	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// parseCodeSection parses the CODE section: an optional CONST block, a
// global VAR block, zero or more PROCEDURE declarations, zero or more
// object-level TRIGGER declarations, and an optional object-level
// BEGIN...END. body (spec.md §4.2.5).
func (p *Parser) parseCodeSection() *ast.CodeSection {
	builder := p.StartNode()
	cs := &ast.CodeSection{}

	if !p.expect(lexer.LBRACE, "to open CODE section") {
		return builder.Finish(cs).(*ast.CodeSection)
	}
	startDepth := p.braceDepth

	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		switch {
		case p.curIs(lexer.KW_VAR):
			p.nextToken()
			cs.Variables = append(cs.Variables, p.parseVarBlock()...)
		case isConstKeyword(p.cur()):
			p.nextToken()
			cs.Variables = append(cs.Variables, p.parseConstBlock()...)
		case p.curIs(lexer.KW_PROCEDURE):
			cs.Procedures = append(cs.Procedures, p.parseProcedureDecl(nil))
		case p.curIs(lexer.KW_LOCAL) && p.peekIs(lexer.KW_PROCEDURE):
			cs.Procedures = append(cs.Procedures, p.parseProcedureDecl(nil))
		case p.curIs(lexer.LBRACK):
			attrs := p.parseAttributes()
			cs.Procedures = append(cs.Procedures, p.parseProcedureDecl(attrs))
		case p.curIs(lexer.KW_TRIGGER):
			cs.Triggers = append(cs.Triggers, p.parseObjectTrigger())
		case p.curIs(lexer.KW_BEGIN):
			cs.Body = p.parseBlock()
		case isALOnlyTopLevel(p.cur().Kind):
			p.addError(fmt.Sprintf("AL-only keyword '%s' not supported in C/AL", p.cur().Value), ErrALOnlyKeyword)
			p.localRecover(startDepth)
		default:
			p.localRecover(startDepth)
		}
	}
	p.expectSectionClose("CODE")

	return builder.Finish(cs).(*ast.CodeSection)
}

func isALOnlyTopLevel(t lexer.TokenType) bool {
	switch t {
	case lexer.KW_ENUM, lexer.KW_INTERFACE, lexer.KW_INTERNAL, lexer.KW_PROTECTED, lexer.KW_PUBLIC:
		return true
	default:
		return false
	}
}

// isConstKeyword reports whether t spells CONST. CONST has no dedicated
// token type (it is not part of the canonical C/AL keyword table); the
// lexer emits it as a plain IDENT and the parser recognizes it positionally.
func isConstKeyword(t lexer.Token) bool {
	return t.Kind == lexer.IDENT && strings.EqualFold(t.Value, "CONST")
}

// parseVarBlock parses zero or more variable declarations up to the next
// construct that ends a VAR block: BEGIN, PROCEDURE, LOCAL PROCEDURE,
// TRIGGER, a CONST block, or the enclosing section's close.
func (p *Parser) parseVarBlock() []*ast.VariableDecl {
	var vars []*ast.VariableDecl
	for p.isVarDeclStart() {
		v := p.parseVariableDecl()
		if v != nil {
			vars = append(vars, v)
		}
	}
	return vars
}

func (p *Parser) isVarDeclStart() bool {
	switch {
	case p.curIs(lexer.EOF), p.curIs(lexer.RBRACE), p.curIs(lexer.KW_BEGIN),
		p.curIs(lexer.KW_PROCEDURE), p.curIs(lexer.KW_LOCAL), p.curIs(lexer.KW_TRIGGER):
		return false
	case isConstKeyword(p.cur()):
		return false
	default:
		return true
	}
}

// parseVariableDecl parses one `Name[@n] : [TEMPORARY] TypeExpr
// [SECURITYFILTERING(Ident)] ;` entry, enforcing the reserved-keyword
// restriction of spec.md §4.2.5.
func (p *Parser) parseVariableDecl() *ast.VariableDecl {
	if lexer.IsStructuralKeyword(p.cur().Kind) {
		p.addError(fmt.Sprintf("cannot use reserved keyword '%s' as a variable name", p.cur().Value), ErrReservedKeyword)
		p.skipToSemicolonOrBegin()
		return nil
	}
	if !isIdentLike(p.cur().Kind) {
		p.addError("Unexpected token "+p.cur().Kind.String()+" in VAR declaration", ErrUnexpectedToken)
		p.skipToSemicolonOrBegin()
		return nil
	}

	builder := p.StartNode()
	v := &ast.VariableDecl{Name: p.identName()}

	if p.curIs(lexer.AT) {
		p.nextToken()
		if p.curIs(lexer.INTEGER) {
			p.nextToken() // discard auto-numbering suffix
		}
	}

	p.expect(lexer.COLON, "after variable name")
	v.DataType = p.parseDataType()
	if v.DataType != nil {
		v.Dimensions = v.DataType.Dimensions
		v.IsTemporary = v.DataType.IsTemporary
	}

	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return builder.Finish(v).(*ast.VariableDecl)
}

// skipToSemicolonOrBegin implements the reserved-keyword recovery of
// spec.md §4.2.5: advance to the next `;` or BEGIN, never crossing a
// procedure or section boundary.
func (p *Parser) skipToSemicolonOrBegin() {
	for !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.KW_BEGIN) && !p.curIs(lexer.EOF) &&
		!p.curIs(lexer.RBRACE) && !p.curIs(lexer.KW_PROCEDURE) && !p.curIs(lexer.KW_LOCAL) &&
		!p.curIs(lexer.KW_TRIGGER) {
		p.nextToken()
	}
	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// parseConstBlock parses a CONST block's entries: `Name : TypeExpr =
// value ;`, a supplemented feature (spec.md is silent on CONST; C/AL source
// carries it ahead of VAR in practice).
func (p *Parser) parseConstBlock() []*ast.VariableDecl {
	var consts []*ast.VariableDecl
	for isIdentLike(p.cur().Kind) && !p.curIs(lexer.KW_BEGIN) && !p.curIs(lexer.KW_PROCEDURE) &&
		!p.curIs(lexer.KW_LOCAL) && !p.curIs(lexer.KW_TRIGGER) && !p.curIs(lexer.RBRACE) &&
		!p.curIs(lexer.KW_VAR) {
		c := p.parseConstDecl()
		if c != nil {
			consts = append(consts, c)
		} else {
			break
		}
	}
	return consts
}

func (p *Parser) parseConstDecl() *ast.VariableDecl {
	builder := p.StartNode()
	v := &ast.VariableDecl{IsConst: true, Name: p.identName()}

	if p.curIs(lexer.COLON) {
		p.nextToken()
		v.DataType = p.parseDataType()
	}

	if p.expect(lexer.EQ, "after constant type") {
		v.ConstValue = p.parseExpression(LOWEST)
	}

	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return builder.Finish(v).(*ast.VariableDecl)
}

// parseAttributes parses a `[Attr1,Attr2]` bracketed attribute list
// prefixing a procedure declaration.
func (p *Parser) parseAttributes() []string {
	var attrs []string
	p.nextToken() // consume '['
	for !p.curIs(lexer.RBRACK) && !p.curIs(lexer.EOF) {
		if isIdentLike(p.cur().Kind) {
			attrs = append(attrs, p.identName())
		} else {
			p.nextToken()
		}
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACK, "to close attribute list")
	return attrs
}

// parseProcedureDecl parses a PROCEDURE or LOCAL PROCEDURE declaration:
// header, parameter list, optional return type, optional local VAR, and a
// BEGIN...END body.
func (p *Parser) parseProcedureDecl(attrs []string) *ast.ProcedureDecl {
	builder := p.StartNode()
	proc := &ast.ProcedureDecl{Attributes: attrs}
	p.pushBlock("procedure")
	defer p.popBlock()

	if p.curIs(lexer.KW_LOCAL) {
		proc.IsLocal = true
		p.nextToken()
	}
	p.expect(lexer.KW_PROCEDURE, "to begin procedure declaration")

	if isIdentLike(p.cur().Kind) {
		proc.Name = p.identName()
	}

	if p.curIs(lexer.AT) {
		p.nextToken()
		if p.curIs(lexer.INTEGER) {
			p.nextToken()
		}
	}

	if p.expect(lexer.LPAREN, "to open parameter list") {
		proc.Parameters = p.parseParameterList()
	}

	if p.curIs(lexer.COLON) {
		p.nextToken()
		proc.ReturnType = p.parseDataType()
	}

	p.expect(lexer.SEMICOLON, "after procedure header")

	if p.curIs(lexer.KW_VAR) {
		p.nextToken()
		proc.Variables = p.parseVarBlock()
	}

	if p.curIs(lexer.KW_BEGIN) {
		proc.Body = p.parseBlock()
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}

	return builder.Finish(proc).(*ast.ProcedureDecl)
}

// parseParameterList parses `( [VAR] Name[@n] : TypeExpr (;|,) … )`, with
// bounded recovery inside the list on unexpected tokens (spec.md §4.2.5).
func (p *Parser) parseParameterList() []*ast.ParameterDecl {
	var params []*ast.ParameterDecl
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		param := p.parseParameterDecl()
		if param != nil {
			params = append(params, param)
		}

		if p.curIs(lexer.SEMICOLON) || p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if p.curIs(lexer.RPAREN) {
			break
		}

		p.addError("Unexpected token in parameter list; expected ';' or ')'", ErrUnexpectedInParamList)
		for !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.COMMA) && !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			p.nextToken()
		}
		if p.curIs(lexer.SEMICOLON) || p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RPAREN, "to close parameter list")
	return params
}

func (p *Parser) parseParameterDecl() *ast.ParameterDecl {
	builder := p.StartNode()
	param := &ast.ParameterDecl{}

	if p.curIs(lexer.KW_VAR) {
		param.ByRef = true
		p.nextToken()
	}

	if !isIdentLike(p.cur().Kind) {
		return nil
	}
	param.Name = p.identName()

	if p.curIs(lexer.AT) {
		p.nextToken()
		if p.curIs(lexer.INTEGER) {
			p.nextToken()
		}
	}

	p.expect(lexer.COLON, "after parameter name")
	param.DataType = p.parseDataType()

	return builder.Finish(param).(*ast.ParameterDecl)
}

// parseObjectTrigger parses an object-level `TRIGGER Name(); [VAR ...]
// BEGIN ... END;` declaration (e.g. OnRun, OnOpenPage).
func (p *Parser) parseObjectTrigger() *ast.TriggerDecl {
	builder := p.StartNode()
	td := &ast.TriggerDecl{}
	p.pushBlock("trigger")
	defer p.popBlock()

	p.expect(lexer.KW_TRIGGER, "to begin trigger declaration")

	if isIdentLike(p.cur().Kind) {
		td.Name = p.identName()
	}

	if p.expect(lexer.LPAREN, "to open trigger parameter list") {
		p.expect(lexer.RPAREN, "to close trigger parameter list")
	}
	p.expect(lexer.SEMICOLON, "after trigger header")

	if p.curIs(lexer.KW_VAR) {
		p.nextToken()
		td.Variables = p.parseVarBlock()
	}

	if p.curIs(lexer.KW_BEGIN) {
		td.Body = p.parseBlock()
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}

	return builder.Finish(td).(*ast.TriggerDecl)
}
