package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// controlFlowKeywords are illegal as a bare primary expression (spec.md
// §4.2.5); BREAK and EXIT are exempt since BREAK is a legal quoted procedure
// name and EXIT can take an expression argument.
var controlFlowKeywords = map[lexer.TokenType]bool{
	lexer.KW_THEN: true, lexer.KW_ELSE: true, lexer.KW_DO: true, lexer.KW_OF: true,
	lexer.KW_TO: true, lexer.KW_DOWNTO: true, lexer.KW_UNTIL: true,
	lexer.KW_BEGIN: true, lexer.KW_END: true,
}

// registerExpressionParsers wires every prefix/infix parse function into the
// Parser's dispatch tables. Called once from New.
func (p *Parser) registerExpressionParsers() {
	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifierExpression,
		lexer.INTEGER:  p.parseIntegerLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.LPAREN:   p.parseGroupedExpression,
		lexer.PLUS:     p.parseUnaryExpression,
		lexer.MINUS:    p.parseUnaryExpression,
		lexer.KW_NOT:   p.parseUnaryExpression,
		lexer.KW_EXIT:  p.parseIdentifierExpression,
		lexer.KW_BREAK: p.parseIdentifierExpression,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS: p.parseBinaryExpression, lexer.MINUS: p.parseBinaryExpression,
		lexer.ASTERISK: p.parseBinaryExpression, lexer.SLASH: p.parseBinaryExpression,
		lexer.KW_DIV: p.parseBinaryExpression, lexer.KW_MOD: p.parseBinaryExpression,
		lexer.EQ: p.parseBinaryExpression, lexer.NOT_EQ: p.parseBinaryExpression,
		lexer.LESS: p.parseBinaryExpression, lexer.LESS_EQ: p.parseBinaryExpression,
		lexer.GREATER: p.parseBinaryExpression, lexer.GREATER_EQ: p.parseBinaryExpression,
		lexer.KW_IN: p.parseBinaryExpression,
		lexer.KW_AND: p.parseBinaryExpression, lexer.KW_OR: p.parseBinaryExpression, lexer.KW_XOR: p.parseBinaryExpression,
		lexer.DOT:       p.parseMemberAccessExpression,
		lexer.DOTDOTCOL: p.parseScopedAccessExpression,
		lexer.LPAREN:    p.parseCallExpression,
		lexer.LBRACK:    p.parseIndexExpression,
	}

	// Most keyword token types used as bare identifiers (object/type-name
	// keywords, AL-only keywords) also need to resolve as primary
	// expressions, since the context-sensitive identifier rule makes them
	// legal names. They are not registered here: parsePrefixExpression's
	// isIdentLike fallback parses them as identifiers.
}

// parseExpression is the Pratt loop: parse a prefix expression, then fold in
// infix operators whose precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefixExpression()
	if left == nil {
		return nil
	}

	for !p.curIs(lexer.SEMICOLON) && precedence < getPrecedence(p.cur().Kind) {
		infix, ok := p.infixParseFns[p.cur().Kind]
		if !ok {
			return left
		}
		left = infix(left)
	}

	if precedence == LOWEST && p.curIs(lexer.QUESTION) {
		left = p.parseTernaryExpression(p.startNodeAt(left), left)
	}

	return left
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	if fn, ok := p.prefixParseFns[p.cur().Kind]; ok {
		return fn()
	}

	if controlFlowKeywords[p.cur().Kind] {
		p.addError(fmt.Sprintf("Unexpected keyword %s in expression", p.cur().Value), ErrUnexpectedKeywordInExp)
		return p.parseIdentifierExpression()
	}

	// Any other identifier-shaped token (type-name keyword, AL-only
	// keyword) is legal as a bare name reference per the context-sensitive
	// identifier rule.
	if isIdentLike(p.cur().Kind) {
		return p.parseIdentifierExpression()
	}

	p.addError("Unexpected token "+p.cur().Kind.String()+" in expression", ErrUnexpectedToken)
	p.nextToken()
	return nil
}

func (p *Parser) parseIdentifierExpression() ast.Expression {
	builder := p.StartNode()
	ident := &ast.Identifier{Value: p.cur().Value}
	if p.cur().Kind == lexer.STRING {
		ident.Quoted = true
	}
	p.nextToken()

	return builder.Finish(ident).(*ast.Identifier)
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	builder := p.StartNode()
	n, _ := strconv.ParseInt(p.cur().Value, 10, 64)
	lit := &ast.IntegerLiteral{Value: n}
	p.nextToken()
	return builder.Finish(lit).(*ast.IntegerLiteral)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	builder := p.StartNode()
	lit := &ast.StringLiteral{Value: p.cur().Value}
	p.nextToken()
	return builder.Finish(lit).(*ast.StringLiteral)
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	builder := p.StartNode()
	p.nextToken() // consume '('
	inner := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN, "to close grouped expression")
	ge := &ast.GroupedExpression{Inner: inner}
	return builder.Finish(ge).(*ast.GroupedExpression)
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	builder := p.StartNode()
	op := tokenOperatorText(p.cur())
	p.nextToken()
	operand := p.parseExpression(UNARY)
	ue := &ast.UnaryExpression{Operator: op, Operand: operand}
	return builder.Finish(ue).(*ast.UnaryExpression)
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	builder := p.startNodeAt(left)
	op := tokenOperatorText(p.cur())
	prec := getPrecedence(p.cur().Kind)
	p.nextToken()
	right := p.parseExpression(prec)
	be := &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	return builder.Finish(be).(*ast.BinaryExpression)
}

func (p *Parser) parseMemberAccessExpression(object ast.Expression) ast.Expression {
	builder := p.startNodeAt(object)
	p.nextToken() // consume '.'
	member := p.parseMemberName()
	ma := &ast.MemberAccessExpression{Object: object, Member: member}
	return builder.Finish(ma).(*ast.MemberAccessExpression)
}

func (p *Parser) parseScopedAccessExpression(object ast.Expression) ast.Expression {
	builder := p.startNodeAt(object)
	p.nextToken() // consume '::'
	if !isIdentLike(p.cur().Kind) {
		p.addError("Expected identifier after :: operator", ErrExpectedScopedIdent)
		sa := &ast.ScopedAccessExpression{Object: object, Member: &ast.Identifier{}}
		return builder.Finish(sa).(*ast.ScopedAccessExpression)
	}
	member := p.parseMemberName()
	sa := &ast.ScopedAccessExpression{Object: object, Member: member}
	return builder.Finish(sa).(*ast.ScopedAccessExpression)
}

// parseMemberName parses the identifier on the right of `.`/`::`. Member
// access allows any identifier-shaped token regardless of keyword status
// (spec.md §4.2.5: `rec.THEN` is legal).
func (p *Parser) parseMemberName() *ast.Identifier {
	nameBuilder := p.StartNode()
	name := &ast.Identifier{Value: p.cur().Value}
	if p.curIs(lexer.STRING) {
		name.Quoted = true
	}
	if isIdentLike(p.cur().Kind) || p.curIs(lexer.STRING) {
		p.nextToken()
	} else {
		p.addError("Unexpected token "+p.cur().Kind.String()+" in expression", ErrUnexpectedToken)
	}
	return nameBuilder.Finish(name).(*ast.Identifier)
}

func (p *Parser) parseIndexExpression(array ast.Expression) ast.Expression {
	builder := p.startNodeAt(array)
	p.nextToken() // consume '['
	index := p.parseExpression(LOWEST)
	p.expect(lexer.RBRACK, "to close index expression")
	ie := &ast.IndexExpression{Array: array, Index: index}
	return builder.Finish(ie).(*ast.IndexExpression)
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	builder := p.startNodeAt(callee)
	p.nextToken() // consume '('
	ce := &ast.CallExpression{Callee: callee}

	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		arg := p.parseExpression(LOWEST)
		if arg != nil {
			ce.Arguments = append(ce.Arguments, arg)
		}
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN, "to close call arguments")

	return builder.Finish(ce).(*ast.CallExpression)
}

// parseTernaryExpression detects the AL-only `cond ? then : else` operator.
// It is never evaluated; detection alone emits the sanitized diagnostic and
// parsing continues, treating the whole construct as an opaque expression.
func (p *Parser) parseTernaryExpression(builder *NodeBuilder, cond ast.Expression) ast.Expression {
	p.addError("AL-only ternary operator '?:' is not supported in C/AL", ErrTernaryOperator)
	p.nextToken() // consume '?'
	thenExpr := p.parseExpression(LOWEST)
	var elseExpr ast.Expression
	if p.curIs(lexer.COLON) {
		p.nextToken()
		elseExpr = p.parseExpression(LOWEST)
	}
	te := &ast.TernaryExpression{Condition: cond, Then: thenExpr, Else: elseExpr}
	return builder.Finish(te).(*ast.TernaryExpression)
}

// startNodeAt begins a NodeBuilder whose start token is the start token of
// an already-parsed left-hand expression, so infix-built nodes span from
// the left operand rather than from the operator.
func (p *Parser) startNodeAt(left ast.Expression) *NodeBuilder {
	type starter interface{ StartToken() lexer.Token }
	var start lexer.Token
	if s, ok := left.(starter); ok {
		start = s.StartToken()
	}
	return &NodeBuilder{p: p, start: start}
}

func tokenOperatorText(t lexer.Token) string {
	switch t.Kind {
	case lexer.KW_NOT:
		return "NOT"
	case lexer.KW_DIV:
		return "DIV"
	case lexer.KW_MOD:
		return "MOD"
	case lexer.KW_AND:
		return "AND"
	case lexer.KW_OR:
		return "OR"
	case lexer.KW_XOR:
		return "XOR"
	case lexer.KW_IN:
		return "IN"
	default:
		return strings.TrimSpace(t.Value)
	}
}
