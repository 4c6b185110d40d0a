// Package parser implements a recursive-descent parser for C/AL object
// definitions, with Pratt-style expression parsing, a shared indent-tree
// builder for CONTROLS/ACTIONS/ELEMENTS, and structured, bounded-skip error
// recovery at both the entry and section level.
package parser

import (
	"fmt"

	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/diagnostic"
	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// Operator precedence, loose to tight: a higher value binds tighter (spec.md §4.2.5).
const (
	_ int = iota
	LOWEST
	LOGICAL        // AND OR XOR
	RELATIONAL     // = <> < <= > >= IN
	ADDITIVE       // + -
	MULTIPLICATIVE // * / DIV MOD
	UNARY          // +x -x NOT x
	POSTFIX        // . :: () []
)

var precedences = map[lexer.TokenType]int{
	lexer.KW_AND: LOGICAL, lexer.KW_OR: LOGICAL, lexer.KW_XOR: LOGICAL,
	lexer.EQ: RELATIONAL, lexer.NOT_EQ: RELATIONAL, lexer.LESS: RELATIONAL,
	lexer.LESS_EQ: RELATIONAL, lexer.GREATER: RELATIONAL, lexer.GREATER_EQ: RELATIONAL,
	lexer.KW_IN: RELATIONAL,
	lexer.PLUS:  ADDITIVE, lexer.MINUS: ADDITIVE,
	lexer.ASTERISK: MULTIPLICATIVE, lexer.SLASH: MULTIPLICATIVE,
	lexer.KW_DIV: MULTIPLICATIVE, lexer.KW_MOD: MULTIPLICATIVE,
	lexer.DOT: POSTFIX, lexer.DOTDOTCOL: POSTFIX, lexer.LPAREN: POSTFIX, lexer.LBRACK: POSTFIX,
}

func getPrecedence(t lexer.TokenType) int {
	if p, ok := precedences[t]; ok {
		return p
	}
	return LOWEST
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// BlockContext names an enclosing block of a nested parse. The parser
// pushes and pops these on blockStack; neither error messages nor recovery
// read the stack.
type BlockContext struct {
	Kind     string // "procedure", "trigger", "begin", "if", "case", "for", "while", "repeat", "with"
	StartPos lexer.Position
}

// Parser holds all state for one parse invocation: the token cursor, the
// accumulated diagnostics, and the brace-depth/block-context bookkeeping
// error recovery relies on.
type Parser struct {
	cursor       *TokenCursor
	lastConsumed lexer.Token

	errors         []*ParseError
	skippedRegions []*SkippedRegion

	blockStack []BlockContext
	braceDepth int

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over the token stream produced by l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{cursor: NewTokenCursor(l)}
	p.lastConsumed = p.cursor.Current()
	p.registerExpressionParsers()
	return p
}

// Errors returns the diagnostics accumulated during parsing.
func (p *Parser) Errors() []*ParseError { return p.errors }

// SkippedRegions returns the error-recovery skip regions accumulated during parsing.
func (p *Parser) SkippedRegions() []*SkippedRegion { return p.skippedRegions }

func (p *Parser) cur() lexer.Token  { return p.cursor.Current() }
func (p *Parser) peek() lexer.Token { return p.cursor.Peek(1) }

// nextToken advances the cursor by one token, tracking brace depth and the
// last-consumed token (used by NodeBuilder.Finish for EndTok stamping).
func (p *Parser) nextToken() {
	p.lastConsumed = p.cursor.Current()
	switch p.lastConsumed.Kind {
	case lexer.LBRACE:
		p.braceDepth++
	case lexer.RBRACE:
		p.braceDepth--
	}
	p.cursor = p.cursor.Advance()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cursor.Is(t) }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.cursor.PeekIs(1, t) }

// expect advances past the current token if it matches t, otherwise records
// an error and leaves the cursor in place.
func (p *Parser) expect(t lexer.TokenType, context string) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	msg := fmt.Sprintf("expected %s %s, found %s", t, context, p.cur().Kind)
	p.addError(msg, ErrUnexpectedToken)
	return false
}

// addError records a diagnostic at the current token, routing msg through
// the sanitizer (internal/diagnostic) so a raw unsafe-kind token value can
// never reach a ParseError.Message (spec.md §4.5).
func (p *Parser) addError(msg string, code string) {
	tok := p.cur()
	p.errors = append(p.errors, &ParseError{Message: diagnostic.Sanitize(msg, tok), Token: tok, Code: code})
}

func (p *Parser) pushBlock(kind string) {
	p.blockStack = append(p.blockStack, BlockContext{Kind: kind, StartPos: p.cur().Pos()})
}

func (p *Parser) popBlock() {
	if len(p.blockStack) > 0 {
		p.blockStack = p.blockStack[:len(p.blockStack)-1]
	}
}

// isIdentLike reports whether t can stand as an identifier in declaration
// position under the context-sensitive rule of spec.md §4.2.5: everything
// except the fixed structural-keyword set is legal there, regardless of
// whether the lexer's canonical keyword table recognizes it.
func isIdentLike(t lexer.TokenType) bool {
	if t == lexer.IDENT {
		return true
	}
	return !lexer.IsStructuralKeyword(t) && t != lexer.EOF && !isPunctuation(t)
}

func isPunctuation(t lexer.TokenType) bool {
	switch t {
	case lexer.LBRACE, lexer.RBRACE, lexer.LPAREN, lexer.RPAREN, lexer.LBRACK, lexer.RBRACK,
		lexer.SEMICOLON, lexer.COLON, lexer.COMMA, lexer.DOT, lexer.DOTDOTCOL, lexer.AT,
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.TIMES_ASSIGN, lexer.DIV_ASSIGN,
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.EQ, lexer.NOT_EQ,
		lexer.LESS, lexer.LESS_EQ, lexer.GREATER, lexer.GREATER_EQ, lexer.QUESTION, lexer.UNKNOWN:
		return true
	default:
		return false
	}
}

// identName returns the lexeme of the current token, consuming it, for use
// wherever the grammar accepts an identifier-shaped token in declaration
// position (names, type names, AL-only keywords used as names).
func (p *Parser) identName() string {
	name := p.cur().Value
	p.nextToken()
	return name
}

// Parse is the package's top-level entry point: spec.md §4.2's
// `parse(tokens) -> (Document, Errors, SkippedRegions)` contract.
func Parse(source string) (*ast.Document, []*ParseError, []*SkippedRegion) {
	p := New(lexer.New(source))
	doc := p.parseDocument()
	return doc, p.errors, p.skippedRegions
}

func (p *Parser) parseDocument() *ast.Document {
	builder := p.StartNode()
	doc := &ast.Document{}

	if p.curIs(lexer.KW_OBJECT) {
		doc.Object = p.parseObjectDecl()
	}

	return builder.Finish(doc).(*ast.Document)
}

// parseObjectDecl parses `OBJECT <ObjectKind> <Id> <Name> { ... }`.
func (p *Parser) parseObjectDecl() *ast.ObjectDecl {
	builder := p.StartNode()
	obj := &ast.ObjectDecl{}

	p.nextToken() // consume OBJECT

	kindTok := p.cur()
	kind, ok := lexer.LookupObjectKind(kindTok.Value)
	if !ok {
		kind = lexer.KW_TABLE // best-effort default; the section dispatch below still runs
	}
	obj.ObjectKind = ast.ObjectKindFromToken(kind)
	p.nextToken() // consume object-kind keyword

	if p.curIs(lexer.INTEGER) {
		obj.ObjectID = parseIntLiteral(p.cur().Value)
		p.nextToken()
	} else {
		p.addError("Expected object ID but found "+p.cur().Kind.String(), ErrExpectedObjectID)
		obj.ObjectID = 0
		// Synthesize id=0 and advance to the next '{' to continue.
		for !p.curIs(lexer.LBRACE) && !p.curIs(lexer.EOF) {
			p.nextToken()
		}
	}

	if p.curIs(lexer.STRING) {
		obj.ObjectName = p.cur().Value
		p.nextToken()
	} else if isIdentLike(p.cur().Kind) {
		obj.ObjectName = p.identName()
	}

	if p.expect(lexer.LBRACE, "to open object body") {
		p.parseObjectBody(obj)
		p.expect(lexer.RBRACE, "to close object body")
	}

	return builder.Finish(obj).(*ast.ObjectDecl)
}

// parseObjectBody dispatches each section keyword to its subparser. Unknown
// section keywords are reported and skipped to the next recognized section
// or the object's closing brace.
func (p *Parser) parseObjectBody(obj *ast.ObjectDecl) {
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		switch p.cur().Kind {
		case lexer.KW_OBJECTPROPERTIES:
			p.nextToken()
			obj.ObjectProperties = p.parsePropertyListSection()
		case lexer.KW_PROPERTIES:
			p.nextToken()
			obj.Properties = p.parsePropertyListSection()
		case lexer.KW_FIELDS:
			p.nextToken()
			obj.Fields = p.parseFieldsSection()
		case lexer.KW_KEYS:
			p.nextToken()
			obj.Keys = p.parseKeysSection()
		case lexer.KW_FIELDGROUPS:
			p.nextToken()
			obj.FieldGroups = p.parseFieldGroupsSection()
		case lexer.KW_CONTROLS:
			p.nextToken()
			obj.Controls = p.parseControlsSection()
		case lexer.KW_ACTIONS:
			p.nextToken()
			obj.Actions = p.parseActionsSection()
		case lexer.KW_ELEMENTS:
			p.nextToken()
			if obj.ObjectKind == ast.ObjectKindXMLport {
				obj.Elements = p.parseElementsSection()
			} else {
				// Query ELEMENTS: unsupported-for-population per spec.md §9;
				// consume the section without building XMLport element nodes.
				p.skipUnsupportedSection("ELEMENTS")
			}
		case lexer.KW_CODE:
			p.nextToken()
			obj.Code = p.parseCodeSection()
		default:
			p.addError("Unknown section keyword "+p.cur().Kind.String(), ErrUnknownSection)
			p.recoverToNextSectionOrClose()
		}
	}
}

// skipUnsupportedSection consumes `{ ... }` without building any AST nodes.
func (p *Parser) skipUnsupportedSection(name string) {
	if !p.expect(lexer.LBRACE, "to open "+name+" section") {
		return
	}
	startDepth := p.braceDepth
	for !(p.curIs(lexer.RBRACE) && p.braceDepth == startDepth) && !p.curIs(lexer.EOF) {
		p.nextToken()
	}
	p.expect(lexer.RBRACE, "to close "+name+" section")
}

// recoverToNextSectionOrClose implements the section-level recovery of
// spec.md §4.2.6: synchronize to the next recognized section keyword or to
// the object's closing brace, tracking brace depth so nested braces (e.g.
// property value blocks) are never mistaken for the section/object close.
func (p *Parser) recoverToNextSectionOrClose() {
	start := p.cur()
	count := 0
	startDepth := p.braceDepth
	for !p.curIs(lexer.EOF) {
		if p.braceDepth <= startDepth && (isObjectSectionKeyword(p.cur().Kind) || p.curIs(lexer.RBRACE)) {
			break
		}
		p.nextToken()
		count++
	}
	if count > 1 {
		p.recordSkippedRegion(start, p.lastConsumed, count, "Error recovery")
	}
}

func isObjectSectionKeyword(t lexer.TokenType) bool {
	switch t {
	case lexer.KW_OBJECTPROPERTIES, lexer.KW_PROPERTIES, lexer.KW_FIELDS, lexer.KW_KEYS,
		lexer.KW_FIELDGROUPS, lexer.KW_CONTROLS, lexer.KW_ACTIONS, lexer.KW_ELEMENTS, lexer.KW_CODE:
		return true
	default:
		return false
	}
}

func (p *Parser) recordSkippedRegion(start, end lexer.Token, count int, reason string) {
	p.skippedRegions = append(p.skippedRegions, &SkippedRegion{
		StartToken: start, EndToken: end, TokenCount: count, Reason: reason,
	})
	p.addError(fmt.Sprintf("Skipped %d tokens during error recovery", count), ErrSkippedTokens)
}

func parseIntLiteral(lexeme string) int {
	n := 0
	for _, r := range lexeme {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
