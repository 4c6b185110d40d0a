package parser

import (
	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// compoundAssignOps maps a compound-assign token to its operator text.
var compoundAssignOps = map[lexer.TokenType]string{
	lexer.PLUS_ASSIGN: "+=", lexer.MINUS_ASSIGN: "-=",
	lexer.TIMES_ASSIGN: "*=", lexer.DIV_ASSIGN: "/=",
}

// parseBlock parses a `BEGIN ... END` statement sequence. The caller has
// already checked the current token is KW_BEGIN.
func (p *Parser) parseBlock() []ast.Statement {
	var stmts []ast.Statement
	if !p.curIs(lexer.KW_BEGIN) {
		return stmts
	}
	p.pushBlock("begin")
	defer p.popBlock()
	p.nextToken() // consume BEGIN

	for !p.curIs(lexer.KW_END) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.nextToken()
		}
	}

	if p.curIs(lexer.KW_END) {
		p.nextToken()
	}
	// Swallow the trailing `.` of an object-level `BEGIN...END.` body; the
	// caller that parses the outer body consumes its own closing `}`.
	if p.curIs(lexer.DOT) {
		p.nextToken()
	}

	return stmts
}

// parseStatement dispatches on the current token to the right statement
// parser, falling back to an assignment or bare expression statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case lexer.KW_BEGIN:
		return p.parseCompoundStatement()
	case lexer.KW_IF:
		return p.parseIfStatement()
	case lexer.KW_CASE:
		return p.parseCaseStatement()
	case lexer.KW_FOR:
		return p.parseForStatement()
	case lexer.KW_WHILE:
		return p.parseWhileStatement()
	case lexer.KW_REPEAT:
		return p.parseRepeatStatement()
	case lexer.KW_WITH:
		return p.parseWithStatement()
	case lexer.KW_EXIT:
		return p.parseExitStatement()
	case lexer.KW_BREAK:
		return p.parseBreakStatement()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseCompoundStatement() ast.Statement {
	builder := p.StartNode()
	bs := &ast.BlockStatement{Statements: p.parseBlock()}
	return builder.Finish(bs).(*ast.BlockStatement)
}

// parseSimpleStatement parses an assignment, compound-assign, or bare
// expression statement, then consumes a trailing `;` if present.
func (p *Parser) parseSimpleStatement() ast.Statement {
	builder := p.StartNode()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	var stmt ast.Statement
	switch {
	case p.curIs(lexer.ASSIGN):
		p.nextToken()
		value := p.parseExpression(LOWEST)
		stmt = builder.Finish(&ast.AssignStatement{Target: expr, Value: value}).(*ast.AssignStatement)
	case compoundAssignOps[p.cur().Kind] != "":
		op := compoundAssignOps[p.cur().Kind]
		p.nextToken()
		value := p.parseExpression(LOWEST)
		stmt = builder.Finish(&ast.CompoundAssignStatement{Target: expr, Operator: op, Value: value}).(*ast.CompoundAssignStatement)
	default:
		stmt = builder.Finish(&ast.ExpressionStatement{Expression: expr}).(*ast.ExpressionStatement)
	}

	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	builder := p.StartNode()
	p.pushBlock("if")
	defer p.popBlock()

	p.nextToken() // consume IF
	cond := p.parseExpression(LOWEST)
	p.expect(lexer.KW_THEN, "after IF condition")
	thenStmt := p.parseStatement()

	is := &ast.IfStatement{Condition: cond, Then: thenStmt}
	if p.curIs(lexer.KW_ELSE) {
		p.nextToken()
		is.Else = p.parseStatement()
	}

	return builder.Finish(is).(*ast.IfStatement)
}

func (p *Parser) parseCaseStatement() ast.Statement {
	builder := p.StartNode()
	p.pushBlock("case")
	defer p.popBlock()

	p.nextToken() // consume CASE
	selector := p.parseExpression(LOWEST)
	p.expect(lexer.KW_OF, "after CASE selector")

	cs := &ast.CaseStatement{Selector: selector}

	for !p.curIs(lexer.KW_END) && !p.curIs(lexer.KW_ELSE) && !p.curIs(lexer.EOF) {
		branchBuilder := p.StartNode()
		branch := &ast.CaseBranch{}
		branch.Values = append(branch.Values, p.parseExpression(LOWEST))
		for p.curIs(lexer.COMMA) {
			p.nextToken()
			branch.Values = append(branch.Values, p.parseExpression(LOWEST))
		}
		p.expect(lexer.COLON, "after CASE branch values")
		branch.Statement = p.parseStatement()
		cs.Branches = append(cs.Branches, branchBuilder.Finish(branch).(*ast.CaseBranch))

		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}

	if p.curIs(lexer.KW_ELSE) {
		p.nextToken()
		for !p.curIs(lexer.KW_END) && !p.curIs(lexer.EOF) {
			if p.curIs(lexer.SEMICOLON) {
				p.nextToken()
				continue
			}
			stmt := p.parseStatement()
			if stmt != nil {
				cs.Else = append(cs.Else, stmt)
			} else {
				p.nextToken()
			}
		}
	}

	p.expect(lexer.KW_END, "to close CASE statement")

	return builder.Finish(cs).(*ast.CaseStatement)
}

func (p *Parser) parseForStatement() ast.Statement {
	builder := p.StartNode()
	p.pushBlock("for")
	defer p.popBlock()

	p.nextToken() // consume FOR

	loopVarBuilder := p.StartNode()
	loopVar := &ast.Identifier{Value: p.identName()}
	loopVar = loopVarBuilder.Finish(loopVar).(*ast.Identifier)

	p.expect(lexer.ASSIGN, "after FOR loop variable")
	start := p.parseExpression(LOWEST)

	down := false
	if p.curIs(lexer.KW_DOWNTO) {
		down = true
		p.nextToken()
	} else {
		p.expect(lexer.KW_TO, "after FOR start value")
	}
	end := p.parseExpression(LOWEST)
	p.expect(lexer.KW_DO, "after FOR range")
	body := p.parseStatement()

	fs := &ast.ForStatement{LoopVar: loopVar, Start: start, Stop: end, Down: down, Body: body}
	return builder.Finish(fs).(*ast.ForStatement)
}

func (p *Parser) parseWhileStatement() ast.Statement {
	builder := p.StartNode()
	p.pushBlock("while")
	defer p.popBlock()

	p.nextToken() // consume WHILE
	cond := p.parseExpression(LOWEST)
	p.expect(lexer.KW_DO, "after WHILE condition")
	body := p.parseStatement()

	ws := &ast.WhileStatement{Condition: cond, Body: body}
	return builder.Finish(ws).(*ast.WhileStatement)
}

func (p *Parser) parseRepeatStatement() ast.Statement {
	builder := p.StartNode()
	p.pushBlock("repeat")
	defer p.popBlock()

	p.nextToken() // consume REPEAT
	rs := &ast.RepeatStatement{}

	for !p.curIs(lexer.KW_UNTIL) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			rs.Body = append(rs.Body, stmt)
		} else {
			p.nextToken()
		}
	}
	p.expect(lexer.KW_UNTIL, "to close REPEAT statement")
	rs.Condition = p.parseExpression(LOWEST)

	return builder.Finish(rs).(*ast.RepeatStatement)
}

// parseWithStatement parses the supplemented `WITH record DO body` form.
func (p *Parser) parseWithStatement() ast.Statement {
	builder := p.StartNode()
	p.pushBlock("with")
	defer p.popBlock()

	p.nextToken() // consume WITH
	record := p.parseExpression(LOWEST)
	p.expect(lexer.KW_DO, "after WITH record")
	body := p.parseStatement()

	ws := &ast.WithStatement{Record: record, Body: body}
	return builder.Finish(ws).(*ast.WithStatement)
}

func (p *Parser) parseExitStatement() ast.Statement {
	builder := p.StartNode()
	p.nextToken() // consume EXIT
	es := &ast.ExitStatement{}

	if p.curIs(lexer.LPAREN) {
		p.nextToken()
		if !p.curIs(lexer.RPAREN) {
			es.Value = p.parseExpression(LOWEST)
		}
		p.expect(lexer.RPAREN, "to close EXIT argument")
	}

	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return builder.Finish(es).(*ast.ExitStatement)
}

func (p *Parser) parseBreakStatement() ast.Statement {
	builder := p.StartNode()
	p.nextToken() // consume BREAK
	bs := &ast.BreakStatement{}
	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return builder.Finish(bs).(*ast.BreakStatement)
}
