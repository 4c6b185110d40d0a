package parser

import "github.com/klauskaan/cal-langserver/internal/lexer"

// TokenCursor is an immutable cursor over a buffered token stream. Every
// navigation operation returns a new cursor rather than mutating in place,
// so callers can save a cursor value as a backtracking point simply by
// keeping a reference to it.
type TokenCursor struct {
	lex     *lexer.Lexer
	current lexer.Token
	tokens  []lexer.Token
	index   int
}

// NewTokenCursor creates a cursor positioned at the first token of l.
func NewTokenCursor(l *lexer.Lexer) *TokenCursor {
	first := l.NextToken()
	tokens := make([]lexer.Token, 1, 32)
	tokens[0] = first
	return &TokenCursor{lex: l, current: first, tokens: tokens, index: 0}
}

// Current returns the token at the cursor's position.
func (c *TokenCursor) Current() lexer.Token { return c.current }

// Peek returns the token n positions ahead of the current one. Peek(0) is
// Current().
func (c *TokenCursor) Peek(n int) lexer.Token {
	if n < 0 {
		return c.current
	}
	target := c.index + n
	for target >= len(c.tokens) {
		tok := c.lex.NextToken()
		c.tokens = append(c.tokens, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	if target < len(c.tokens) {
		return c.tokens[target]
	}
	return c.tokens[len(c.tokens)-1]
}

// Advance returns a new cursor positioned one token ahead.
func (c *TokenCursor) Advance() *TokenCursor {
	if c.current.Kind == lexer.EOF {
		return c
	}
	c.Peek(1)
	newIndex := c.index + 1
	if newIndex >= len(c.tokens) {
		newIndex = len(c.tokens) - 1
	}
	return &TokenCursor{lex: c.lex, current: c.tokens[newIndex], tokens: c.tokens, index: newIndex}
}

// Is reports whether the current token has kind t.
func (c *TokenCursor) Is(t lexer.TokenType) bool { return c.current.Kind == t }

// IsAny reports whether the current token's kind is one of types.
func (c *TokenCursor) IsAny(types ...lexer.TokenType) bool {
	for _, t := range types {
		if c.current.Kind == t {
			return true
		}
	}
	return false
}

// PeekIs reports whether the token n positions ahead has kind t.
func (c *TokenCursor) PeekIs(n int, t lexer.TokenType) bool { return c.Peek(n).Kind == t }

// Mark is a lightweight saved cursor position for backtracking.
type Mark struct{ index int }

// Mark captures the cursor's current position.
func (c *TokenCursor) Mark() Mark { return Mark{index: c.index} }

// ResetTo returns a cursor restored to a previously captured Mark.
func (c *TokenCursor) ResetTo(m Mark) *TokenCursor {
	if m.index < 0 || m.index >= len(c.tokens) {
		return c
	}
	return &TokenCursor{lex: c.lex, current: c.tokens[m.index], tokens: c.tokens, index: m.index}
}

// IsEOF reports whether the current token is EOF.
func (c *TokenCursor) IsEOF() bool { return c.current.Kind == lexer.EOF }
