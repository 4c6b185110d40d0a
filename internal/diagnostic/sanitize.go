// Package diagnostic implements the sanitized diagnostic pipeline (spec.md
// §4.5): the single choke point every user-visible parser/resolver message
// passes through before it can leave the core, plus a CLI-only source
// formatter for local developer tooling.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// safeKinds is the sanitizer's allow-list: token kinds whose literal value
// may appear in a diagnostic message verbatim. Everything else (IDENT,
// INTEGER, STRING, UNKNOWN) may carry proprietary source text and is
// replaced by a length-only placeholder.
var safeKinds = buildSafeKinds()

func buildSafeKinds() map[lexer.TokenType]bool {
	m := map[lexer.TokenType]bool{
		lexer.EOF:       true,
		lexer.LBRACE:    true,
		lexer.RBRACE:    true,
		lexer.LPAREN:    true,
		lexer.RPAREN:    true,
		lexer.LBRACK:    true,
		lexer.RBRACK:    true,
		lexer.SEMICOLON: true,
		lexer.COLON:     true,
		lexer.COMMA:     true,
		lexer.DOT:       true,
		lexer.DOTDOTCOL: true,
		lexer.AT:        true,

		lexer.ASSIGN:       true,
		lexer.PLUS_ASSIGN:  true,
		lexer.MINUS_ASSIGN: true,
		lexer.TIMES_ASSIGN: true,
		lexer.DIV_ASSIGN:   true,

		lexer.PLUS: true, lexer.MINUS: true, lexer.ASTERISK: true, lexer.SLASH: true,
		lexer.EQ: true, lexer.NOT_EQ: true, lexer.LESS: true, lexer.LESS_EQ: true,
		lexer.GREATER: true, lexer.GREATER_EQ: true, lexer.QUESTION: true,
	}

	// Every KW_* token is a common known keyword under the allow-list; they
	// are declared as one contiguous run in internal/lexer/token.go.
	for kind := lexer.KW_AND; kind <= lexer.KW_PUBLIC; kind++ {
		m[kind] = true
	}

	return m
}

// IsSafeKind reports whether kind's literal value may appear unredacted in
// a diagnostic message.
func IsSafeKind(kind lexer.TokenType) bool { return safeKinds[kind] }

// Sanitize replaces any literal occurrence of tok.Value in message with a
// length-only placeholder when tok.Kind is not on the safe allow-list.
// Messages built only from safe tokens (punctuation, EOF, keywords) and
// from static text pass through unchanged. Token line/column/kind are
// always safe and are never touched — only the Value substring is at risk.
func Sanitize(message string, tok lexer.Token) string {
	if tok.Value == "" || IsSafeKind(tok.Kind) {
		return message
	}
	if !strings.Contains(message, tok.Value) {
		return message
	}
	placeholder := fmt.Sprintf("[content sanitized, %d chars]", len(tok.Value))
	return strings.ReplaceAll(message, tok.Value, placeholder)
}

// SanitizeAll applies Sanitize against every token in tokens, in order. Used
// where a message may have been built from more than one token's value
// (e.g. a skipped region's message referencing several raw lexemes).
func SanitizeAll(message string, tokens []lexer.Token) string {
	for _, tok := range tokens {
		message = Sanitize(message, tok)
	}
	return message
}
