package parser

import "github.com/klauskaan/cal-langserver/internal/lexer"

// ParseError is a single recoverable parser diagnostic. Message has already
// passed through the sanitizer (internal/diagnostic) by the time it reaches
// here — the parser never holds an unsanitized message past the point of
// creation.
type ParseError struct {
	Message string
	Token   lexer.Token
	Code    string
}

// SkippedRegion records a contiguous run of tokens consumed by error
// recovery. It is internal-only (spec.md §4.2.7): pkg/cal exposes only the
// boundary-safe summary in SkippedRegionSummary, never this type or its
// StartToken/EndToken fields, which retain the raw tokens purely for
// position derivation.
type SkippedRegion struct {
	StartToken lexer.Token
	EndToken   lexer.Token
	TokenCount int
	Reason     string
}

// Error codes for the bit-exact diagnostic contracts in spec.md §6.
const (
	ErrExpectedCloseBrace     = "expected-close-brace"
	ErrExpectedObjectID       = "expected-object-id"
	ErrExpectedFieldNumber    = "expected-field-number"
	ErrExpectedArraySize      = "expected-array-size"
	ErrExpectedLength         = "expected-length"
	ErrExpectedScopedIdent    = "expected-scoped-identifier"
	ErrALOnlyKeyword          = "al-only-keyword"
	ErrUnexpectedInParamList  = "unexpected-in-parameter-list"
	ErrEmptyFieldName         = "empty-field-name"
	ErrReservedKeyword        = "reserved-keyword-as-name"
	ErrUnexpectedKeywordInExp = "unexpected-keyword-in-expression"
	ErrUnknownSection         = "unknown-section"
	ErrTernaryOperator        = "ternary-operator"
	ErrSkippedTokens          = "skipped-tokens"
	ErrUnexpectedToken        = "unexpected-token"
)
