// Package symbols implements the declaration/reference harvester (spec.md
// §4.6): it walks a parsed Document and produces a table of named
// declarations with source ranges, plus case-insensitive textual reference
// counts scoped to procedure/trigger bodies and property-trigger bodies.
package symbols

import (
	"github.com/klauskaan/cal-langserver/internal/ast"
)

// Kind is the closed set of declaration kinds the harvester emits.
type Kind string

const (
	KindProcedure Kind = "procedure"
	KindParameter Kind = "parameter"
	KindVariable  Kind = "variable"
	KindTrigger   Kind = "trigger"
	KindField     Kind = "field"
)

// Range is a half-open source span, line/column 1-based to match lexer.Position.
type Range struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

func rangeOf(n ast.Node) Range {
	start := n.Pos()
	end := n.End()
	return Range{
		StartLine: start.Line, StartColumn: start.Column,
		EndLine: end.Line, EndColumn: end.Column,
	}
}

// Declaration is one named entity the harvester found: a procedure,
// parameter, variable, object-level trigger, or field.
//
// The parser discards quoting syntax when it lexes a declaration name (a
// field named "No." and one named No. would lex to the identical Value),
// so quoting is not tracked here: matching a quoted reference such as
// "No." against a declaration is case-insensitive text equality against
// Name, the same as any other reference.
type Declaration struct {
	Name  string
	Kind  Kind
	Range Range
}

func newDeclaration(name string, kind Kind, rng Range) *Declaration {
	return &Declaration{Name: name, Kind: kind, Range: rng}
}
