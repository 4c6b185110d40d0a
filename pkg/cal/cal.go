// Package cal is the public facade over the C/AL language core: parsing,
// semantic type resolution, and symbol/reference harvesting. It is the only
// package external callers (an LSP server, a CLI, editor tooling) should
// import; everything under internal/ is an implementation detail.
//
// Every exported type here is boundary-safe: it never carries a raw,
// potentially-proprietary source token, only the sanitized message/position
// data spec.md's diagnostic channel allows to cross the core's edge.
package cal

import (
	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/diagnostic"
	"github.com/klauskaan/cal-langserver/internal/parser"
	"github.com/klauskaan/cal-langserver/internal/semantic"
	"github.com/klauskaan/cal-langserver/internal/symbols"
)

// Diagnostic is a single sanitized parse error, safe to display or log
// verbatim: its Message has already passed through the sanitizer, and no
// raw token ever travels alongside it.
type Diagnostic struct {
	Message string
	Code    string
	Line    int
	Column  int
}

// SkippedRegionSummary is the boundary-safe view of a parser.SkippedRegion:
// spec.md §4.2.7 keeps the region's raw start/end tokens internal, exposing
// only their derived positions and the recovery's token count and reason.
type SkippedRegionSummary struct {
	Reason      string
	TokenCount  int
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Document is the result of parsing one source file: its AST plus every
// diagnostic and skipped region the parse produced.
type Document struct {
	AST            *ast.Document
	Diagnostics    []Diagnostic
	SkippedRegions []SkippedRegionSummary
}

// Parse lexes and parses source into a Document (spec.md §4.2's top-level
// `parse` operation). It never fails outright: a Document is always
// returned, with parse errors and skipped regions recorded on it instead of
// surfaced as a Go error, mirroring the core's total, best-effort parsing
// contract.
func Parse(source string) *Document {
	doc, errs, skipped := parser.Parse(source)

	d := &Document{AST: doc}
	for _, e := range errs {
		d.Diagnostics = append(d.Diagnostics, Diagnostic{
			Message: e.Message,
			Code:    e.Code,
			Line:    e.Token.Line,
			Column:  e.Token.Column,
		})
	}
	for _, s := range skipped {
		d.SkippedRegions = append(d.SkippedRegions, SkippedRegionSummary{
			Reason:      diagnostic.Sanitize(s.Reason, s.StartToken),
			TokenCount:  s.TokenCount,
			StartLine:   s.StartToken.Line,
			StartColumn: s.StartToken.Column,
			EndLine:     s.EndToken.Line,
			EndColumn:   s.EndToken.Column,
		})
	}
	return d
}

// ResolveOptions mirrors semantic.Options for callers outside the core.
type ResolveOptions struct {
	IsTemporary      *bool
	DefaultTemporary bool
}

func (o ResolveOptions) toInternal() semantic.Options {
	return semantic.Options{IsTemporary: o.IsTemporary, DefaultTemporary: o.DefaultTemporary}
}

// SemanticType is re-exported so callers can inspect a resolved type's Kind
// and rendering without importing internal/semantic directly.
type SemanticType = semantic.Type

// ResolveType resolves a field/variable's syntactic DataType to a tagged
// SemanticType (spec.md §4.4).
func ResolveType(dt *ast.DataType, opts ResolveOptions) SemanticType {
	return semantic.ResolveType(dt, opts.toInternal())
}

// ResolveVariableType resolves a VariableDecl's type, folding its syntactic
// TEMPORARY qualifier into the result.
func ResolveVariableType(v *ast.VariableDecl, opts ResolveOptions) SemanticType {
	return semantic.ResolveVariableType(v, opts.toInternal())
}

// TypeToString renders a SemanticType for display.
func TypeToString(t SemanticType, verbose bool, maxOptionValues int) string {
	return semantic.TypeToString(t, semantic.StringifyOptions{Verbose: verbose, MaxOptionValues: maxOptionValues})
}

// AreTypesEqual reports whether a and b denote the same semantic type.
func AreTypesEqual(a, b SemanticType) bool { return semantic.AreTypesEqual(a, b) }

// IsAssignmentCompatible reports whether a value of type source may be
// assigned to a variable of type target.
func IsAssignmentCompatible(source, target SemanticType) bool {
	return semantic.IsAssignmentCompatible(source, target)
}

// Declaration is the boundary-safe view of a symbols.Declaration.
type Declaration struct {
	Name        string
	Kind        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Symbols is the harvested declaration/reference table for one Document.
type Symbols struct {
	table *symbols.Table
}

// Harvest walks d.AST and returns its declaration/reference table (spec.md
// §4.6). Call it after Parse; it is safe to call even when d has parse
// diagnostics, since harvesting only ever reads the AST the parser already
// produced.
func (d *Document) Harvest() *Symbols {
	return &Symbols{table: symbols.Harvest(d.AST)}
}

// Declarations returns every harvested declaration, in harvest order.
func (s *Symbols) Declarations() []Declaration {
	out := make([]Declaration, 0, len(s.table.Declarations))
	for _, decl := range s.table.Declarations {
		out = append(out, toExportedDeclaration(decl))
	}
	return out
}

// DeclarationsByKind returns every declaration of the given kind
// (e.g. "field"), ordered by natural sort.
func (s *Symbols) DeclarationsByKind(kind string) []Declaration {
	raw := s.table.SortedDeclarations(symbols.Kind(kind))
	out := make([]Declaration, 0, len(raw))
	for _, decl := range raw {
		out = append(out, toExportedDeclaration(decl))
	}
	return out
}

// FindDeclaration returns the first declaration matching name
// case-insensitively, or nil if there is none.
func (s *Symbols) FindDeclaration(name string) *Declaration {
	d := s.table.FindDeclaration(name)
	if d == nil {
		return nil
	}
	decl := toExportedDeclaration(d)
	return &decl
}

// CountReferences returns how many times name was referenced,
// case-insensitively, across every scanned body.
func (s *Symbols) CountReferences(name string) int {
	return s.table.ReferenceCount(name)
}

// ReferenceCountLabel renders CountReferences(name) with spec.md §4.6's
// pluralization convention: "0 references", "1 reference", "N references".
func (s *Symbols) ReferenceCountLabel(name string) string {
	return s.table.ReferenceCountLabel(name)
}

func toExportedDeclaration(d *symbols.Declaration) Declaration {
	return Declaration{
		Name:        d.Name,
		Kind:        string(d.Kind),
		StartLine:   d.Range.StartLine,
		StartColumn: d.Range.StartColumn,
		EndLine:     d.Range.EndLine,
		EndColumn:   d.Range.EndColumn,
	}
}
