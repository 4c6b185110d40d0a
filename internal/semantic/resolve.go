package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/klauskaan/cal-langserver/internal/ast"
)

var folder = cases.Fold()

// primitiveNames maps the case-folded spelling of each fixed-shape scalar
// type to its canonical name.
var primitiveNames = map[string]string{
	"integer": "Integer", "decimal": "Decimal", "boolean": "Boolean",
	"date": "Date", "time": "Time", "datetime": "DateTime", "char": "Char",
	"byte": "Byte", "guid": "GUID", "duration": "Duration", "biginteger": "BigInteger",
}

// primitiveWidenings maps a source primitive to the single wider primitive it
// may assign into without narrowing. Integer widens into Decimal; the
// reverse direction narrows and is not compatible.
var primitiveWidenings = map[string]string{
	"Integer": "Decimal",
}

// Options mirrors spec.md §4.4's `resolve` options: isTemporary, when set,
// takes precedence over defaultTemporary. Both are ignored for non-Record
// types.
type Options struct {
	IsTemporary      *bool
	DefaultTemporary bool
}

func (o Options) resolvedTemporary() bool {
	if o.IsTemporary != nil {
		return *o.IsTemporary
	}
	return o.DefaultTemporary
}

// ResolveType converts a syntactic DataType into a tagged SemanticType
// (spec.md §4.4).
func ResolveType(dt *ast.DataType, opts Options) Type {
	if dt == nil || dt.TypeName == "" {
		return UnknownType{Reason: "Unrecognized type: "}
	}

	if strings.HasPrefix(dt.TypeName, "ARRAY OF ") {
		return ArrayType{
			ElementType: UnknownType{Reason: "array element resolution not implemented"},
			Dimensions:  dt.Dimensions,
		}
	}

	folded := folder.String(dt.TypeName)

	if canon, ok := primitiveNames[folded]; ok {
		return PrimitiveType{Name: canon}
	}
	// Decimal<digits> (Decimal5) resolves to plain Decimal; the digits are dropped.
	if rest, ok := matchPrefix(folded, "decimal"); ok {
		if _, ok := trailingDigits(rest); ok {
			return PrimitiveType{Name: "Decimal"}
		}
	}

	if rest, ok := matchPrefix(folded, "text"); ok {
		return resolveTextLike(rest, dt, false)
	}
	if rest, ok := matchPrefix(folded, "code"); ok {
		return resolveTextLike(rest, dt, true)
	}
	if rest, ok := matchPrefix(folded, "record"); ok {
		return resolveRecordLike(rest, dt, opts)
	}
	if rest, ok := matchPrefix(folded, "codeunit"); ok {
		return resolveCodeunitLike(rest, dt)
	}
	if folded == "option" {
		return resolveOption(dt)
	}

	return UnknownType{Reason: "Unrecognized type: " + dt.TypeName}
}

// ResolveVariableType resolves a VariableDecl's type, folding its syntactic
// TEMPORARY qualifier into opts.IsTemporary when the caller hasn't already
// pinned one, so `VAR R : TEMPORARY Record 18;` resolves as temporary
// without every caller having to thread that through opts by hand.
func ResolveVariableType(v *ast.VariableDecl, opts Options) Type {
	if v == nil {
		return UnknownType{Reason: "Unrecognized type: "}
	}
	if opts.IsTemporary == nil && v.DataType != nil {
		t := v.DataType.IsTemporary
		opts.IsTemporary = &t
	}
	return ResolveType(v.DataType, opts)
}

// matchPrefix reports whether folded starts with prefix and the character
// immediately following the prefix is end-of-string, whitespace, `[`, or a
// digit — the prefix-collision rule of spec.md §4.4. On success it returns
// the remainder of folded after the prefix.
func matchPrefix(folded, prefix string) (string, bool) {
	if !strings.HasPrefix(folded, prefix) {
		return "", false
	}
	rest := folded[len(prefix):]
	if rest == "" {
		return rest, true
	}
	c := rest[0]
	if c == '[' || c == ' ' || c == '\t' || (c >= '0' && c <= '9') {
		return rest, true
	}
	return "", false
}

// trailingDigits reports whether rest is entirely digits, for compound
// lexemes like Text50/Record18 where the length or table id was lexed as
// part of the identifier rather than as a separate token.
func trailingDigits(rest string) (int, bool) {
	if rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func resolveTextLike(rest string, dt *ast.DataType, isCode bool) Type {
	var maxLen *int
	switch {
	case dt.Length != nil:
		maxLen = dt.Length
	default:
		if n, ok := trailingDigits(rest); ok {
			maxLen = &n
		}
	}
	return TextType{MaxLength: maxLen, IsCode: isCode}
}

func resolveRecordLike(rest string, dt *ast.DataType, opts Options) Type {
	tableID := 0
	switch {
	case dt.TableID != nil:
		tableID = *dt.TableID
	default:
		if n, ok := trailingDigits(rest); ok {
			tableID = n
		}
	}
	return RecordType{TableID: tableID, IsTemporary: opts.resolvedTemporary()}
}

func resolveCodeunitLike(rest string, dt *ast.DataType) Type {
	id := 0
	switch {
	case dt.TableID != nil:
		id = *dt.TableID
	default:
		if n, ok := trailingDigits(rest); ok {
			id = n
		}
	}
	return CodeunitType{CodeunitID: id}
}

func resolveOption(dt *ast.DataType) Type {
	var values []string
	for _, v := range strings.Split(dt.OptionString, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return OptionType{Values: values}
}

// StringifyOptions controls TypeToString's verbosity.
type StringifyOptions struct {
	Verbose         bool
	MaxOptionValues int // 0 means unlimited
}

// TypeToString renders t for display, honoring opts.MaxOptionValues for
// Option types and opts.Verbose for Unknown's reason and Record's
// TEMPORARY qualifier.
func TypeToString(t Type, opts StringifyOptions) string {
	switch v := t.(type) {
	case OptionType:
		values := v.Values
		truncated := false
		if opts.MaxOptionValues > 0 && len(values) > opts.MaxOptionValues {
			values = values[:opts.MaxOptionValues]
			truncated = true
		}
		s := "Option " + strings.Join(values, ",")
		if truncated {
			s += ",..."
		}
		return s
	case UnknownType:
		if opts.Verbose && v.Reason != "" {
			return fmt.Sprintf("Unknown (%s)", v.Reason)
		}
		return "Unknown"
	case RecordType:
		if !opts.Verbose {
			return fmt.Sprintf("Record %d", v.TableID)
		}
		return v.String()
	default:
		return t.String()
	}
}

// AreTypesEqual reports whether a and b denote the same semantic type.
func AreTypesEqual(a, b Type) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case PrimitiveType:
		return av == b.(PrimitiveType)
	case TextType:
		bv := b.(TextType)
		return av.IsCode == bv.IsCode && intPtrEqual(av.MaxLength, bv.MaxLength)
	case RecordType:
		bv := b.(RecordType)
		return av.TableID == bv.TableID && av.IsTemporary == bv.IsTemporary
	case CodeunitType:
		return av.CodeunitID == b.(CodeunitType).CodeunitID
	case OptionType:
		bv := b.(OptionType)
		return stringsEqual(av.Values, bv.Values)
	case ArrayType:
		bv := b.(ArrayType)
		return intsEqual(av.Dimensions, bv.Dimensions) && AreTypesEqual(av.ElementType, bv.ElementType)
	case UnknownType:
		return true // two Unknowns are considered equal regardless of reason
	default:
		return false
	}
}

// IsAssignmentCompatible reports whether a value of type source may be
// assigned to a variable of type target. Unknown on either side is never
// compatible, since the resolver could not establish what it is.
func IsAssignmentCompatible(source, target Type) bool {
	if source.Kind() == KindUnknown || target.Kind() == KindUnknown {
		return false
	}
	if source.Kind() != target.Kind() {
		return false
	}
	switch tv := target.(type) {
	case PrimitiveType:
		sv := source.(PrimitiveType)
		if sv == tv {
			return true
		}
		return primitiveWidenings[sv.Name] == tv.Name
	case TextType:
		sv := source.(TextType)
		if sv.IsCode != tv.IsCode {
			return false
		}
		if tv.MaxLength == nil || sv.MaxLength == nil {
			return true
		}
		return *sv.MaxLength <= *tv.MaxLength
	case RecordType:
		sv := source.(RecordType)
		return sv.TableID == tv.TableID
	case CodeunitType:
		sv := source.(CodeunitType)
		return sv.CodeunitID == tv.CodeunitID
	case OptionType:
		sv := source.(OptionType)
		return stringsEqual(sv.Values, tv.Values)
	case ArrayType:
		sv := source.(ArrayType)
		return intsEqual(sv.Dimensions, tv.Dimensions) && IsAssignmentCompatible(sv.ElementType, tv.ElementType)
	default:
		return false
	}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
