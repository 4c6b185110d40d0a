// Package semantic converts syntactic DataType nodes produced by the parser
// into tagged SemanticType values, and answers type-equality and
// assignment-compatibility questions over them.
package semantic

import (
	"fmt"
	"strings"
)

// Kind is the closed set of semantic type tags (spec.md §4.4).
type Kind int

const (
	KindPrimitive Kind = iota
	KindText
	KindRecord
	KindCodeunit
	KindOption
	KindArray
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindText:
		return "Text"
	case KindRecord:
		return "Record"
	case KindCodeunit:
		return "Codeunit"
	case KindOption:
		return "Option"
	case KindArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// Type is implemented by every semantic type variant.
type Type interface {
	Kind() Kind
	String() string
}

// PrimitiveType covers the fixed-shape scalar types: Integer, Decimal,
// Boolean, Date, Time, DateTime, Char, Byte, GUID, Duration, BigInteger.
type PrimitiveType struct {
	Name string // canonical spelling, e.g. "Integer"
}

func (PrimitiveType) Kind() Kind        { return KindPrimitive }
func (p PrimitiveType) String() string  { return p.Name }

// TextType covers both Text and Code, distinguished by IsCode.
type TextType struct {
	MaxLength *int
	IsCode    bool
}

func (TextType) Kind() Kind { return KindText }
func (t TextType) String() string {
	name := "Text"
	if t.IsCode {
		name = "Code"
	}
	if t.MaxLength != nil {
		return fmt.Sprintf("%s[%d]", name, *t.MaxLength)
	}
	return name
}

// RecordType is a table reference, with an optional TEMPORARY qualifier.
type RecordType struct {
	TableID     int
	TableName   string // left blank: resolving an id to a table's name requires cross-file lookup, a declared Non-goal
	IsTemporary bool
}

func (RecordType) Kind() Kind { return KindRecord }
func (r RecordType) String() string {
	s := fmt.Sprintf("Record %d", r.TableID)
	if r.IsTemporary {
		s = "TEMPORARY " + s
	}
	return s
}

// CodeunitType is a codeunit reference.
type CodeunitType struct {
	CodeunitID   int
	CodeunitName string
}

func (CodeunitType) Kind() Kind       { return KindCodeunit }
func (c CodeunitType) String() string { return fmt.Sprintf("Codeunit %d", c.CodeunitID) }

// OptionType carries the trimmed, non-empty option value list.
type OptionType struct {
	Values []string
}

func (OptionType) Kind() Kind { return KindOption }
func (o OptionType) String() string {
	return "Option " + strings.Join(o.Values, ",")
}

// ArrayType is an array of ElementType over the given dimensions.
// ElementType is always Unknown: full element-type sub-resolution is a
// future enhancement per spec.md §4.4.
type ArrayType struct {
	ElementType Type
	Dimensions  []int
}

func (ArrayType) Kind() Kind { return KindArray }
func (a ArrayType) String() string {
	dims := make([]string, len(a.Dimensions))
	for i, d := range a.Dimensions {
		dims[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("ARRAY[%s] OF %s", strings.Join(dims, ","), a.ElementType)
}

// UnknownType is the fallback for any typeName the resolver doesn't
// recognize, or a recognized prefix disqualified by the collision rule.
type UnknownType struct {
	Reason string
}

func (UnknownType) Kind() Kind        { return KindUnknown }
func (u UnknownType) String() string  { return "Unknown" }

// Factory constructors, per spec.md §6's "type factory constructors for
// each variant".
func NewPrimitive(name string) Type                        { return PrimitiveType{Name: name} }
func NewText(maxLength *int, isCode bool) Type              { return TextType{MaxLength: maxLength, IsCode: isCode} }
func NewRecord(tableID int, isTemporary bool) Type          { return RecordType{TableID: tableID, IsTemporary: isTemporary} }
func NewCodeunit(codeunitID int) Type                       { return CodeunitType{CodeunitID: codeunitID} }
func NewOption(values []string) Type                        { return OptionType{Values: values} }
func NewArray(elementType Type, dimensions []int) Type      { return ArrayType{ElementType: elementType, Dimensions: dimensions} }
func NewUnknown(reason string) Type                         { return UnknownType{Reason: reason} }
