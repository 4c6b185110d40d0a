// Package ast defines the Abstract Syntax Tree node types for C/AL object
// definitions: the Document root, its object-kind-dispatched sections, and
// the embedded procedural-language statements and expressions.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// Node is the base interface every AST node implements. Every node carries
// its start and end token so the boundary between the AST and raw source
// can always be reconstructed numerically, never by retaining source text.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
	End() lexer.Position
}

// Expression is any node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without yielding a value.
type Statement interface {
	Node
	statementNode()
}

// BaseNode supplies the common Pos/End/TokenLiteral implementation every
// concrete node embeds. StartTok/EndTok are set by the parser's NodeBuilder.
type BaseNode struct {
	StartTok lexer.Token
	EndTok   lexer.Token
}

func (b BaseNode) Pos() lexer.Position  { return b.StartTok.Pos() }
func (b BaseNode) End() lexer.Position  { return b.EndTok.End() }
func (b BaseNode) TokenLiteral() string { return b.StartTok.Value }
func (b BaseNode) StartToken() lexer.Token { return b.StartTok }
func (b *BaseNode) SetStart(t lexer.Token) { b.StartTok = t }
func (b *BaseNode) SetEnd(t lexer.Token)   { b.EndTok = t }

// Ranged is implemented by every node via BaseNode; the parser's
// NodeBuilder uses it to stamp start/end tokens without a type switch per
// node kind.
type Ranged interface {
	SetStart(lexer.Token)
	SetEnd(lexer.Token)
}

// ObjectKind enumerates the recognized OBJECT header kinds.
type ObjectKind int

const (
	ObjectKindUnknown ObjectKind = iota
	ObjectKindTable
	ObjectKindPage
	ObjectKindReport
	ObjectKindCodeunit
	ObjectKindXMLport
	ObjectKindQuery
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectKindTable:
		return "Table"
	case ObjectKindPage:
		return "Page"
	case ObjectKindReport:
		return "Report"
	case ObjectKindCodeunit:
		return "Codeunit"
	case ObjectKindXMLport:
		return "XMLport"
	case ObjectKindQuery:
		return "Query"
	default:
		return "Unknown"
	}
}

// ObjectKindFromToken maps a lexer object-kind keyword token to an ObjectKind.
func ObjectKindFromToken(t lexer.TokenType) ObjectKind {
	switch t {
	case lexer.KW_TABLE:
		return ObjectKindTable
	case lexer.KW_PAGE:
		return ObjectKindPage
	case lexer.KW_REPORT:
		return ObjectKindReport
	case lexer.KW_CODEUNIT:
		return ObjectKindCodeunit
	case lexer.KW_XMLPORT:
		return ObjectKindXMLport
	case lexer.KW_QUERY:
		return ObjectKindQuery
	default:
		return ObjectKindUnknown
	}
}

// Document is the AST root. Object is nil when the source contains no
// recognizable OBJECT header at all (an empty or wholly-garbage document).
type Document struct {
	BaseNode
	Object *ObjectDecl
}

func (d *Document) String() string {
	if d.Object == nil {
		return ""
	}
	return d.Object.String()
}

// ObjectDecl is the OBJECT header plus the section collections the source
// contained. Elements is populated only for XMLport objects; every other
// collection is populated whenever its section appears, whatever the
// ObjectKind, and sections that do not appear remain nil.
type ObjectDecl struct {
	BaseNode
	ObjectKind ObjectKind
	ObjectID   int
	ObjectName string

	Properties       *PropertyList
	ObjectProperties *PropertyList

	Fields      []*FieldDecl
	Keys        []*KeyDecl
	FieldGroups []*FieldGroupDecl

	Controls []*ControlDecl
	Actions  []*ActionDecl
	Elements []*XMLportElementDecl

	Code *CodeSection
}

func (o *ObjectDecl) String() string {
	return fmt.Sprintf("OBJECT %s %d %s", o.ObjectKind, o.ObjectID, o.ObjectName)
}

// PropertyList is an ordered sequence of name/value properties, some of
// which may carry a parsed Trigger body instead of a plain string value.
type PropertyList struct {
	BaseNode
	Properties []*Property
}

func (pl *PropertyList) String() string {
	var b bytes.Buffer
	for _, p := range pl.Properties {
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Property is a single Name=Value entry, or Name=Trigger when the value is
// a BEGIN...END body rather than a literal string.
type Property struct {
	BaseNode
	Name    string
	Value   string
	Trigger *Trigger // non-nil when the property value is a trigger body
}

func (p *Property) String() string {
	if p.Trigger != nil {
		return fmt.Sprintf("%s=%s", p.Name, p.Trigger.String())
	}
	return fmt.Sprintf("%s=%s", p.Name, p.Value)
}

// Trigger is a named procedural body (OnValidate, OnInsert, a property
// trigger, or an object-level trigger), with its own local variables.
type Trigger struct {
	BaseNode
	Name      string
	Variables []*VariableDecl
	Body      []Statement
}

func (t *Trigger) String() string {
	var b bytes.Buffer
	b.WriteString(t.Name)
	b.WriteString("()\nBEGIN\n")
	for _, s := range t.Body {
		b.WriteString("  ")
		b.WriteString(strings.ReplaceAll(s.String(), "\n", "\n  "))
		b.WriteString("\n")
	}
	b.WriteString("END")
	return b.String()
}
