package ast

import (
	"testing"

	"github.com/klauskaan/cal-langserver/internal/lexer"
)

func TestObjectKindString(t *testing.T) {
	tests := []struct {
		kind ObjectKind
		want string
	}{
		{ObjectKindTable, "Table"},
		{ObjectKindPage, "Page"},
		{ObjectKindReport, "Report"},
		{ObjectKindCodeunit, "Codeunit"},
		{ObjectKindXMLport, "XMLport"},
		{ObjectKindQuery, "Query"},
		{ObjectKindUnknown, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestObjectKindFromToken(t *testing.T) {
	tests := []struct {
		tok  lexer.TokenType
		want ObjectKind
	}{
		{lexer.KW_TABLE, ObjectKindTable},
		{lexer.KW_CODEUNIT, ObjectKindCodeunit},
		{lexer.KW_QUERY, ObjectKindQuery},
		{lexer.IDENT, ObjectKindUnknown},
	}
	for _, tt := range tests {
		if got := ObjectKindFromToken(tt.tok); got != tt.want {
			t.Errorf("ObjectKindFromToken(%v) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}

func TestObjectDeclString(t *testing.T) {
	o := &ObjectDecl{ObjectKind: ObjectKindTable, ObjectID: 50000, ObjectName: "Item"}
	want := "OBJECT Table 50000 Item"
	if got := o.String(); got != want {
		t.Errorf("ObjectDecl.String() = %q, want %q", got, want)
	}
}

func TestDocumentStringNilObject(t *testing.T) {
	d := &Document{}
	if got := d.String(); got != "" {
		t.Errorf("Document.String() with nil Object = %q, want empty", got)
	}
}

func TestDocumentStringDelegatesToObject(t *testing.T) {
	d := &Document{Object: &ObjectDecl{ObjectKind: ObjectKindCodeunit, ObjectID: 1, ObjectName: "Demo"}}
	want := "OBJECT Codeunit 1 Demo"
	if got := d.String(); got != want {
		t.Errorf("Document.String() = %q, want %q", got, want)
	}
}

func TestPropertyString(t *testing.T) {
	p := &Property{Name: "Caption", Value: "Item"}
	if got := p.String(); got != "Caption=Item" {
		t.Errorf("Property.String() = %q", got)
	}
}

func TestPropertyStringWithTrigger(t *testing.T) {
	p := &Property{
		Name: "OnValidate",
		Trigger: &Trigger{
			Name: "OnValidate",
			Body: []Statement{},
		},
	}
	got := p.String()
	if got != "OnValidate=OnValidate()\nBEGIN\nEND" {
		t.Errorf("Property.String() with trigger = %q", got)
	}
}

func TestBaseNodePosEnd(t *testing.T) {
	start := lexer.Token{Kind: lexer.KW_OBJECT, Value: "OBJECT", Line: 1, Column: 1, StartOffset: 0, EndOffset: 6}
	end := lexer.Token{Kind: lexer.SEMICOLON, Value: ";", Line: 3, Column: 5, StartOffset: 40, EndOffset: 41}

	var b BaseNode
	b.SetStart(start)
	b.SetEnd(end)

	if b.Pos().Line != 1 || b.Pos().Column != 1 {
		t.Errorf("Pos() = %+v, want line 1 col 1", b.Pos())
	}
	if b.End().Line != 3 || b.End().Column != 6 {
		t.Errorf("End() = %+v, want line 3 col 6", b.End())
	}
	if b.TokenLiteral() != "OBJECT" {
		t.Errorf("TokenLiteral() = %q, want OBJECT", b.TokenLiteral())
	}
}
