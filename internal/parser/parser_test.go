package parser

import (
	"testing"

	"github.com/klauskaan/cal-langserver/internal/ast"
)

func TestParseObjectHeader(t *testing.T) {
	source := `OBJECT Table 50000 Item
{
}
`
	doc, errs, skipped := Parse(source)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped regions: %+v", skipped)
	}
	if doc.Object == nil {
		t.Fatal("Object is nil")
	}
	if doc.Object.ObjectKind != ast.ObjectKindTable || doc.Object.ObjectID != 50000 || doc.Object.ObjectName != "Item" {
		t.Errorf("Object = %+v", doc.Object)
	}
}

func TestParseNoObjectHeader(t *testing.T) {
	doc, _, _ := Parse("// just a comment\n")
	if doc.Object != nil {
		t.Errorf("expected nil Object, got %+v", doc.Object)
	}
}

func TestParseFieldsSection(t *testing.T) {
	source := `OBJECT Table 50000 Item
{
  FIELDS
  {
    { 1   ;     ;No.         ;Code20        }
    { 2   ;     ;Description ;Text50        }
  }
}
`
	doc, errs, _ := Parse(source)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(doc.Object.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(doc.Object.Fields))
	}
	if doc.Object.Fields[0].Name != "No." {
		t.Errorf("field[0].Name = %q, want %q", doc.Object.Fields[0].Name, "No.")
	}
	if doc.Object.Fields[1].Name != "Description" {
		t.Errorf("field[1].Name = %q", doc.Object.Fields[1].Name)
	}
}

func TestParseFieldsEmptyNameError(t *testing.T) {
	source := `OBJECT Table 1 X
{
  FIELDS
  {
    { 1 ; ; ;Integer }
  }
}
`
	_, errs, _ := Parse(source)
	found := false
	for _, e := range errs {
		if e.Code == ErrEmptyFieldName {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrEmptyFieldName, got errors: %+v", errs)
	}
}

func TestParseUnknownSectionRecovers(t *testing.T) {
	source := `OBJECT Table 1 X
{
  BOGUS
  {
    garbage tokens here ;
  }
  FIELDS
  {
    { 1 ; ; F ; Integer }
  }
}
`
	doc, errs, skipped := Parse(source)

	foundUnknown := false
	for _, e := range errs {
		if e.Code == ErrUnknownSection {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Errorf("expected ErrUnknownSection, got: %+v", errs)
	}
	if len(skipped) == 0 {
		t.Error("expected at least one skipped region from recovery")
	}
	// Parsing must continue past the bad section and still pick up FIELDS.
	if len(doc.Object.Fields) != 1 {
		t.Fatalf("expected FIELDS to still be parsed, got %d fields", len(doc.Object.Fields))
	}
}

func TestParseMissingObjectID(t *testing.T) {
	source := `OBJECT Table Item
{
}
`
	doc, errs, _ := Parse(source)

	found := false
	for _, e := range errs {
		if e.Code == ErrExpectedObjectID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrExpectedObjectID, got: %+v", errs)
	}
	if doc.Object.ObjectID != 0 {
		t.Errorf("ObjectID = %d, want synthesized 0", doc.Object.ObjectID)
	}
}

func TestParseIsTotalNeverHalts(t *testing.T) {
	// Parsing must always return a Document, however malformed the input.
	inputs := []string{
		"",
		"OBJECT",
		"OBJECT Table",
		"OBJECT Table 1",
		"{{{{{{",
		"}}}}}}",
		"OBJECT Table 1 X { FIELDS { { { { {",
	}
	for _, src := range inputs {
		doc, _, _ := Parse(src)
		if doc == nil {
			t.Errorf("Parse(%q) returned nil Document", src)
		}
	}
}

func TestParseCodeVarSection(t *testing.T) {
	source := `OBJECT Codeunit 1 Demo
{
  CODE
  {
    VAR
      Qty@1000 : Integer;
      Rec@1001 : Record 18;

    PROCEDURE DoIt@1();
    BEGIN
      Qty := Qty + 1;
    END;
  }
}
`
	doc, errs, _ := Parse(source)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if doc.Object.Code == nil {
		t.Fatal("Code section is nil")
	}
	if len(doc.Object.Code.Variables) != 2 {
		t.Fatalf("expected 2 global variables, got %d", len(doc.Object.Code.Variables))
	}
	if doc.Object.Code.Variables[0].Name != "Qty" {
		t.Errorf("Variables[0].Name = %q", doc.Object.Code.Variables[0].Name)
	}
	if len(doc.Object.Code.Procedures) != 1 {
		t.Fatalf("expected 1 procedure, got %d", len(doc.Object.Code.Procedures))
	}
	if doc.Object.Code.Procedures[0].Name != "DoIt" {
		t.Errorf("Procedures[0].Name = %q", doc.Object.Code.Procedures[0].Name)
	}
}

func TestParseDataTypeRecordComposesTypeName(t *testing.T) {
	source := `OBJECT Codeunit 1 Demo
{
  CODE
  {
    VAR
      Object@1000 : Record 2000000001;
  }
}
`
	doc, errs, _ := Parse(source)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	vars := doc.Object.Code.Variables
	if len(vars) != 1 {
		t.Fatalf("expected 1 global variable, got %d", len(vars))
	}
	dt := vars[0].DataType
	if dt.TypeName != "Record 2000000001" {
		t.Errorf("DataType.TypeName = %q, want %q", dt.TypeName, "Record 2000000001")
	}
	if dt.TableID == nil || *dt.TableID != 2000000001 {
		t.Errorf("DataType.TableID = %v, want 2000000001", dt.TableID)
	}
}

func TestParseReservedKeywordAsNameSanitized(t *testing.T) {
	source := `OBJECT Codeunit 1 Demo
{
  CODE
  {
    VAR
      IF@1000 : Integer;
  }
}
`
	_, errs, _ := Parse(source)
	for _, e := range errs {
		if containsSubstring(e.Message, "IF@1000") {
			t.Errorf("diagnostic leaked raw token spelling: %q", e.Message)
		}
	}
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
