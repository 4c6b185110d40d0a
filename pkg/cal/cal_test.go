package cal

import (
	"strings"
	"testing"
)

func TestParseReturnsDocument(t *testing.T) {
	source := `OBJECT Codeunit 50000 Sample
{
  CODE
  {
    PROCEDURE DoWork@1000();
    BEGIN
    END;
  }
}`

	doc := Parse(source)
	if doc.AST == nil {
		t.Fatal("Parse returned a Document with a nil AST")
	}
	if doc.AST.Object == nil {
		t.Fatal("Parse returned a Document with a nil Object")
	}
	if len(doc.Diagnostics) != 0 {
		t.Errorf("Parse of valid source produced diagnostics: %+v", doc.Diagnostics)
	}
}

func TestParseSanitizesReservedKeywordDiagnostic(t *testing.T) {
	source := `OBJECT Codeunit 50000 T
{
  CODE
  {
    VAR
      IF@1000 : Integer;
    BEGIN
    END.
  }
}`

	doc := Parse(source)
	if len(doc.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic for reserved-keyword variable name")
	}
	for _, d := range doc.Diagnostics {
		if strings.Contains(d.Message, "IF@1000") {
			t.Errorf("diagnostic message %q contains unsanitized raw lexeme", d.Message)
		}
	}
}

func TestHarvestRoundTrip(t *testing.T) {
	source := `OBJECT Codeunit 50000 Sample
{
  CODE
  {
    PROCEDURE DoWork@1000(Quantity@1001 : Integer);
    BEGIN
      Quantity := Quantity + 1;
    END;
  }
}`

	doc := Parse(source)
	syms := doc.Harvest()

	decl := syms.FindDeclaration("Quantity")
	if decl == nil {
		t.Fatal("FindDeclaration(Quantity) = nil")
	}
	if decl.Kind != "parameter" {
		t.Errorf("Quantity.Kind = %q, want parameter", decl.Kind)
	}
	if got := syms.ReferenceCountLabel("Quantity"); got != "2 references" {
		t.Errorf("ReferenceCountLabel(Quantity) = %q, want \"2 references\"", got)
	}
}

func TestResolveVariableTypeRoundTrip(t *testing.T) {
	source := `OBJECT Codeunit 50000 Sample
{
  CODE
  {
    VAR
      Cust@1000 : TEMPORARY Record 18;
  }
}`

	doc := Parse(source)
	v := doc.AST.Object.Code.Variables[0]

	typ := ResolveVariableType(v, ResolveOptions{})
	str := TypeToString(typ, true, 0)
	if str != "TEMPORARY Record 18" {
		t.Errorf("TypeToString = %q, want \"TEMPORARY Record 18\"", str)
	}
}
