package symbols

import (
	"testing"

	"github.com/klauskaan/cal-langserver/internal/parser"
)

func parseDoc(t *testing.T, source string) *Table {
	t.Helper()
	doc, _, _ := parser.Parse(source)
	return Harvest(doc)
}

func TestHarvestDeclarationKinds(t *testing.T) {
	source := `OBJECT Codeunit 50000 Sample
{
  CODE
  {
    VAR
      Counter@1000 : Integer;

    PROCEDURE DoWork@1001(Quantity@1002 : Integer) : Integer;
    VAR
      Total@1003 : Integer;
    BEGIN
      Total := Quantity + Counter;
      EXIT(Total);
    END;

    BEGIN
    END.
  }
}`

	table := parseDoc(t, source)

	tests := []struct {
		name string
		kind Kind
	}{
		{"Counter", KindVariable},
		{"DoWork", KindProcedure},
		{"Quantity", KindParameter},
		{"Total", KindVariable},
	}

	for _, tt := range tests {
		d := table.FindDeclaration(tt.name)
		if d == nil {
			t.Errorf("FindDeclaration(%q) = nil, want a declaration", tt.name)
			continue
		}
		if d.Kind != tt.kind {
			t.Errorf("FindDeclaration(%q).Kind = %v, want %v", tt.name, d.Kind, tt.kind)
		}
	}
}

func TestHarvestReferenceCountsCaseInsensitive(t *testing.T) {
	source := `OBJECT Codeunit 50000 Sample
{
  CODE
  {
    PROCEDURE DoWork@1000(Quantity@1001 : Integer) : Integer;
    BEGIN
      Quantity := quantity + QUANTITY;
      EXIT(Quantity);
    END;
  }
}`

	table := parseDoc(t, source)

	// Quantity appears: target of :=, two operands of +, argument of EXIT = 4 occurrences.
	if got := table.ReferenceCount("Quantity"); got != 4 {
		t.Errorf("ReferenceCount(Quantity) = %d, want 4", got)
	}
	if got := table.ReferenceCount("QUANTITY"); got != 4 {
		t.Errorf("ReferenceCount(QUANTITY) = %d, want 4 (case-insensitive)", got)
	}
}

func TestHarvestReferenceCountPluralization(t *testing.T) {
	source := `OBJECT Codeunit 50000 Sample
{
  CODE
  {
    VAR
      Unused@1000 : Integer;
      Once@1001 : Integer;
      Twice@1002 : Integer;

    PROCEDURE DoWork@1003();
    BEGIN
      Once := 1;
      Twice := 1;
      Twice := Twice + 1;
    END;
  }
}`

	table := parseDoc(t, source)

	tests := []struct {
		name string
		want string
	}{
		{"Unused", "0 references"},
		{"Once", "1 reference"},
		{"Twice", "2 references"},
	}

	for _, tt := range tests {
		if got := table.ReferenceCountLabel(tt.name); got != tt.want {
			t.Errorf("ReferenceCountLabel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestHarvestFieldDeclarations(t *testing.T) {
	source := `OBJECT Table 50000 Sample
{
  FIELDS
  {
    { 1   ;   ;No.         ;Code20        }
    { 2   ;   ;Description ;Text50        }
  }
}`

	table := parseDoc(t, source)

	fields := table.DeclarationsByKind(KindField)
	if len(fields) != 2 {
		t.Fatalf("DeclarationsByKind(KindField) returned %d entries, want 2", len(fields))
	}
	if fields[0].Name != "No." || fields[1].Name != "Description" {
		t.Errorf("field names = %q, %q, want \"No.\", \"Description\"", fields[0].Name, fields[1].Name)
	}
}

func TestHarvestPropertyTriggerBody(t *testing.T) {
	source := `OBJECT Table 50000 Sample
{
  FIELDS
  {
    { 1 ; ; Quantity ; Integer ;
      OnValidate=BEGIN
                   Quantity := Quantity + 1;
                 END;
               }
  }
}`

	table := parseDoc(t, source)

	if got := table.ReferenceCount("Quantity"); got < 2 {
		t.Errorf("ReferenceCount(Quantity) = %d, want at least 2 from the OnValidate body", got)
	}
}

func TestSortedDeclarationsNaturalOrder(t *testing.T) {
	source := `OBJECT Table 50000 Sample
{
  FIELDS
  {
    { 1   ;   ;Field10      ;Integer       }
    { 2   ;   ;Field2       ;Integer       }
    { 3   ;   ;Field1       ;Integer       }
  }
}`

	table := parseDoc(t, source)
	sorted := table.SortedDeclarations(KindField)

	want := []string{"Field1", "Field2", "Field10"}
	if len(sorted) != len(want) {
		t.Fatalf("SortedDeclarations returned %d entries, want %d", len(sorted), len(want))
	}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Errorf("SortedDeclarations[%d] = %q, want %q", i, sorted[i].Name, name)
		}
	}
}

func TestHarvestNilDocument(t *testing.T) {
	table := Harvest(nil)
	if len(table.Declarations) != 0 {
		t.Errorf("Harvest(nil).Declarations = %v, want empty", table.Declarations)
	}
	if table.ReferenceCount("Anything") != 0 {
		t.Errorf("Harvest(nil).ReferenceCount = non-zero, want 0")
	}
}
