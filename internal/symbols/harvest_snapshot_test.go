package symbols

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// renderTable formats a declaration table as one "kind name references"
// line per declaration, grouped by kind and naturally sorted within each
// kind (unlike cmd/calfront's `symbols` subcommand, which prints positions
// in harvest order), snapshotted here instead of reasserted field-by-field: any future drift in ordering, kind naming, or
// pluralization shows up as a snapshot diff.
func renderTable(table *Table) string {
	var b strings.Builder
	for _, kind := range []Kind{KindProcedure, KindParameter, KindVariable, KindTrigger, KindField} {
		for _, d := range table.SortedDeclarations(kind) {
			fmt.Fprintf(&b, "%-10s %-12s %s\n", d.Kind, d.Name, table.ReferenceCountLabel(d.Name))
		}
	}
	return b.String()
}

func TestHarvestSnapshot(t *testing.T) {
	source := `OBJECT Codeunit 50000 Sample
{
  CODE
  {
    VAR
      Counter@1000 : Integer;
      Total@1001 : Integer;

    PROCEDURE Increment@1002(Amount@1003 : Integer);
    BEGIN
      Counter := Counter + Amount;
      Total := Counter;
    END;

    PROCEDURE Reset@1004();
    BEGIN
      Counter := 0;
    END;
  }
}`

	table := parseDoc(t, source)
	snaps.MatchSnapshot(t, renderTable(table))
}
