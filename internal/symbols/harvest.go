package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/klauskaan/cal-langserver/internal/ast"
)

// Table is the result of harvesting one Document: every declaration found,
// plus how many times each declaration's name was referenced.
type Table struct {
	Declarations []*Declaration
	refCounts    map[string]int // keyed by strings.ToLower(name)
}

// Harvest walks doc and returns its declaration table (spec.md §4.6).
// A nil doc.Object (a document with no recognizable OBJECT header) yields
// an empty table.
func Harvest(doc *ast.Document) *Table {
	t := &Table{refCounts: make(map[string]int)}
	if doc == nil || doc.Object == nil {
		return t
	}

	h := &harvester{table: t}
	h.collectDeclarations(doc.Object)
	h.countReferences(doc.Object)
	return t
}

// FindDeclaration returns the first declaration matching name
// case-insensitively, or nil if there is none.
func (t *Table) FindDeclaration(name string) *Declaration {
	folded := strings.ToLower(name)
	for _, d := range t.Declarations {
		if strings.ToLower(d.Name) == folded {
			return d
		}
	}
	return nil
}

// DeclarationsByKind returns every declaration of the given kind, in
// harvest order.
func (t *Table) DeclarationsByKind(kind Kind) []*Declaration {
	var out []*Declaration
	for _, d := range t.Declarations {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// SortedDeclarations returns every declaration of the given kind ordered by
// natural sort (so Field2 comes before Field10), for editor-facing listings
// like an outline or a code lens summary.
func (t *Table) SortedDeclarations(kind Kind) []*Declaration {
	out := t.DeclarationsByKind(kind)
	sort.SliceStable(out, func(i, j int) bool {
		return natural.Less(out[i].Name, out[j].Name)
	})
	return out
}

// ReferenceCount returns how many times name was referenced, case-
// insensitively, across every scanned body. It does not require name to
// have a matching declaration.
func (t *Table) ReferenceCount(name string) int {
	return t.refCounts[strings.ToLower(name)]
}

// ReferenceCountLabel renders ReferenceCount(name) per spec.md §4.6's
// pluralization convention: "0 references", "1 reference", "N references".
func (t *Table) ReferenceCountLabel(name string) string {
	n := t.ReferenceCount(name)
	switch n {
	case 1:
		return "1 reference"
	default:
		return fmt.Sprintf("%d references", n)
	}
}

type harvester struct {
	table *Table
}

func (h *harvester) add(name string, kind Kind, n ast.Node) {
	h.table.Declarations = append(h.table.Declarations, newDeclaration(name, kind, rangeOf(n)))
}

// collectDeclarations walks every section of obj that can carry named
// entities: FIELDS, and CODE's global variables, procedures (with their
// parameters and locals), and object-level triggers (with their locals).
func (h *harvester) collectDeclarations(obj *ast.ObjectDecl) {
	for _, f := range obj.Fields {
		if f != nil {
			h.add(f.Name, KindField, f)
		}
	}

	if obj.Code == nil {
		return
	}

	for _, v := range obj.Code.Variables {
		if v != nil {
			h.add(v.Name, KindVariable, v)
		}
	}

	for _, proc := range obj.Code.Procedures {
		if proc == nil {
			continue
		}
		h.add(proc.Name, KindProcedure, proc)
		for _, param := range proc.Parameters {
			if param != nil {
				h.add(param.Name, KindParameter, param)
			}
		}
		for _, v := range proc.Variables {
			if v != nil {
				h.add(v.Name, KindVariable, v)
			}
		}
	}

	for _, trig := range obj.Code.Triggers {
		if trig == nil {
			continue
		}
		h.add(trig.Name, KindTrigger, trig)
		for _, v := range trig.Variables {
			if v != nil {
				h.add(v.Name, KindVariable, v)
			}
		}
	}
}

// countReferences scans every procedure body, every object-level trigger
// body, the object-level CODE body, and every property-trigger body for
// identifier occurrences, tallying each against its case-folded text.
func (h *harvester) countReferences(obj *ast.ObjectDecl) {
	h.scanPropertyList(obj.Properties)
	h.scanPropertyList(obj.ObjectProperties)

	for _, f := range obj.Fields {
		if f == nil {
			continue
		}
		h.scanPropertyList(f.Properties)
		for _, trig := range f.Triggers {
			h.scanStatements(trig.Body)
		}
	}
	for _, k := range obj.Keys {
		if k != nil {
			h.scanPropertyList(k.Properties)
		}
	}
	h.walkControls(obj.Controls)
	h.walkActions(obj.Actions)
	h.walkElements(obj.Elements)

	if obj.Code == nil {
		return
	}
	for _, proc := range obj.Code.Procedures {
		if proc != nil {
			h.scanStatements(proc.Body)
		}
	}
	for _, trig := range obj.Code.Triggers {
		if trig != nil {
			h.scanStatements(trig.Body)
		}
	}
	h.scanStatements(obj.Code.Body)
}

func (h *harvester) walkControls(controls []*ast.ControlDecl) {
	for _, c := range controls {
		if c == nil {
			continue
		}
		h.scanPropertyList(c.Properties)
		for _, trig := range c.Triggers {
			h.scanStatements(trig.Body)
		}
		h.walkControls(c.Children)
	}
}

func (h *harvester) walkActions(actions []*ast.ActionDecl) {
	for _, a := range actions {
		if a == nil {
			continue
		}
		h.scanPropertyList(a.Properties)
		for _, trig := range a.Triggers {
			h.scanStatements(trig.Body)
		}
		h.walkActions(a.Children)
	}
}

func (h *harvester) walkElements(elements []*ast.XMLportElementDecl) {
	for _, e := range elements {
		if e == nil {
			continue
		}
		h.scanPropertyList(e.Properties)
		h.walkElements(e.Children)
	}
}

func (h *harvester) scanPropertyList(pl *ast.PropertyList) {
	if pl == nil {
		return
	}
	for _, p := range pl.Properties {
		if p != nil && p.Trigger != nil {
			h.scanStatements(p.Trigger.Body)
		}
	}
}

func (h *harvester) record(ident *ast.Identifier) {
	if ident == nil || ident.Value == "" {
		return
	}
	h.table.refCounts[strings.ToLower(ident.Value)]++
}

func (h *harvester) scanStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		h.scanStatement(s)
	}
}

func (h *harvester) scanStatement(s ast.Statement) {
	switch v := s.(type) {
	case nil:
	case *ast.ExpressionStatement:
		h.scanExpr(v.Expression)
	case *ast.AssignStatement:
		h.scanExpr(v.Target)
		h.scanExpr(v.Value)
	case *ast.CompoundAssignStatement:
		h.scanExpr(v.Target)
		h.scanExpr(v.Value)
	case *ast.BlockStatement:
		h.scanStatements(v.Statements)
	case *ast.IfStatement:
		h.scanExpr(v.Condition)
		h.scanStatement(v.Then)
		h.scanStatement(v.Else)
	case *ast.CaseStatement:
		h.scanExpr(v.Selector)
		for _, br := range v.Branches {
			if br == nil {
				continue
			}
			for _, val := range br.Values {
				h.scanExpr(val)
			}
			h.scanStatement(br.Statement)
		}
		h.scanStatements(v.Else)
	case *ast.ForStatement:
		h.record(v.LoopVar)
		h.scanExpr(v.Start)
		h.scanExpr(v.Stop)
		h.scanStatement(v.Body)
	case *ast.WhileStatement:
		h.scanExpr(v.Condition)
		h.scanStatement(v.Body)
	case *ast.RepeatStatement:
		h.scanStatements(v.Body)
		h.scanExpr(v.Condition)
	case *ast.WithStatement:
		h.scanExpr(v.Record)
		h.scanStatement(v.Body)
	case *ast.ExitStatement:
		h.scanExpr(v.Value)
	case *ast.BreakStatement:
	}
}

func (h *harvester) scanExpr(e ast.Expression) {
	switch v := e.(type) {
	case nil:
	case *ast.Identifier:
		h.record(v)
	case *ast.IntegerLiteral, *ast.StringLiteral, *ast.BooleanLiteral:
	case *ast.GroupedExpression:
		h.scanExpr(v.Inner)
	case *ast.UnaryExpression:
		h.scanExpr(v.Operand)
	case *ast.BinaryExpression:
		h.scanExpr(v.Left)
		h.scanExpr(v.Right)
	case *ast.MemberAccessExpression:
		h.scanExpr(v.Object)
		h.record(v.Member)
	case *ast.ScopedAccessExpression:
		h.scanExpr(v.Object)
		h.record(v.Member)
	case *ast.IndexExpression:
		h.scanExpr(v.Array)
		h.scanExpr(v.Index)
	case *ast.CallExpression:
		h.scanExpr(v.Callee)
		for _, a := range v.Arguments {
			h.scanExpr(a)
		}
	case *ast.TernaryExpression:
		h.scanExpr(v.Condition)
		h.scanExpr(v.Then)
		h.scanExpr(v.Else)
	}
}
