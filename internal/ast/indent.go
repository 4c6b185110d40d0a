package ast

import "fmt"

// ControlDecl is one PAGE/REPORT CONTROLS entry: `{ id; indentLevel; kind ;
// propList }`, arranged into a parent/child forest by BuildIndentTree.
type ControlDecl struct {
	BaseNode
	ID          int
	IndentLevel int
	Kind        string // canonical control kind, e.g. "Container", "Group", "Field"
	RawKind     string // original lexeme, preserved verbatim when Kind fell back to a default
	Properties  *PropertyList
	Triggers    []*Trigger
	Children    []*ControlDecl
}

func (c *ControlDecl) String() string {
	return fmt.Sprintf("{%d;%d;%s}", c.ID, c.IndentLevel, c.Kind)
}

// Level and addChild let ControlDecl satisfy indentEntry for BuildIndentTree.
func (c *ControlDecl) Level() int                { return c.IndentLevel }
func (c *ControlDecl) addChild(e indentEntry)    { c.Children = append(c.Children, e.(*ControlDecl)) }

// ActionDecl is one PAGE ACTIONS entry: `{ id; indentLevel; kind ; propList }`.
type ActionDecl struct {
	BaseNode
	ID          int
	IndentLevel int
	Kind        string // canonical action kind, e.g. "ActionContainer", "Action", "Separator"
	RawKind     string
	Properties  *PropertyList
	Triggers    []*Trigger
	Children    []*ActionDecl
}

func (a *ActionDecl) String() string {
	return fmt.Sprintf("{%d;%d;%s}", a.ID, a.IndentLevel, a.Kind)
}

func (a *ActionDecl) Level() int             { return a.IndentLevel }
func (a *ActionDecl) addChild(e indentEntry) { a.Children = append(a.Children, e.(*ActionDecl)) }

// XMLportElementDecl is one XMLport ELEMENTS entry: `{ [{guid}]; indentLevel;
// name; nodeType; sourceType; propList }`.
type XMLportElementDecl struct {
	BaseNode
	GUID        string
	IndentLevel int
	Name        string
	NodeType    string // canonical node type, e.g. "Element", "Attribute"
	RawNodeType string
	SourceType  string // canonical source type, e.g. "Text", "Field", "Table"
	RawSourceType string
	Properties  *PropertyList
	Children    []*XMLportElementDecl
}

func (x *XMLportElementDecl) String() string {
	return fmt.Sprintf("{%s;%d;%s;%s;%s}", x.GUID, x.IndentLevel, x.Name, x.NodeType, x.SourceType)
}

func (x *XMLportElementDecl) Level() int { return x.IndentLevel }
func (x *XMLportElementDecl) addChild(e indentEntry) {
	x.Children = append(x.Children, e.(*XMLportElementDecl))
}

// indentEntry is the minimal shape BuildIndentTree needs: a level and a way
// to attach a popped-to child. Concrete *ControlDecl/*ActionDecl/
// *XMLportElementDecl each implement it over their own Children slice, so
// the single stack algorithm in §4.2.4/§4.3 is shared across all three
// sections without reflection or an interface{}-typed Children field.
type indentEntry interface {
	Level() int
	addChild(indentEntry)
}

// BuildIndentTree turns a flat, source-ordered list of leveled entries into
// a parent/child forest via the stack algorithm of spec.md §4.2.4:
//
//  1. While the stack top's level >= entry's level, pop.
//  2. If the stack is empty, the entry becomes a forest root; otherwise it
//     is appended to the new stack top's children.
//  3. Push the entry.
//
// Missing/negative levels are treated as 0 by the caller before entries
// reach this function. Complexity is O(n) amortized: each entry is pushed
// and popped at most once.
func BuildIndentTree[T indentEntry](entries []T) []T {
	type frame struct {
		level int
		entry T
	}
	var stack []frame
	var roots []T

	for _, e := range entries {
		for len(stack) > 0 && stack[len(stack)-1].level >= e.Level() {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, e)
		} else {
			stack[len(stack)-1].entry.addChild(e)
		}
		stack = append(stack, frame{level: e.Level(), entry: e})
	}
	return roots
}
