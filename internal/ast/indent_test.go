package ast

import "testing"

func mkControl(id, level int) *ControlDecl {
	return &ControlDecl{ID: id, IndentLevel: level}
}

// TestBuildIndentTreeContainerGroupField reproduces spec.md §8 scenario 1:
// a Container with one Group child containing one Field grandchild, followed
// by a second Group sibling of the first at level 1.
func TestBuildIndentTreeContainerGroupField(t *testing.T) {
	entries := []*ControlDecl{
		mkControl(1, 0), // Container
		mkControl(2, 1), // Group
		mkControl(3, 2), // Field
		mkControl(4, 1), // Group (second root-child sibling)
	}

	roots := BuildIndentTree(entries)
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}

	container := roots[0]
	if container.ID != 1 {
		t.Fatalf("root.ID = %d, want 1", container.ID)
	}
	if len(container.Children) != 2 {
		t.Fatalf("len(container.Children) = %d, want 2", len(container.Children))
	}

	firstGroup := container.Children[0]
	if firstGroup.ID != 2 {
		t.Errorf("container.Children[0].ID = %d, want 2", firstGroup.ID)
	}
	if len(firstGroup.Children) != 1 || firstGroup.Children[0].ID != 3 {
		t.Fatalf("container.Children[0].Children = %v, want [Field(3)]", firstGroup.Children)
	}

	secondGroup := container.Children[1]
	if secondGroup.ID != 4 {
		t.Errorf("container.Children[1].ID = %d, want 4", secondGroup.ID)
	}
	if len(secondGroup.Children) != 0 {
		t.Errorf("container.Children[1].Children = %v, want none", secondGroup.Children)
	}
}

// TestBuildIndentTreeDeepSpineThenPop reproduces spec.md §8 scenario 2: levels
// 0,1,2,3,4,5,1 produce a 5-deep spine plus a second level-1 sibling hanging
// off the root.
func TestBuildIndentTreeDeepSpineThenPop(t *testing.T) {
	levels := []int{0, 1, 2, 3, 4, 5, 1}
	entries := make([]*ControlDecl, len(levels))
	for i, lvl := range levels {
		entries[i] = mkControl(i+1, lvl)
	}

	roots := BuildIndentTree(entries)
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}

	// Walk the spine: each node has exactly one child, down to the level-5 leaf.
	node := roots[0]
	for depth := 1; depth <= 5; depth++ {
		if len(node.Children) == 0 {
			t.Fatalf("spine broke at depth %d: node %d has no children", depth, node.ID)
		}
		node = node.Children[0]
		if node.IndentLevel != depth {
			t.Errorf("spine node at depth %d has IndentLevel %d, want %d", depth, node.IndentLevel, depth)
		}
	}
	if len(node.Children) != 0 {
		t.Errorf("deepest spine node has children %v, want none", node.Children)
	}

	// The trailing level-1 entry must pop all the way back to root's children,
	// landing as a second sibling of the first level-1 node.
	if len(roots[0].Children) != 2 {
		t.Fatalf("len(roots[0].Children) = %d, want 2", len(roots[0].Children))
	}
	second := roots[0].Children[1]
	if second.ID != 7 || second.IndentLevel != 1 {
		t.Errorf("roots[0].Children[1] = %+v, want ID=7 IndentLevel=1", second)
	}
}

func TestBuildIndentTreeEmpty(t *testing.T) {
	roots := BuildIndentTree([]*ControlDecl{})
	if len(roots) != 0 {
		t.Errorf("BuildIndentTree(nil) = %v, want empty", roots)
	}
}

func TestBuildIndentTreeAllSiblings(t *testing.T) {
	entries := []*ControlDecl{mkControl(1, 0), mkControl(2, 0), mkControl(3, 0)}
	roots := BuildIndentTree(entries)
	if len(roots) != 3 {
		t.Fatalf("len(roots) = %d, want 3 (all siblings at level 0)", len(roots))
	}
	for _, r := range roots {
		if len(r.Children) != 0 {
			t.Errorf("root %d has children %v, want none", r.ID, r.Children)
		}
	}
}
