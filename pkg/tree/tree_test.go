package tree

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

// small returns:
//
//	0 virtual_root
//	├─ 1 A
//	│  ├─ 2 A.1
//	│  └─ 3 A.2
//	│     └─ 4 A.2.1
//	│        └─ 5 A.2.1.1
//	└─ 6 B
func small() *Tree {
	return Build([]Item{
		{Name: "A", Metadata: "about A", Children: []Item{
			{Name: "A.1"},
			{Name: "A.2", Children: []Item{
				{Name: "A.2.1", Children: []Item{{Name: "A.2.1.1"}}},
			}},
		}},
		{Name: "B"},
	})
}

func TestBuildAssignsPreorderIDs(t *testing.T) {
	tr := small()
	want := []string{RootName, "A", "A.1", "A.2", "A.2.1", "A.2.1.1", "B"}
	if tr.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", tr.Len(), len(want))
	}
	for i, name := range want {
		n, ok := tr.Node(ID(i))
		if !ok {
			t.Fatalf("Node(%d) missing", i)
		}
		if n.Name != name {
			t.Errorf("Node(%d).Name = %q, want %q", i, n.Name, name)
		}
	}
	if got := tr.Parent(4); got != 3 {
		t.Errorf("Parent(4) = %d, want 3", got)
	}
	if got := tr.Parent(RootID); got != NoParent {
		t.Errorf("Parent(root) = %d, want NoParent", got)
	}
	if got := tr.Depth(5); got != 4 {
		t.Errorf("Depth(5) = %d, want 4", got)
	}
}

func TestInitialState(t *testing.T) {
	tr := small()
	tests := []struct {
		id   ID
		want State
	}{
		{RootID, Expanded},
		{1, Expanded},  // depth 1 with children
		{2, Leaf},      // leaf
		{3, Collapsed}, // depth 2 with children
		{4, Collapsed},
		{5, Leaf},
		{6, Leaf}, // depth 1 without children
	}
	for _, tt := range tests {
		n, _ := tr.Node(tt.id)
		if n.State != tt.want {
			t.Errorf("Node(%d).State = %v, want %v", tt.id, n.State, tt.want)
		}
	}
}

func TestVisibleAndEdgesAtLoad(t *testing.T) {
	tr := small()
	if diff := cmp.Diff([]ID{1, 2, 3, 6}, tr.Visible()); diff != "" {
		t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
	}
	wantEdges := []Edge{{Parent: 1, Child: 2}, {Parent: 1, Child: 3}}
	if diff := cmp.Diff(wantEdges, tr.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestToggle(t *testing.T) {
	tr := small()
	if err := tr.Toggle(3); err != nil {
		t.Fatalf("Toggle(3) error: %v", err)
	}
	n, _ := tr.Node(3)
	if n.State != Expanded {
		t.Fatalf("Node(3).State = %v, want expanded", n.State)
	}
	if diff := cmp.Diff([]ID{4}, n.Children()); diff != "" {
		t.Errorf("Children() mismatch (-want +got):\n%s", diff)
	}
	if n.HiddenChildren() != nil {
		t.Errorf("HiddenChildren() = %v, want nil", n.HiddenChildren())
	}
	if diff := cmp.Diff([]ID{1, 2, 3, 4, 6}, tr.Visible()); diff != "" {
		t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleErrors(t *testing.T) {
	tr := small()
	tests := []struct {
		name string
		id   ID
		code cerrors.Code
	}{
		{"unknown", 99, cerrors.ErrCodeNodeNotFound},
		{"negative", -1, cerrors.ErrCodeNodeNotFound},
		{"super-root", RootID, cerrors.ErrCodeNotInteractive},
		{"leaf", 2, cerrors.ErrCodeNotInteractive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tr.Toggle(tt.id)
			if !cerrors.Is(err, tt.code) {
				t.Errorf("Toggle(%d) error = %v, want code %s", tt.id, err, tt.code)
			}
		})
	}
}

func TestIsVisible(t *testing.T) {
	tr := small()
	tests := []struct {
		id   ID
		want bool
	}{
		{RootID, false},
		{1, true},
		{3, true},
		{4, false},
		{5, false},
		{6, true},
		{99, false},
	}
	for _, tt := range tests {
		if got := tr.IsVisible(tt.id); got != tt.want {
			t.Errorf("IsVisible(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}

	// A.2.1 stays hidden after expanding itself while A.2 is collapsed.
	if err := tr.Toggle(4); err != nil {
		t.Fatal(err)
	}
	if tr.IsVisible(5) {
		t.Error("IsVisible(5) = true under collapsed A.2")
	}
	if err := tr.Toggle(3); err != nil {
		t.Fatal(err)
	}
	if !tr.IsVisible(5) {
		t.Error("IsVisible(5) = false with every ancestor expanded")
	}
}

func TestStatePreservedAcrossParentCollapse(t *testing.T) {
	tr := small()
	mustToggle(t, tr, 3) // expand A.2
	mustToggle(t, tr, 4) // expand A.2.1
	before := tr.Expanded()

	mustToggle(t, tr, 1) // collapse A
	if diff := cmp.Diff([]ID{1, 6}, tr.Visible()); diff != "" {
		t.Errorf("Visible() after collapse mismatch (-want +got):\n%s", diff)
	}
	for _, id := range []ID{3, 4} {
		if n, _ := tr.Node(id); n.State != Expanded {
			t.Errorf("Node(%d).State = %v after ancestor collapse, want expanded", id, n.State)
		}
	}

	mustToggle(t, tr, 1) // re-expand A
	if diff := cmp.Diff(before, tr.Expanded()); diff != "" {
		t.Errorf("Expanded() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ID{1, 2, 3, 4, 5, 6}, tr.Visible()); diff != "" {
		t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
	}
}

func TestRestore(t *testing.T) {
	tr := small()
	if err := tr.Restore([]ID{3}); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if diff := cmp.Diff([]ID{3}, tr.Expanded()); diff != "" {
		t.Errorf("Expanded() mismatch (-want +got):\n%s", diff)
	}
	// A collapsed, so A.2 is expanded but not visible.
	if diff := cmp.Diff([]ID{1, 6}, tr.Visible()); diff != "" {
		t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
	}

	if err := tr.Restore([]ID{2}); !cerrors.Is(err, cerrors.ErrCodeNotInteractive) {
		t.Errorf("Restore(leaf) error = %v, want NOT_INTERACTIVE", err)
	}
	if err := tr.Restore([]ID{42}); !cerrors.Is(err, cerrors.ErrCodeNodeNotFound) {
		t.Errorf("Restore(unknown) error = %v, want NODE_NOT_FOUND", err)
	}
	if diff := cmp.Diff([]ID{3}, tr.Expanded()); diff != "" {
		t.Errorf("failed Restore() must not change state (-want +got):\n%s", diff)
	}
}

func TestEmptyTree(t *testing.T) {
	tr := Build(nil)
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
	if got := tr.Visible(); len(got) != 0 {
		t.Errorf("Visible() = %v, want empty", got)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Leaf: "leaf", Expanded: "expanded", Collapsed: "collapsed"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

// Properties

func TestPropertyIdentityAndPartition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		items := drawItems(rt, 0, "")
		tr := Build(items)

		names := make([]string, tr.Len())
		tr.Walk(func(n Node) bool {
			names[n.ID] = n.Name
			return true
		})

		toggles := rapid.SliceOfN(rapid.IntRange(1, tr.Len()-1), 0, 30).Draw(rt, "toggles")
		for _, id := range toggles {
			_ = tr.Toggle(ID(id))

			tr.Walk(func(n Node) bool {
				if names[n.ID] != n.Name {
					rt.Fatalf("node %d renamed from %q to %q", n.ID, names[n.ID], n.Name)
				}
				vis, hid := len(n.Children()) > 0, len(n.HiddenChildren()) > 0
				if n.HasDescendants() && vis == hid {
					rt.Fatalf("node %d: children=%v hidden=%v, want exactly one", n.ID, vis, hid)
				}
				if !n.HasDescendants() && n.ID != RootID && (vis || hid || n.State != Leaf) {
					rt.Fatalf("leaf %d has state %v", n.ID, n.State)
				}
				return true
			})
		}
	})
}

func TestPropertyStatePreservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := Build(drawItems(rt, 0, ""))
		toggles := rapid.SliceOfN(rapid.IntRange(1, tr.Len()-1), 0, 20).Draw(rt, "toggles")
		for _, id := range toggles {
			_ = tr.Toggle(ID(id))
		}

		id := ID(rapid.IntRange(1, tr.Len()-1).Draw(rt, "target"))
		parent := tr.Parent(id)
		if parent == RootID {
			return
		}
		before := tr.Expanded()
		if err := tr.Toggle(parent); err != nil {
			rt.Fatalf("Toggle(parent %d): %v", parent, err)
		}
		if err := tr.Toggle(parent); err != nil {
			rt.Fatalf("Toggle(parent %d): %v", parent, err)
		}
		if diff := cmp.Diff(before, tr.Expanded()); diff != "" {
			rt.Fatalf("state changed across hide/show (-want +got):\n%s", diff)
		}
	})
}

// drawItems draws a random forest at most five levels deep.
func drawItems(t *rapid.T, depth int, prefix string) []Item {
	lo, hi := 0, 4
	if depth == 0 {
		lo = 1
	}
	if depth >= 4 {
		hi = 0
	}
	n := rapid.IntRange(lo, hi).Draw(t, "n"+prefix)
	items := make([]Item, n)
	for i := range items {
		name := fmt.Sprintf("%s%d", prefix, i+1)
		items[i] = Item{Name: name, Children: drawItems(t, depth+1, name+".")}
	}
	return items
}

func mustToggle(t *testing.T, tr *Tree, id ID) {
	t.Helper()
	if err := tr.Toggle(id); err != nil {
		t.Fatalf("Toggle(%d) error: %v", id, err)
	}
}
