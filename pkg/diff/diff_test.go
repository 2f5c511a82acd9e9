package diff

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/tree"
)

// sample returns:
//
//	1 A            expanded
//	├─ 2 A.1
//	└─ 3 A.2       collapsed
//	   └─ 4 A.2.1  collapsed
//	      └─ 5 A.2.1.1
//	6 B
func sample() *tree.Tree {
	return tree.Build([]tree.Item{
		{Name: "A", Children: []tree.Item{
			{Name: "A.1"},
			{Name: "A.2", Children: []tree.Item{
				{Name: "A.2.1", Children: []tree.Item{{Name: "A.2.1.1"}}},
			}},
		}},
		{Name: "B"},
	})
}

func render(s *Scene, tr *tree.Tree, source tree.ID) (layout.Result, Diff) {
	res := layout.Compute(tr, layout.DefaultOptions())
	return res, s.Reconcile(res, tr.Edges(), source)
}

func sortIDs() cmp.Option {
	return cmpopts.SortSlices(func(a, b tree.ID) bool { return a < b })
}

func TestFirstRenderEntersEverything(t *testing.T) {
	s := NewScene(DefaultOptions())
	res, d := render(s, sample(), tree.RootID)

	if diff := cmp.Diff([]tree.ID{1, 2, 3, 6}, d.Entering()); diff != "" {
		t.Errorf("Entering() mismatch (-want +got):\n%s", diff)
	}
	if len(d.Persisting()) != 0 || len(d.Exiting()) != 0 {
		t.Errorf("first render persisting=%v exiting=%v, want none", d.Persisting(), d.Exiting())
	}
	anchor := DefaultOptions().DefaultAnchor
	for _, n := range d.Nodes {
		if n.From != anchor {
			t.Errorf("node %d enters from %v, want default anchor %v", n.ID, n.From, anchor)
		}
		if n.To != res.Positions[n.ID] {
			t.Errorf("node %d ends at %v, want %v", n.ID, n.To, res.Positions[n.ID])
		}
		if n.FromOpacity != 0 || n.ToOpacity != 1 {
			t.Errorf("node %d opacity %v -> %v, want 0 -> 1", n.ID, n.FromOpacity, n.ToOpacity)
		}
	}
	if got := d.EdgeKeys(Enter); !cmp.Equal(got, []tree.ID{2, 3}) {
		t.Errorf("entering edges = %v, want [2 3]", got)
	}
	if s.Len() != 4 {
		t.Errorf("scene Len() = %d, want 4", s.Len())
	}
}

func TestExpandRevealsChildren(t *testing.T) {
	tr := sample()
	s := NewScene(DefaultOptions())
	prev, _ := render(s, tr, tree.RootID)

	if err := tr.Toggle(3); err != nil {
		t.Fatal(err)
	}
	next, d := render(s, tr, 3)

	if diff := cmp.Diff([]tree.ID{4}, d.Entering()); diff != "" {
		t.Errorf("Entering() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]tree.ID{1, 2, 3, 6}, d.Persisting(), sortIDs()); diff != "" {
		t.Errorf("Persisting() mismatch (-want +got):\n%s", diff)
	}
	if len(d.Exiting()) != 0 {
		t.Errorf("Exiting() = %v, want none", d.Exiting())
	}
	if d.EnterAnchor != prev.Positions[3] {
		t.Errorf("EnterAnchor = %v, want source's previous position %v", d.EnterAnchor, prev.Positions[3])
	}
	for _, n := range d.Nodes {
		if n.Phase == Update && n.From != prev.Positions[n.ID] {
			t.Errorf("node %d moves from %v, want previous %v", n.ID, n.From, prev.Positions[n.ID])
		}
	}
	for _, e := range d.Edges {
		if e.Key != 4 {
			continue
		}
		if e.Phase != Enter || e.From != geom.Degenerate(prev.Positions[3]) {
			t.Errorf("edge 4 = %+v, want degenerate enter at source", e)
		}
		want := geom.Segment{Source: next.Positions[3], Target: next.Positions[4]}
		if e.To != want {
			t.Errorf("edge 4 To = %v, want %v", e.To, want)
		}
	}
}

func TestCollapseHidesDescendants(t *testing.T) {
	tr := sample()
	s := NewScene(DefaultOptions())
	if err := tr.Toggle(3); err != nil {
		t.Fatal(err)
	}
	prev, _ := render(s, tr, tree.RootID)

	if err := tr.Toggle(1); err != nil {
		t.Fatal(err)
	}
	next, d := render(s, tr, 1)

	if diff := cmp.Diff([]tree.ID{2, 3, 4}, d.Exiting()); diff != "" {
		t.Errorf("Exiting() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]tree.ID{1, 6}, d.Persisting()); diff != "" {
		t.Errorf("Persisting() mismatch (-want +got):\n%s", diff)
	}
	if len(d.Entering()) != 0 {
		t.Errorf("Entering() = %v, want none", d.Entering())
	}
	if d.ExitAnchor != next.Positions[1] {
		t.Errorf("ExitAnchor = %v, want source's new position %v", d.ExitAnchor, next.Positions[1])
	}
	for _, n := range d.Nodes {
		if n.Phase != Exit {
			continue
		}
		if n.From != prev.Positions[n.ID] || n.To != next.Positions[1] || n.ToOpacity != 0 {
			t.Errorf("exiting node %d = %+v", n.ID, n)
		}
	}
	if got := d.EdgeKeys(Exit); !cmp.Equal(got, []tree.ID{2, 3, 4}) {
		t.Errorf("exiting edges = %v, want [2 3 4]", got)
	}
	if _, ok := s.Position(4); ok {
		t.Error("scene still remembers exited node 4")
	}
}

func TestSummary(t *testing.T) {
	tr := sample()
	s := NewScene(DefaultOptions())
	render(s, tr, tree.RootID)
	if err := tr.Toggle(1); err != nil {
		t.Fatal(err)
	}
	_, d := render(s, tr, 1)
	want := Summary{Persisting: 2, Exiting: 2, EdgesExiting: 2}
	if got := d.Summary(); got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestResetForgetsScene(t *testing.T) {
	s := NewScene(DefaultOptions())
	render(s, sample(), tree.RootID)
	s.Reset()
	if s.Len() != 0 || len(s.RenderedEdges()) != 0 {
		t.Fatalf("Reset left %d nodes, %d edges", s.Len(), len(s.RenderedEdges()))
	}
	_, d := render(s, sample(), tree.RootID)
	if len(d.Persisting()) != 0 {
		t.Errorf("after Reset, Persisting() = %v, want none", d.Persisting())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name              string
		prev, next        []tree.ID
		enter, upd, exits []tree.ID
	}{
		{"empty", nil, nil, nil, nil, nil},
		{"all new", nil, []tree.ID{1, 2}, []tree.ID{1, 2}, nil, nil},
		{"all gone", []tree.ID{1, 2}, nil, nil, nil, []tree.ID{1, 2}},
		{"mixed", []tree.ID{1, 2, 3}, []tree.ID{1, 4, 3}, []tree.ID{4}, []tree.ID{1, 3}, []tree.ID{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, u, x := Classify(tt.prev, tt.next)
			if !cmp.Equal(e, tt.enter) || !cmp.Equal(u, tt.upd) || !cmp.Equal(x, tt.exits) {
				t.Errorf("Classify = %v %v %v, want %v %v %v", e, u, x, tt.enter, tt.upd, tt.exits)
			}
		})
	}
}

func TestReconcileCompletenessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := tree.Build(drawItems(t, 0, ""))
		s := NewScene(DefaultOptions())
		render(s, tr, tree.RootID)

		steps := rapid.IntRange(1, 8).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			visible := tr.Visible()
			var toggleable []tree.ID
			for _, id := range visible {
				if n, _ := tr.Node(id); n.HasDescendants() {
					toggleable = append(toggleable, id)
				}
			}
			if len(toggleable) == 0 {
				return
			}
			src := rapid.SampledFrom(toggleable).Draw(t, fmt.Sprintf("src%d", i))

			prev := s.Rendered()
			prevPos := map[tree.ID]geom.Point{}
			for _, id := range prev {
				prevPos[id], _ = s.Position(id)
			}
			if err := tr.Toggle(src); err != nil {
				t.Fatalf("Toggle(%d): %v", src, err)
			}
			next, d := render(s, tr, src)

			// Every element appears exactly once, in the phase set matching
			// its membership in prev and next.
			inPrev := set(prev)
			inNext := set(next.Order)
			seen := map[tree.ID]bool{}
			for _, n := range d.Nodes {
				if seen[n.ID] {
					t.Fatalf("node %d reported twice", n.ID)
				}
				seen[n.ID] = true
				var want Phase
				switch {
				case inPrev[n.ID] && inNext[n.ID]:
					want = Update
				case inNext[n.ID]:
					want = Enter
				default:
					want = Exit
				}
				if n.Phase != want {
					t.Fatalf("node %d phase %s, want %s", n.ID, n.Phase, want)
				}
				switch n.Phase {
				case Enter:
					if n.From != prevPos[src] {
						t.Fatalf("entering node %d from %v, want %v", n.ID, n.From, prevPos[src])
					}
				case Exit:
					if n.To != next.Positions[src] {
						t.Fatalf("exiting node %d to %v, want %v", n.ID, n.To, next.Positions[src])
					}
				}
			}
			if len(seen) != len(union(prev, next.Order)) {
				t.Fatalf("diff covers %d nodes, want %d", len(seen), len(union(prev, next.Order)))
			}
			if !cmp.Equal(s.Rendered(), next.Order, cmpopts.EquateEmpty()) {
				t.Fatalf("scene not updated to new layout")
			}
		}
	})
}

func set(ids []tree.ID) map[tree.ID]bool {
	m := make(map[tree.ID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func union(a, b []tree.ID) map[tree.ID]bool {
	m := set(a)
	for _, id := range b {
		m[id] = true
	}
	return m
}

func drawItems(t *rapid.T, depth int, prefix string) []tree.Item {
	lo, hi := 0, 3
	if depth == 0 {
		lo = 1
	}
	if depth >= 4 {
		hi = 0
	}
	n := rapid.IntRange(lo, hi).Draw(t, "n"+prefix)
	items := make([]tree.Item, n)
	for i := range items {
		name := fmt.Sprintf("%s%d", prefix, i+1)
		items[i] = tree.Item{Name: name, Children: drawItems(t, depth+1, name+".")}
	}
	return items
}
