package diff

import (
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/tree"
)

// Options configures a Scene.
type Options struct {
	// DefaultAnchor is used when the triggering node has no previous
	// position, which is the case on the first render.
	DefaultAnchor geom.Point
}

// DefaultOptions anchors first-render entries at the layout margin.
func DefaultOptions() Options {
	return Options{DefaultAnchor: geom.Point{X: layout.DefaultMargin.Left, Y: layout.DefaultMargin.Top}}
}

// Scene remembers what the previous pass drew: keys and settled positions.
type Scene struct {
	opts Options

	order []tree.ID
	pos   map[tree.ID]geom.Point

	edgeOrder []tree.ID
	parents   map[tree.ID]tree.ID
}

// NewScene returns an empty scene.
func NewScene(opts Options) *Scene {
	return &Scene{
		opts:    opts,
		pos:     map[tree.ID]geom.Point{},
		parents: map[tree.ID]tree.ID{},
	}
}

// Len returns the number of rendered nodes.
func (s *Scene) Len() int { return len(s.order) }

// Rendered returns the rendered node keys in draw order.
func (s *Scene) Rendered() []tree.ID { return append([]tree.ID(nil), s.order...) }

// RenderedEdges returns the rendered edges in draw order.
func (s *Scene) RenderedEdges() []tree.Edge {
	out := make([]tree.Edge, len(s.edgeOrder))
	for i, k := range s.edgeOrder {
		out[i] = tree.Edge{Parent: s.parents[k], Child: k}
	}
	return out
}

// Position returns the settled position of a rendered node.
func (s *Scene) Position(id tree.ID) (geom.Point, bool) {
	p, ok := s.pos[id]
	return p, ok
}

// Reset forgets everything, as on unmount.
func (s *Scene) Reset() {
	s.order, s.edgeOrder = nil, nil
	s.pos = map[tree.ID]geom.Point{}
	s.parents = map[tree.ID]tree.ID{}
}

// Reconcile diffs the scene against a new layout and edge set, then stores
// the new positions. source is the node whose toggle triggered the update.
func (s *Scene) Reconcile(next layout.Result, edges []tree.Edge, source tree.ID) Diff {
	d := Diff{
		Source:      source,
		EnterAnchor: s.enterAnchor(source),
		ExitAnchor:  s.exitAnchor(next, source),
	}

	enter, update, exit := Classify(s.order, next.Order)
	d.Nodes = make([]NodeChange, 0, len(enter)+len(update)+len(exit))
	entering := make(map[tree.ID]bool, len(enter))
	for _, id := range enter {
		entering[id] = true
	}
	for _, id := range next.Order {
		to := next.Positions[id]
		if entering[id] {
			d.Nodes = append(d.Nodes, NodeChange{ID: id, Phase: Enter, From: d.EnterAnchor, To: to, FromOpacity: 0, ToOpacity: 1})
			continue
		}
		d.Nodes = append(d.Nodes, NodeChange{ID: id, Phase: Update, From: s.pos[id], To: to, FromOpacity: 1, ToOpacity: 1})
	}
	for _, id := range exit {
		d.Nodes = append(d.Nodes, NodeChange{ID: id, Phase: Exit, From: s.pos[id], To: d.ExitAnchor, FromOpacity: 1, ToOpacity: 0})
	}

	nextKeys := make([]tree.ID, len(edges))
	nextParents := make(map[tree.ID]tree.ID, len(edges))
	for i, e := range edges {
		nextKeys[i] = e.Key()
		nextParents[e.Key()] = e.Parent
	}
	_, _, edgeExit := Classify(s.edgeOrder, nextKeys)
	d.Edges = make([]EdgeChange, 0, len(edges)+len(edgeExit))
	for _, e := range edges {
		to := geom.Segment{Source: next.Positions[e.Parent], Target: next.Positions[e.Child]}
		if _, ok := s.parents[e.Key()]; ok {
			d.Edges = append(d.Edges, EdgeChange{Key: e.Key(), Parent: e.Parent, Phase: Update, From: s.segment(e.Key()), To: to})
			continue
		}
		d.Edges = append(d.Edges, EdgeChange{Key: e.Key(), Parent: e.Parent, Phase: Enter, From: geom.Degenerate(d.EnterAnchor), To: to})
	}
	for _, k := range edgeExit {
		d.Edges = append(d.Edges, EdgeChange{Key: k, Parent: s.parents[k], Phase: Exit, From: s.segment(k), To: geom.Degenerate(d.ExitAnchor)})
	}

	s.order = append([]tree.ID(nil), next.Order...)
	s.pos = make(map[tree.ID]geom.Point, len(next.Positions))
	for id, p := range next.Positions {
		s.pos[id] = p
	}
	s.edgeOrder = nextKeys
	s.parents = nextParents
	return d
}

func (s *Scene) segment(key tree.ID) geom.Segment {
	return geom.Segment{Source: s.pos[s.parents[key]], Target: s.pos[key]}
}

// enterAnchor is the source's previous position.
func (s *Scene) enterAnchor(source tree.ID) geom.Point {
	if p, ok := s.pos[source]; ok {
		return p
	}
	return s.opts.DefaultAnchor
}

// exitAnchor is the source's new position.
func (s *Scene) exitAnchor(next layout.Result, source tree.ID) geom.Point {
	if p, ok := next.Positions[source]; ok {
		return p
	}
	if source == tree.RootID && next.Len() > 0 {
		return next.Root
	}
	return s.opts.DefaultAnchor
}
