package transition

import (
	"github.com/matzehuels/canopy/pkg/diff"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/tree"
)

// NodeFrame is a node's on-screen state at one instant.
type NodeFrame struct {
	ID      tree.ID    `json:"id"`
	Phase   diff.Phase `json:"phase"`
	Pos     geom.Point `json:"pos"`
	Opacity float64    `json:"opacity"`
}

// EdgeFrame is an edge's on-screen state at one instant.
type EdgeFrame struct {
	Key     tree.ID      `json:"key"`
	Parent  tree.ID      `json:"parent"`
	Phase   diff.Phase   `json:"phase"`
	Segment geom.Segment `json:"segment"`
	Path    string       `json:"path"`
}

// Frame is the full scene at one instant of a transition.
type Frame struct {
	Progress float64     `json:"progress"`
	Nodes    []NodeFrame `json:"nodes"`
	Edges    []EdgeFrame `json:"edges"`
}

// Node returns the frame of a node, if drawn.
func (f Frame) Node(id tree.ID) (NodeFrame, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeFrame{}, false
}

// Edge returns the frame of an edge by key, if drawn.
func (f Frame) Edge(key tree.ID) (EdgeFrame, bool) {
	for _, e := range f.Edges {
		if e.Key == key {
			return e, true
		}
	}
	return EdgeFrame{}, false
}

// At evaluates d at linear progress t. Once t reaches 1 exiting elements
// are removed.
func At(d diff.Diff, t float64, ease Easing) Frame {
	if ease == nil {
		ease = CubicInOut
	}
	t = geom.Clamp(t, 0, 1)
	k := ease(t)
	done := t >= 1
	if done {
		k = 1
	}

	f := Frame{Progress: t}
	f.Nodes = make([]NodeFrame, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if done && n.Phase == diff.Exit {
			continue
		}
		f.Nodes = append(f.Nodes, NodeFrame{
			ID:      n.ID,
			Phase:   n.Phase,
			Pos:     n.From.Lerp(n.To, k),
			Opacity: geom.Clamp(geom.Lerp(n.FromOpacity, n.ToOpacity, k), 0, 1),
		})
	}
	f.Edges = make([]EdgeFrame, 0, len(d.Edges))
	for _, e := range d.Edges {
		if done && e.Phase == diff.Exit {
			continue
		}
		seg := e.From.Lerp(e.To, k)
		f.Edges = append(f.Edges, EdgeFrame{Key: e.Key, Parent: e.Parent, Phase: e.Phase, Segment: seg, Path: seg.Path()})
	}
	return f
}

// Sample returns n frames evenly spaced over the transition, both ends
// included. n below 2 yields just the final frame.
func Sample(d diff.Diff, n int, ease Easing) []Frame {
	if n < 2 {
		return []Frame{At(d, 1, ease)}
	}
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = At(d, float64(i)/float64(n-1), ease)
	}
	return frames
}

// Settled reports whether f shows every element at rest.
func (f Frame) Settled() bool { return f.Progress >= 1 }
