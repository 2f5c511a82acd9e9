package diff

import (
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/tree"
)

// Phase is the enter/update/exit classification of a keyed element.
type Phase string

// Phases.
const (
	Enter  Phase = "enter"
	Update Phase = "update"
	Exit   Phase = "exit"
)

// NodeChange describes how one node moves during a transition.
type NodeChange struct {
	ID          tree.ID    `json:"id"`
	Phase       Phase      `json:"phase"`
	From        geom.Point `json:"from"`
	To          geom.Point `json:"to"`
	FromOpacity float64    `json:"from_opacity"`
	ToOpacity   float64    `json:"to_opacity"`
}

// EdgeChange describes how one edge moves during a transition. Key is the
// child's ID.
type EdgeChange struct {
	Key    tree.ID      `json:"key"`
	Parent tree.ID      `json:"parent"`
	Phase  Phase        `json:"phase"`
	From   geom.Segment `json:"from"`
	To     geom.Segment `json:"to"`
}

// Diff is the structured output of one reconciliation.
type Diff struct {
	// Source is the node whose toggle caused the update; the super-root on
	// the first render.
	Source tree.ID `json:"source"`
	// EnterAnchor is where entering elements start.
	EnterAnchor geom.Point `json:"enter_anchor"`
	// ExitAnchor is where exiting elements end.
	ExitAnchor geom.Point   `json:"exit_anchor"`
	Nodes      []NodeChange `json:"nodes"`
	Edges      []EdgeChange `json:"edges"`
}

// Summary counts changes by phase.
type Summary struct {
	Entering      int `json:"entering"`
	Persisting    int `json:"persisting"`
	Exiting       int `json:"exiting"`
	EdgesEntering int `json:"edges_entering"`
	EdgesExiting  int `json:"edges_exiting"`
}

// Summary counts the node and edge changes.
func (d Diff) Summary() Summary {
	var s Summary
	for _, n := range d.Nodes {
		switch n.Phase {
		case Enter:
			s.Entering++
		case Update:
			s.Persisting++
		case Exit:
			s.Exiting++
		}
	}
	for _, e := range d.Edges {
		switch e.Phase {
		case Enter:
			s.EdgesEntering++
		case Exit:
			s.EdgesExiting++
		}
	}
	return s
}

// Entering returns the IDs of entering nodes.
func (d Diff) Entering() []tree.ID { return d.nodes(Enter) }

// Persisting returns the IDs of persisting nodes.
func (d Diff) Persisting() []tree.ID { return d.nodes(Update) }

// Exiting returns the IDs of exiting nodes.
func (d Diff) Exiting() []tree.ID { return d.nodes(Exit) }

// EdgeKeys returns the keys of edges in the given phase.
func (d Diff) EdgeKeys(p Phase) []tree.ID {
	var out []tree.ID
	for _, e := range d.Edges {
		if e.Phase == p {
			out = append(out, e.Key)
		}
	}
	return out
}

func (d Diff) nodes(p Phase) []tree.ID {
	var out []tree.ID
	for _, n := range d.Nodes {
		if n.Phase == p {
			out = append(out, n.ID)
		}
	}
	return out
}

// Classify partitions keys into entering (only in next), persisting (in
// both) and exiting (only in prev). Entering and persisting keep next's
// order; exiting keeps prev's order.
func Classify(prev, next []tree.ID) (enter, update, exit []tree.ID) {
	inPrev := make(map[tree.ID]bool, len(prev))
	for _, id := range prev {
		inPrev[id] = true
	}
	inNext := make(map[tree.ID]bool, len(next))
	for _, id := range next {
		inNext[id] = true
		if inPrev[id] {
			update = append(update, id)
		} else {
			enter = append(enter, id)
		}
	}
	for _, id := range prev {
		if !inNext[id] {
			exit = append(exit, id)
		}
	}
	return enter, update, exit
}
