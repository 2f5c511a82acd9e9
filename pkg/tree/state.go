package tree

import (
	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

// State is the expand/collapse variant of a node.
type State uint8

const (
	// Leaf nodes have no children and are not interactive.
	Leaf State = iota
	// Expanded nodes show their children.
	Expanded
	// Collapsed nodes keep their children in the hidden slot.
	Collapsed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	default:
		return "leaf"
	}
}

func (s State) toggled() (State, bool) {
	switch s {
	case Expanded:
		return Collapsed, true
	case Collapsed:
		return Expanded, true
	default:
		return s, false
	}
}

// initialState: the super-root and depth-1 nodes open, deeper nodes closed.
func initialState(depth int, hasChildren bool) State {
	switch {
	case !hasChildren && depth > 0:
		return Leaf
	case depth <= 1:
		return Expanded
	default:
		return Collapsed
	}
}

// Expanded returns the IDs of every expanded node other than the super-root,
// in ID order. Together with [Tree.Restore] it captures the whole
// visibility partition.
func (t *Tree) Expanded() []ID {
	var out []ID
	for _, n := range t.nodes {
		if n.ID != RootID && n.State == Expanded {
			out = append(out, n.ID)
		}
	}
	return out
}

// Restore sets every non-leaf node to Expanded when listed and Collapsed
// otherwise. Unknown or leaf IDs are rejected before anything is changed.
func (t *Tree) Restore(expanded []ID) error {
	want := make(map[ID]bool, len(expanded))
	for _, id := range expanded {
		want[id] = true
		if !t.valid(id) {
			return cerrors.New(cerrors.ErrCodeNodeNotFound, "no node with id %d", id)
		}
		if t.nodes[id].State == Leaf {
			return cerrors.New(cerrors.ErrCodeNotInteractive, "node %d is a leaf", id)
		}
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.ID == RootID || n.State == Leaf {
			continue
		}
		if want[n.ID] {
			n.State = Expanded
		} else {
			n.State = Collapsed
		}
	}
	return nil
}
