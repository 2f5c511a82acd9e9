package tree

import (
	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

// ID identifies a node for the lifetime of a Tree.
type ID int

// RootID is the ID of the synthetic super-root.
const RootID ID = 0

// NoParent is returned by Parent for the super-root.
const NoParent ID = -1

// RootName is the display name given to the super-root.
const RootName = "virtual_root"

// Item is one node of the static input structure.
type Item struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Metadata string `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	Children []Item `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Node is a read-only view of one arena entry.
type Node struct {
	ID       ID
	Name     string
	Metadata string
	Parent   ID
	Depth    int
	State    State

	kids []ID
}

// HasDescendants reports whether the node owns children, hidden or not.
func (n Node) HasDescendants() bool { return len(n.kids) > 0 }

// Children returns the visible children: populated only when Expanded.
func (n Node) Children() []ID {
	if n.State != Expanded {
		return nil
	}
	return n.kids
}

// HiddenChildren returns the hidden children: populated only when Collapsed.
func (n Node) HiddenChildren() []ID {
	if n.State != Collapsed {
		return nil
	}
	return n.kids
}

// Edge connects a visible parent to a visible child.
type Edge struct {
	Parent ID `json:"parent"`
	Child  ID `json:"child"`
}

// Key returns the identity used for diffing, the child's ID.
func (e Edge) Key() ID { return e.Child }

// Tree is an arena of nodes; index i holds the node with ID i.
type Tree struct {
	nodes []Node
}

// Build constructs a tree from the top-level items, attaching them to a
// synthetic super-root and assigning IDs in pre-order.
//
// Input is assumed to be well-formed; see the dataset package for
// validation of external input.
func Build(items []Item) *Tree {
	t := &Tree{}
	t.add(Item{Name: RootName, Children: items}, NoParent, 0)
	return t
}

func (t *Tree) add(it Item, parent ID, depth int) ID {
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		ID:       id,
		Name:     it.Name,
		Metadata: it.Metadata,
		Parent:   parent,
		Depth:    depth,
		State:    initialState(depth, len(it.Children) > 0),
	})
	if len(it.Children) == 0 {
		return id
	}
	kids := make([]ID, 0, len(it.Children))
	for _, c := range it.Children {
		kids = append(kids, t.add(c, id, depth+1))
	}
	t.nodes[id].kids = kids
	return id
}

// Len returns the number of nodes including the super-root.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID.
func (t *Tree) Node(id ID) (Node, bool) {
	if !t.valid(id) {
		return Node{}, false
	}
	return t.nodes[id], true
}

// Parent returns the parent ID, or NoParent for the super-root and unknown IDs.
func (t *Tree) Parent(id ID) ID {
	if !t.valid(id) {
		return NoParent
	}
	return t.nodes[id].Parent
}

// Depth returns the node depth; the super-root has depth 0.
func (t *Tree) Depth(id ID) int {
	if !t.valid(id) {
		return -1
	}
	return t.nodes[id].Depth
}

// Toggle flips the node between Expanded and Collapsed.
func (t *Tree) Toggle(id ID) error {
	if !t.valid(id) {
		return cerrors.New(cerrors.ErrCodeNodeNotFound, "no node with id %d", id)
	}
	if id == RootID {
		return cerrors.New(cerrors.ErrCodeNotInteractive, "the super-root cannot be toggled")
	}
	n := &t.nodes[id]
	next, ok := n.State.toggled()
	if !ok {
		return cerrors.New(cerrors.ErrCodeNotInteractive, "node %d (%s) is a leaf", id, n.Name)
	}
	n.State = next
	return nil
}

// IsVisible reports whether every ancestor of id is expanded. The
// super-root is never visible.
func (t *Tree) IsVisible(id ID) bool {
	if !t.valid(id) || id == RootID {
		return false
	}
	for p := t.nodes[id].Parent; p != RootID; p = t.nodes[p].Parent {
		if t.nodes[p].State != Expanded {
			return false
		}
	}
	return true
}

// Visible returns the nodes reachable from the super-root through expanded
// nodes, in pre-order, excluding the super-root.
func (t *Tree) Visible() []ID {
	var out []ID
	t.walkVisible(RootID, func(n *Node) {
		if n.ID != RootID {
			out = append(out, n.ID)
		}
	})
	return out
}

// Edges returns every parent/child pair among visible nodes, excluding the
// links that hang off the super-root.
func (t *Tree) Edges() []Edge {
	var out []Edge
	t.walkVisible(RootID, func(n *Node) {
		if n.ID == RootID {
			return
		}
		for _, c := range n.Children() {
			out = append(out, Edge{Parent: n.ID, Child: c})
		}
	})
	return out
}

// Walk visits every node in ID order, hidden or not, until fn returns false.
func (t *Tree) Walk(fn func(Node) bool) {
	for _, n := range t.nodes {
		if !fn(n) {
			return
		}
	}
}

func (t *Tree) walkVisible(id ID, fn func(*Node)) {
	n := &t.nodes[id]
	fn(n)
	for _, c := range n.Children() {
		t.walkVisible(c, fn)
	}
}

func (t *Tree) valid(id ID) bool { return id >= 0 && int(id) < len(t.nodes) }
