// Package layout computes node positions for the visible part of a tree.
//
// [Compute] runs the linear-time Reingold–Tilford algorithm of Buchheim,
// Jünger and Leipert (the "tidy tree"): siblings keep their input order left
// to right, each parent is centered over the midpoint of its first and last
// child, and subtrees are pushed apart only as far as needed so that no two
// nodes on the same level come closer than one breadth unit. The breadth
// axis is X and the depth axis is Y; both are scaled by [Options.NodeSize].
//
// The layout always runs from the synthetic super-root, so the dataset's
// top-level items are laid out as siblings. The super-root itself is not
// part of the result.
//
// # Normalization
//
// After the raw pass, coordinates are shifted so that the smallest X and Y
// over the visible nodes equal [Options.Margin] Left and Top. This happens on
// every call: expanding or collapsing changes the visible set and therefore
// the bounding box.
//
// # Determinism
//
// The result depends only on the current visible set and its order. There is
// no randomness and no dependency on earlier layouts.
package layout
