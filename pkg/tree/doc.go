// Package tree provides the in-memory tree model behind the widget.
//
// A [Tree] is an arena of nodes indexed by a stable integer [ID]. IDs are
// assigned once, at [Build] time, by a pre-order walk that starts at a
// synthetic super-root (ID 0) whose children are the dataset's top-level
// items. The super-root is never rendered; it only gives the layout a single
// root.
//
// # Visibility
//
// Every node is in exactly one [State]:
//
//   - [Leaf]: no children; not interactive.
//   - [Expanded]: its children are visible (the children slot is populated).
//   - [Collapsed]: its children are hidden (the hidden-children slot is populated).
//
// The node keeps one child list and the state decides which slot it
// occupies, so "children and hidden children are mutually exclusive" cannot
// be violated. [Tree.Toggle] swaps Expanded and Collapsed on one node and
// never touches descendants, which is why a re-expanded subtree reappears
// exactly as it was left.
//
// At construction every depth-1 node with children is Expanded and every
// deeper node with children is Collapsed.
//
// # Concurrency
//
// A Tree is owned by a single widget instance and is not safe for concurrent
// mutation.
package tree
