// Package diff reconciles successive layouts into enter/update/exit changes.
//
// A [Scene] is the render layer's memory. It holds, for every element drawn
// by the previous pass, only its stable key and last settled position; it
// never owns tree nodes. [Scene.Reconcile] compares that memory with a fresh
// layout and returns a [Diff]:
//
//   - Entering nodes start at the triggering node's previous position, fully
//     transparent, and move to their new position at full opacity.
//   - Persisting nodes move from their previous to their new position.
//   - Exiting nodes move to the triggering node's new position and fade out.
//
// Edges are keyed by their child's ID and follow the same partition. Entering
// and exiting edges grow from, or shrink into, a zero-length edge at the same
// anchors as the nodes.
//
// After reconciliation the scene stores the new positions, so diffs are
// always computed against the settled target state and never against an
// in-flight animation. The transition package decides how an animation
// already running on screen is retargeted.
package diff
