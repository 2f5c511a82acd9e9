// Package widget is one collapsible tree component instance.
//
// A [Widget] owns the tree, the render scene, the transition player and the
// viewport controller, and drives them in the order every interaction
// follows: toggle a node, recompute the layout of the visible nodes,
// reconcile the scene, and start the animation. The viewport is fitted to
// the container on the first layout pass only.
//
// A Widget is single-threaded. Hosts that share one across goroutines, such
// as the HTTP server, serialize access themselves.
//
// Every diff is computed against the scene's settled target positions, never
// against values mid-animation, so the same sequence of toggles always
// yields the same sequence of diffs. The player retargets what is on screen.
package widget
