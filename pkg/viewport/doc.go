// Package viewport implements the pan/zoom transform of the diagram.
//
// A [Transform] maps diagram coordinates to container pixels as
// p*K + (X, Y). The [Controller] owns the live transform, clamps zoom to a
// scale extent, ignores double-click zoom, and remembers the fit-to-container
// transform computed on the first layout pass. [Controller.Reset] returns a
// [Tween] back to that remembered fit; it never recomputes a new one.
//
// Tweens follow the smooth zoom path described by van Wijk and Nuij, which
// zooms out while panning and back in on arrival, the same curve d3-zoom
// uses for animated transforms.
package viewport
