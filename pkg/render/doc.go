// Package render groups the output backends for canopy trees.
//
//   - [svg] draws transition frames with the viewport transform, metadata
//     popups and the HTML host page used by the server.
//   - [nodelink] exports the visible tree as Graphviz DOT, SVG or PNG.
//
// Both backends read a [tree.Tree]; the svg backend also takes a
// [transition.Frame] so it can draw any point of an animation.
//
// [svg]: github.com/matzehuels/canopy/pkg/render/svg
// [nodelink]: github.com/matzehuels/canopy/pkg/render/nodelink
// [tree.Tree]: github.com/matzehuels/canopy/pkg/tree
// [transition.Frame]: github.com/matzehuels/canopy/pkg/transition
package render
