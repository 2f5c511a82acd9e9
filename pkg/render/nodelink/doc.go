// Package nodelink renders trees as Graphviz node-link diagrams.
//
// This is the static counterpart of the animated SVG renderer: it draws the
// currently visible nodes as boxes connected top to bottom and leaves the
// layout to Graphviz.
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// With [Options].All, hidden descendants of collapsed nodes are included
// with dashed grey outlines, which is handy for inspecting a whole dataset.
//
// Rendering runs in-process through [github.com/goccy/go-graphviz].
package nodelink
