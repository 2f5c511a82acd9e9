package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/canopy/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds node IDs, state and metadata to labels.
	// When false, only the node name is shown.
	Detailed bool
	// All includes hidden descendants of collapsed nodes, drawn dashed.
	All bool
}

// ToDOT converts the visible part of a tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Branch nodes are filled dark and leaves grey, as in the SVG renderer.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontname=\"sans-serif\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#555555\", arrowhead=none];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []tree.Edge
	t.Walk(func(n tree.Node) bool {
		if n.ID == tree.RootID {
			return true
		}
		hidden := !visible(t, n.ID)
		if hidden && !opts.All {
			return true
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed, hidden), ", "))
		if n.Parent != tree.RootID {
			edges = append(edges, tree.Edge{Parent: n.Parent, Child: n.ID})
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.Parent, e.Child)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// visible reports whether every ancestor of id is expanded.
func visible(t *tree.Tree, id tree.ID) bool {
	for p := t.Parent(id); p > tree.RootID; p = t.Parent(p) {
		if n, _ := t.Node(p); n.State != tree.Expanded {
			return false
		}
	}
	return true
}

func fmtLabel(n tree.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name, fmt.Sprintf("#%d %s", n.ID, n.State)}
	if n.Metadata != "" {
		parts = append(parts, n.Metadata)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n tree.Node, detailed, hidden bool) []string {
	fill := "#999999"
	if n.HasDescendants() {
		fill = "#555555"
	}
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed)), fmt.Sprintf("fillcolor=%q", fill)}
	if n.State == tree.Collapsed {
		attrs = append(attrs, "penwidth=2")
	}
	if hidden {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
