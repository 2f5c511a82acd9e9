// Package pkg provides the core libraries for canopy, a collapsible
// node-link tree browser.
//
// # Overview
//
// A canopy tree is built from nested items. Top-level items hang from an
// invisible super-root; every node with children can be collapsed or expanded
// by a click, and each change animates from the old drawing to the new one.
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [tree], [layout], [diff], [transition], [viewport]
//  2. The interactive surface: [widget] and its renderers under [render]
//  3. Infrastructure: [config], [dataset], [session], [httputil],
//     [observability], [errors]
//
// # Architecture
//
// The data flow of one click:
//
//	tree.Toggle (expand or collapse a node)
//	         ↓
//	    [layout] package (tidy tree positions for the visible nodes)
//	         ↓
//	    [diff] package (enter/update/exit against the settled scene)
//	         ↓
//	    [transition] package (eased frames between old and new positions)
//	         ↓
//	    [render/svg] or [render/nodelink] output
//
// # Quick Start
//
//	w := widget.New(dataset.Sample(), widget.DefaultOptions())
//	w.Mount(ctx, widget.FixedSurface{W: 960, H: 600})
//	u, _ := w.Toggle(ctx, 6)
//	fmt.Println(u.Diff.Summary())
//	svg.Render(os.Stdout, w.Tree(), w.Settled(), svg.WithTransform(w.Transform()))
//
// # Main Packages
//
// [tree] - The node model. Items are numbered in pre-order; the super-root is
// id 0 and is never drawn. Depth-1 nodes with children start expanded, deeper
// ones start collapsed.
//
// [layout] - Tidy tree layout with a fixed node size and margins.
//
// [diff] - Keyed enter/update/exit classification of nodes and links, with
// the anchor points entering and exiting elements grow from and shrink into.
//
// [transition] - Easing, frame interpolation and a player that retargets
// animations still in flight.
//
// [viewport] - Zoom and pan transform, fitted to the container once, with an
// animated reset.
//
// [widget] - Ties the above together behind mount, toggle, inspect, zoom, pan
// and reset. Its state can be snapshotted and restored.
//
// [render] - SVG documents with metadata popups and a browser page, plus
// Graphviz DOT and PNG output.
//
// ## Infrastructure
//
// [session] - Widget snapshots in memory, on disk or in Redis.
//
// [dataset] - Reading and writing item trees as JSON, YAML or TOML.
//
// [config] - TOML configuration for layout, animation, viewport and server.
package pkg
