// Package svg draws transition frames of a tree as SVG documents.
//
// # Usage
//
//	f := w.Settled()
//	svg.Render(os.Stdout, w.Tree(), f,
//	    svg.WithTransform(w.Transform()),
//	    svg.WithSize(geom.Size{W: u.Layout.Width, H: u.Layout.Height}),
//	    svg.WithPopups())
//
// # Structure
//
// The document holds one viewport group carrying the pan/zoom transform.
// Inside it, a link group draws every edge as a vertical link curve, and a
// node group draws every node as a rounded 100x20 box (dark when the node
// has descendants, grey for leaves) with a centered label and a small
// metadata icon. Elements carry stable ids (node-<id>, link-<id>) and a
// data-id attribute so a client can map clicks back to tree IDs.
//
// [WithPopups] adds a hidden metadata popup per node, a reset-view control
// and a small script that wires them up, so a standalone file stays usable
// without a server.
//
// [Page] writes the HTML host page used by `canopy serve`.
package svg
