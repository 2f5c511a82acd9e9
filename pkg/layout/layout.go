package layout

import (
	"math"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/tree"
)

// Defaults used by the widget.
const (
	DefaultNodeBreadth = 100.0
	DefaultNodeDepth   = 100.0
)

// DefaultMargin offsets the diagram's top-left corner and pads the surface.
var DefaultMargin = geom.Insets{Top: 20, Right: 120, Bottom: 40, Left: 120}

// Separation returns the distance, in breadth units, between two adjacent
// nodes on the same level.
type Separation func(a, b tree.Node) float64

// DefaultSeparation keeps siblings one unit apart and cousins two.
func DefaultSeparation(a, b tree.Node) float64 {
	if a.Parent == b.Parent {
		return 1
	}
	return 2
}

// FixedSeparation returns a Separation with constant sibling and cousin gaps.
func FixedSeparation(sibling, cousin float64) Separation {
	return func(a, b tree.Node) float64 {
		if a.Parent == b.Parent {
			return sibling
		}
		return cousin
	}
}

// Options configures a layout pass.
type Options struct {
	// NodeSize is the spacing per node: W along the breadth axis, H per level.
	NodeSize geom.Size
	// Margin is added after normalization; Right and Bottom only pad the surface.
	Margin geom.Insets
	// Separation defaults to DefaultSeparation.
	Separation Separation
}

// DefaultOptions returns 100x100 node spacing with the default margin.
func DefaultOptions() Options {
	return Options{
		NodeSize:   geom.Size{W: DefaultNodeBreadth, H: DefaultNodeDepth},
		Margin:     DefaultMargin,
		Separation: DefaultSeparation,
	}
}

func (o Options) withDefaults() Options {
	if o.NodeSize.W <= 0 {
		o.NodeSize.W = DefaultNodeBreadth
	}
	if o.NodeSize.H <= 0 {
		o.NodeSize.H = DefaultNodeDepth
	}
	if o.Separation == nil {
		o.Separation = DefaultSeparation
	}
	return o
}

// Result is the outcome of one layout pass.
type Result struct {
	// Positions holds the normalized position of every visible node.
	Positions map[tree.ID]geom.Point `json:"positions"`
	// Order lists the visible nodes in pre-order.
	Order []tree.ID `json:"order"`
	// Root is the super-root's normalized position. It is never drawn.
	Root geom.Point `json:"root"`
	// Bounds spans the visible node centers.
	Bounds geom.Rect `json:"bounds"`
	// Width and Height size the drawing surface: Bounds.Max plus the
	// right/bottom margins.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position returns the position of a visible node.
func (r Result) Position(id tree.ID) (geom.Point, bool) {
	p, ok := r.Positions[id]
	return p, ok
}

// Len returns the number of visible nodes.
func (r Result) Len() int { return len(r.Order) }

// Extent returns the full surface rectangle anchored at the origin.
func (r Result) Extent() geom.Rect {
	return geom.Rect{Max: geom.Point{X: r.Width, Y: r.Height}}
}

// Compute lays out the visible nodes of t.
func Compute(t *tree.Tree, opts Options) Result {
	opts = opts.withDefaults()

	root := build(t, tree.RootID, 0)
	top := &wnode{children: []*wnode{root}}
	root.parent = top

	w := walker{sep: opts.Separation}
	w.firstWalk(root)
	top.mod = -root.prelim
	w.secondWalk(root)

	raw := make(map[tree.ID]geom.Point, t.Len())
	var order []tree.ID
	minX, minY := math.Inf(1), math.Inf(1)
	root.each(func(v *wnode) {
		p := geom.Point{X: v.x * opts.NodeSize.W, Y: float64(v.node.Depth) * opts.NodeSize.H}
		raw[v.node.ID] = p
		if v.node.ID == tree.RootID {
			return
		}
		order = append(order, v.node.ID)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	})

	res := Result{
		Positions: make(map[tree.ID]geom.Point, len(order)),
		Order:     order,
	}
	if len(order) == 0 {
		res.Bounds = geom.Rect{
			Min: geom.Point{X: opts.Margin.Left, Y: opts.Margin.Top},
			Max: geom.Point{X: opts.Margin.Left, Y: opts.Margin.Top},
		}
		res.Root = res.Bounds.Min
		res.Width = opts.Margin.Left + opts.Margin.Right
		res.Height = opts.Margin.Top + opts.Margin.Bottom
		return res
	}

	// Subtract first so the extreme nodes land exactly on the margin.
	low := geom.Point{X: minX, Y: minY}
	margin := geom.Point{X: opts.Margin.Left, Y: opts.Margin.Top}
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, id := range order {
		p := raw[id].Sub(low).Add(margin)
		res.Positions[id] = p
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	res.Root = raw[tree.RootID].Sub(low).Add(margin)
	res.Bounds = geom.Rect{
		Min: geom.Point{X: opts.Margin.Left, Y: opts.Margin.Top},
		Max: geom.Point{X: maxX, Y: maxY},
	}
	res.Width = maxX + opts.Margin.Right
	res.Height = maxY + opts.Margin.Bottom
	return res
}

func build(t *tree.Tree, id tree.ID, index int) *wnode {
	n, _ := t.Node(id)
	v := &wnode{node: n, index: index}
	v.ancestor = v
	kids := n.Children()
	if len(kids) > 0 {
		v.children = make([]*wnode, len(kids))
		for i, c := range kids {
			child := build(t, c, i)
			child.parent = v
			v.children[i] = child
		}
	}
	return v
}
