package layout

import "github.com/matzehuels/canopy/pkg/tree"

// wnode carries the per-node bookkeeping of the tidy tree algorithm.
type wnode struct {
	node     tree.Node
	parent   *wnode
	children []*wnode
	index    int // position among siblings

	ancestor    *wnode
	defaultAnc  *wnode // default ancestor for apportioning the children
	thread      *wnode
	prelim, mod float64
	change      float64
	shift       float64

	x float64
}

func (v *wnode) each(fn func(*wnode)) {
	fn(v)
	for _, c := range v.children {
		c.each(fn)
	}
}

func (v *wnode) nextLeft() *wnode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func (v *wnode) nextRight() *wnode {
	if n := len(v.children); n > 0 {
		return v.children[n-1]
	}
	return v.thread
}

type walker struct {
	sep Separation
}

func (w walker) separation(a, b *wnode) float64 { return w.sep(a.node, b.node) }

// firstWalk computes preliminary x offsets bottom-up.
func (w walker) firstWalk(v *wnode) {
	for _, c := range v.children {
		w.firstWalk(c)
	}

	siblings := v.parent.children
	var left *wnode
	if v.index > 0 {
		left = siblings[v.index-1]
	}

	if n := len(v.children); n > 0 {
		executeShifts(v)
		mid := (v.children[0].prelim + v.children[n-1].prelim) / 2
		if left != nil {
			v.prelim = left.prelim + w.separation(v, left)
			v.mod = v.prelim - mid
		} else {
			v.prelim = mid
		}
	} else if left != nil {
		v.prelim = left.prelim + w.separation(v, left)
	}

	anc := v.parent.defaultAnc
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.defaultAnc = w.apportion(v, left, anc)
}

// secondWalk accumulates modifiers top-down into final x.
func (w walker) secondWalk(v *wnode) {
	v.x = v.prelim + v.parent.mod
	v.mod += v.parent.mod
	for _, c := range v.children {
		w.secondWalk(c)
	}
}

// apportion pushes the subtree rooted at v right until its left contour
// clears the right contour of every subtree to its left.
func (w walker) apportion(v, left, ancestor *wnode) *wnode {
	if left == nil {
		return ancestor
	}

	vip, vop := v, v
	vim := left
	vom := v.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod

	for {
		vim = vim.nextRight()
		vip = vip.nextLeft()
		if vim == nil || vip == nil {
			break
		}
		vom = vom.nextLeft()
		vop = vop.nextRight()
		vop.ancestor = v

		shift := vim.prelim + sim - vip.prelim - sip + w.separation(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}

	if vim != nil && vop.nextRight() == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && vom.nextLeft() == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

func moveSubtree(wm, wp *wnode, shift float64) {
	change := shift / float64(wp.index-wm.index)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

func executeShifts(v *wnode) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		c := v.children[i]
		c.prelim += shift
		c.mod += shift
		change += c.change
		shift += c.shift + change
	}
}

func nextAncestor(vim, v, ancestor *wnode) *wnode {
	if vim.ancestor.parent == v.parent {
		return vim.ancestor
	}
	return ancestor
}
