package viewport

import (
	"math"
	"time"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/transition"
)

const (
	rho     = math.Sqrt2
	rho2    = 2.0
	rho4    = 4.0
	epsilon = 1e-6
)

// view is a window on the diagram: center (ux, uy) and width w, both in
// diagram units.
type view struct{ ux, uy, w float64 }

// smoothZoom returns the van Wijk and Nuij interpolator between two views.
func smoothZoom(a, b view) func(t float64) view {
	dx, dy := b.ux-a.ux, b.uy-a.uy
	d2 := dx*dx + dy*dy

	if d2 < epsilon*epsilon {
		s := math.Log(b.w/a.w) / rho
		return func(t float64) view {
			return view{a.ux + t*dx, a.uy + t*dy, a.w * math.Exp(rho*t*s)}
		}
	}

	d1 := math.Sqrt(d2)
	b0 := (b.w*b.w - a.w*a.w + rho4*d2) / (2 * a.w * rho2 * d1)
	b1 := (b.w*b.w - a.w*a.w - rho4*d2) / (2 * b.w * rho2 * d1)
	// log(sqrt(b*b+1) - b), written as -asinh(b) to stay finite for large b.
	r0 := -math.Asinh(b0)
	r1 := -math.Asinh(b1)
	s := (r1 - r0) / rho
	return func(t float64) view {
		st := t * s
		cr0 := math.Cosh(r0)
		u := a.w / (rho2 * d1) * (cr0*math.Tanh(rho*st+r0) - math.Sinh(r0))
		return view{a.ux + u*dx, a.uy + u*dy, a.w * cr0 / math.Cosh(rho*st+r0)}
	}
}

// Tween animates between two transforms within a container.
type Tween struct {
	From     Transform     `json:"from"`
	To       Transform     `json:"to"`
	Duration time.Duration `json:"duration"`

	center geom.Point
	size   float64
	ease   transition.Easing
	interp func(float64) view
}

func newTween(from, to Transform, container geom.Size, d time.Duration) Tween {
	tw := Tween{From: from, To: to, Duration: d, ease: transition.CubicInOut}
	tw.center = geom.Point{X: container.W / 2, Y: container.H / 2}
	tw.size = math.Max(container.W, container.H)
	if tw.size <= 0 {
		tw.size = 1
	}
	if from != to {
		a := from.Invert(tw.center)
		b := to.Invert(tw.center)
		tw.interp = smoothZoom(view{a.X, a.Y, tw.size / from.K}, view{b.X, b.Y, tw.size / to.K})
	}
	return tw
}

// Identity reports whether the tween does not move.
func (tw Tween) Identity() bool { return tw.From == tw.To }

// At returns the transform at linear progress t in [0,1], eased with
// CubicInOut. Both endpoints are returned exactly.
func (tw Tween) At(t float64) Transform {
	switch {
	case tw.Identity() || t <= 0:
		return tw.From
	case t >= 1:
		return tw.To
	}
	ease := tw.ease
	if ease == nil {
		ease = transition.CubicInOut
	}
	v := tw.interp(ease(t))
	k := tw.size / v.w
	return Transform{K: k, X: tw.center.X - v.ux*k, Y: tw.center.Y - v.uy*k}
}

// Sample returns n evenly spaced transforms including both endpoints.
func (tw Tween) Sample(n int) []Transform {
	if n < 2 {
		return []Transform{tw.To}
	}
	out := make([]Transform, n)
	for i := range out {
		out[i] = tw.At(float64(i) / float64(n-1))
	}
	return out
}
