package viewport

import (
	"fmt"
	"math"

	"github.com/matzehuels/canopy/pkg/geom"
)

// Transform is a uniform scale followed by a translation.
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the unit transform.
var Identity = Transform{K: 1}

// Apply maps a diagram point to container space.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a container point to diagram space.
func (t Transform) Invert(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Translate shifts the transform by (dx, dy) container pixels.
func (t Transform) Translate(dx, dy float64) Transform {
	return Transform{K: t.K, X: t.X + dx, Y: t.Y + dy}
}

// ScaleAround rescales to k while keeping the container point p fixed.
func (t Transform) ScaleAround(k float64, p geom.Point) Transform {
	w := t.Invert(p)
	return Transform{K: k, X: p.X - w.X*k, Y: p.Y - w.Y*k}
}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.X), num(t.Y), num(t.K))
}

// ApproxEqual compares transforms within eps.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return math.Abs(t.K-o.K) <= eps && math.Abs(t.X-o.X) <= eps && math.Abs(t.Y-o.Y) <= eps
}

func num(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		v = 0
	}
	return fmt.Sprintf("%g", v)
}

// Fit scales and centers content inside container, using the smaller of
// the two axis scales and clamping it to [minK, maxK]. A content rect with
// no extent on either axis keeps scale 1 before clamping.
func Fit(content geom.Rect, container geom.Size, minK, maxK float64) Transform {
	w, h := content.Width(), content.Height()
	k := math.Inf(1)
	if w > 0 {
		k = container.W / w
	}
	if h > 0 {
		k = math.Min(k, container.H/h)
	}
	if math.IsInf(k, 1) {
		k = 1
	}
	k = geom.Clamp(k, minK, maxK)
	return Transform{
		K: k,
		X: (container.W-w*k)/2 - content.Min.X*k,
		Y: (container.H-h*k)/2 - content.Min.Y*k,
	}
}
