// Package geom holds the small amount of 2-D geometry shared by the layout,
// diff, transition and viewport packages.
package geom

import (
	"fmt"
	"math"
)

// Point is a position in diagram coordinates. X is the breadth axis and Y the
// depth axis.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{Lerp(p.X, q.X, t), Lerp(p.Y, q.Y, t)}
}

// Size is a width/height pair, typically a container's pixel dimensions.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Insets are per-side margins.
type Insets struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Segment is a directed connection between two points, used for edges.
type Segment struct {
	Source Point `json:"source"`
	Target Point `json:"target"`
}

// Degenerate returns the zero-length segment anchored at p.
func Degenerate(p Point) Segment { return Segment{Source: p, Target: p} }

// Lerp interpolates both endpoints.
func (s Segment) Lerp(o Segment, t float64) Segment {
	return Segment{Source: s.Source.Lerp(o.Source, t), Target: s.Target.Lerp(o.Target, t)}
}

// Path returns the segment as a vertical link curve.
func (s Segment) Path() string { return LinkVertical(s.Source, s.Target) }

// LinkVertical returns an SVG path for a smooth vertical link: a cubic Bézier
// whose control points share the vertical midpoint, so the curve leaves the
// source and enters the target vertically.
func LinkVertical(s, t Point) string {
	my := (s.Y + t.Y) / 2
	return fmt.Sprintf("M%s,%sC%s,%s,%s,%s,%s,%s",
		num(s.X), num(s.Y), num(s.X), num(my), num(t.X), num(my), num(t.X), num(t.Y))
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// num formats a coordinate compactly with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // normalize -0
	}
	return fmt.Sprintf("%g", v)
}
