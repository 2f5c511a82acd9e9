package geom

import "testing"

func TestLinkVertical(t *testing.T) {
	tests := []struct {
		name string
		s, t Point
		want string
	}{
		{"straight down", Point{10, 0}, Point{10, 100}, "M10,0C10,50,10,50,10,100"},
		{"diagonal", Point{0, 20}, Point{100, 120}, "M0,20C0,70,100,70,100,120"},
		{"degenerate", Point{5.5, 5.5}, Point{5.5, 5.5}, "M5.5,5.5C5.5,5.5,5.5,5.5,5.5,5.5"},
		{"negative zero", Point{-0.0001, 0}, Point{0, 0}, "M0,0C0,0,0,0,0,0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinkVertical(tt.s, tt.t); got != tt.want {
				t.Errorf("LinkVertical() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	a, b := Point{0, 10}, Point{100, 20}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != (Point{50, 15}) {
		t.Errorf("Lerp(0.5) = %v, want {50 15}", got)
	}
}

func TestSegmentLerp(t *testing.T) {
	from := Degenerate(Point{0, 0})
	to := Segment{Source: Point{0, 0}, Target: Point{10, 100}}
	mid := from.Lerp(to, 0.5)
	if mid.Target != (Point{5, 50}) {
		t.Errorf("mid target = %v, want {5 50}", mid.Target)
	}
	if mid.Source != (Point{0, 0}) {
		t.Errorf("mid source = %v, want origin", mid.Source)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0.1, 4); got != 4 {
		t.Errorf("Clamp(5) = %v, want 4", got)
	}
	if got := Clamp(0.01, 0.1, 4); got != 0.1 {
		t.Errorf("Clamp(0.01) = %v, want 0.1", got)
	}
	if got := Clamp(2, 0.1, 4); got != 2 {
		t.Errorf("Clamp(2) = %v, want 2", got)
	}
}

func TestSizeEmpty(t *testing.T) {
	if !(Size{}).Empty() {
		t.Error("zero size should be empty")
	}
	if (Size{W: 800, H: 600}).Empty() {
		t.Error("800x600 should not be empty")
	}
}
