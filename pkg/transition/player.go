package transition

import (
	"time"

	"github.com/matzehuels/canopy/pkg/diff"
	"github.com/matzehuels/canopy/pkg/tree"
)

// Player runs one transition at a time against a clock supplied by the
// caller. A new diff played mid-flight starts from what is currently on
// screen rather than from the previous diff's settled positions.
type Player struct {
	Duration time.Duration
	Ease     Easing

	cur    diff.Diff
	start  time.Time
	active bool
}

// NewPlayer returns a player; zero duration means DefaultDuration.
func NewPlayer(duration time.Duration, ease Easing) *Player {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if ease == nil {
		ease = CubicInOut
	}
	return &Player{Duration: duration, Ease: ease}
}

// Play starts animating d at now and returns the diff actually played.
func (p *Player) Play(d diff.Diff, now time.Time) diff.Diff {
	if p.active && !p.Done(now) {
		d = retarget(d, p.cur, p.Frame(now))
	}
	p.cur = d
	p.start = now
	p.active = true
	return d
}

// Progress returns linear progress in [0,1].
func (p *Player) Progress(now time.Time) float64 {
	if !p.active {
		return 1
	}
	if p.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(p.start)) / float64(p.Duration)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Frame returns the scene at now.
func (p *Player) Frame(now time.Time) Frame {
	return At(p.cur, p.Progress(now), p.Ease)
}

// Done reports whether the current transition has finished.
func (p *Player) Done(now time.Time) bool { return p.Progress(now) >= 1 }

// Active reports whether anything was ever played.
func (p *Player) Active() bool { return p.active }

// retarget rewrites next so every element already on screen starts from
// its current state. Elements still exiting in prev that next no longer
// mentions keep exiting toward their old target.
func retarget(next, prev diff.Diff, now Frame) diff.Diff {
	out := next
	out.Nodes = make([]diff.NodeChange, 0, len(next.Nodes))
	mentioned := make(map[tree.ID]bool, len(next.Nodes))
	for _, n := range next.Nodes {
		mentioned[n.ID] = true
		if cur, ok := now.Node(n.ID); ok {
			n.From = cur.Pos
			n.FromOpacity = cur.Opacity
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, n := range prev.Nodes {
		if n.Phase != diff.Exit || mentioned[n.ID] {
			continue
		}
		if cur, ok := now.Node(n.ID); ok {
			n.From = cur.Pos
			n.FromOpacity = cur.Opacity
			out.Nodes = append(out.Nodes, n)
		}
	}

	out.Edges = make([]diff.EdgeChange, 0, len(next.Edges))
	mentioned = make(map[tree.ID]bool, len(next.Edges))
	for _, e := range next.Edges {
		mentioned[e.Key] = true
		if cur, ok := now.Edge(e.Key); ok {
			e.From = cur.Segment
		}
		out.Edges = append(out.Edges, e)
	}
	for _, e := range prev.Edges {
		if e.Phase != diff.Exit || mentioned[e.Key] {
			continue
		}
		if cur, ok := now.Edge(e.Key); ok {
			e.From = cur.Segment
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}
