package viewport

import (
	"time"

	"github.com/matzehuels/canopy/pkg/geom"
)

// Default zoom extent and reset duration.
const (
	DefaultMinScale      = 0.1
	DefaultMaxScale      = 4.0
	DefaultResetDuration = 750 * time.Millisecond
)

// Options configures a Controller.
type Options struct {
	MinScale      float64       `toml:"min_scale" json:"min_scale"`
	MaxScale      float64       `toml:"max_scale" json:"max_scale"`
	ResetDuration time.Duration `toml:"-" json:"reset_duration"`
}

// DefaultOptions returns the 0.1x to 4x extent with a 750ms reset.
func DefaultOptions() Options {
	return Options{MinScale: DefaultMinScale, MaxScale: DefaultMaxScale, ResetDuration: DefaultResetDuration}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinScale <= 0 {
		o.MinScale = d.MinScale
	}
	if o.MaxScale <= 0 {
		o.MaxScale = d.MaxScale
	}
	if o.MaxScale < o.MinScale {
		o.MinScale, o.MaxScale = o.MaxScale, o.MinScale
	}
	if o.ResetDuration <= 0 {
		o.ResetDuration = d.ResetDuration
	}
	return o
}

// Controller owns the live transform of one diagram.
type Controller struct {
	opts      Options
	container geom.Size
	cur       Transform
	fit       Transform
	fitted    bool
}

// NewController returns a controller at the identity transform.
func NewController(opts Options) *Controller {
	return &Controller{opts: opts.withDefaults(), cur: Identity}
}

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// FitOnce computes the fit-to-container transform on its first call and
// applies it. Later calls change nothing and return false.
func (c *Controller) FitOnce(content geom.Rect, container geom.Size) (Transform, bool) {
	if c.fitted {
		return c.cur, false
	}
	c.container = container
	c.fit = Fit(content, container, c.opts.MinScale, c.opts.MaxScale)
	c.cur = c.fit
	c.fitted = true
	return c.cur, true
}

// Fitted returns the remembered fit transform.
func (c *Controller) Fitted() (Transform, bool) { return c.fit, c.fitted }

// Transform returns the live transform.
func (c *Controller) Transform() Transform { return c.cur }

// Container returns the container size recorded at fit time or by Resize.
func (c *Controller) Container() geom.Size { return c.container }

// Resize records a new container size. It does not refit.
func (c *Controller) Resize(container geom.Size) { c.container = container }

// Pan moves the diagram by (dx, dy) container pixels.
func (c *Controller) Pan(dx, dy float64) Transform {
	c.cur = c.cur.Translate(dx, dy)
	return c.cur
}

// ZoomBy multiplies the scale by factor around the container point anchor.
func (c *Controller) ZoomBy(factor float64, anchor geom.Point) Transform {
	if factor <= 0 {
		return c.cur
	}
	return c.ZoomTo(c.cur.K*factor, anchor)
}

// ZoomTo sets the scale to k, clamped to the extent, around anchor.
func (c *Controller) ZoomTo(k float64, anchor geom.Point) Transform {
	k = geom.Clamp(k, c.opts.MinScale, c.opts.MaxScale)
	c.cur = c.cur.ScaleAround(k, anchor)
	return c.cur
}

// SetTransform replaces the live transform, clamping its scale.
func (c *Controller) SetTransform(t Transform) Transform {
	if t.K <= 0 {
		t.K = c.cur.K
	}
	t.K = geom.Clamp(t.K, c.opts.MinScale, c.opts.MaxScale)
	c.cur = t
	return c.cur
}

// DoubleClick is ignored: double-click zoom is disabled.
func (c *Controller) DoubleClick(geom.Point) Transform { return c.cur }

// Reset returns a tween from the live transform back to the remembered fit
// and makes the fit the live transform. Before any fit it returns an
// identity tween.
func (c *Controller) Reset() Tween {
	if !c.fitted {
		return newTween(c.cur, c.cur, c.container, c.opts.ResetDuration)
	}
	tw := newTween(c.cur, c.fit, c.container, c.opts.ResetDuration)
	c.cur = c.fit
	return tw
}

// Restore reinstates a previously saved state.
func (c *Controller) Restore(live, fit Transform, fitted bool, container geom.Size) {
	c.cur, c.fit, c.fitted, c.container = live, fit, fitted, container
	if c.cur.K <= 0 {
		c.cur = Identity
	}
}
