package widget

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/diff"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/transition"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/viewport"
)

// NoMetadata is shown when a node has no metadata.
const NoMetadata = "No metadata available."

// Surface is the drawing target established by the host.
type Surface interface {
	// Size returns the container's pixel size. An empty size means the
	// surface is not attached yet.
	Size() geom.Size
}

// FixedSurface is a surface of constant size.
type FixedSurface geom.Size

// Size implements Surface.
func (s FixedSurface) Size() geom.Size { return geom.Size(s) }

// Options configures a Widget.
type Options struct {
	Layout   layout.Options
	Scene    diff.Options
	Viewport viewport.Options
	Duration time.Duration
	Ease     transition.Easing
	// Clock drives the transition player. Defaults to time.Now.
	Clock  func() time.Time
	Logger *log.Logger
}

// DefaultOptions returns the stock widget configuration.
func DefaultOptions() Options {
	return Options{
		Layout:   layout.DefaultOptions(),
		Scene:    diff.DefaultOptions(),
		Viewport: viewport.DefaultOptions(),
		Duration: transition.DefaultDuration,
		Ease:     transition.CubicInOut,
	}
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Duration <= 0 {
		o.Duration = transition.DefaultDuration
	}
	if o.Ease == nil {
		o.Ease = transition.CubicInOut
	}
	return o
}

// Update is the outcome of one render pass.
type Update struct {
	Source    tree.ID            `json:"source"`
	Layout    layout.Result      `json:"layout"`
	Diff      diff.Diff          `json:"diff"`
	Transform viewport.Transform `json:"transform"`
	// Fitted is true when this pass computed the fit-to-container
	// transform.
	Fitted bool `json:"fitted"`
}

// Inspection is the content of the metadata popup.
type Inspection struct {
	ID          tree.ID `json:"id"`
	Name        string  `json:"name"`
	Metadata    string  `json:"metadata"`
	HasMetadata bool    `json:"has_metadata"`
}

// Widget is one mounted tree component.
type Widget struct {
	opts   Options
	tree   *tree.Tree
	scene  *diff.Scene
	view   *viewport.Controller
	player *transition.Player

	mounted bool
	surface geom.Size
	last    Update
	// played is last.Diff as retargeted by the player: elements caught
	// mid-flight start from where they were on screen.
	played diff.Diff
}

// New builds the tree for items. Nothing is laid out until Mount.
func New(items []tree.Item, opts Options) *Widget {
	opts = opts.withDefaults()
	return &Widget{
		opts:   opts,
		tree:   tree.Build(items),
		scene:  diff.NewScene(opts.Scene),
		view:   viewport.NewController(opts.Viewport),
		player: transition.NewPlayer(opts.Duration, opts.Ease),
	}
}

// Tree exposes the underlying tree for read access.
func (w *Widget) Tree() *tree.Tree { return w.tree }

// Mounted reports whether a surface has been attached.
func (w *Widget) Mounted() bool { return w.mounted }

// Surface returns the container size recorded at mount.
func (w *Widget) Surface() geom.Size { return w.surface }

// Last returns the most recent update.
func (w *Widget) Last() Update { return w.last }

// Mount runs the first layout pass and fits the viewport. A nil surface, or
// one without a size, is a no-op that returns false so the host can retry.
// Mounting an already mounted widget records the new size and returns the
// last update.
func (w *Widget) Mount(ctx context.Context, s Surface) (Update, bool) {
	if s == nil || s.Size().Empty() {
		w.opts.Logger.Debug("surface not ready, skipping mount")
		observability.Widget().OnMount(ctx, 0, false)
		return Update{}, false
	}
	size := s.Size()
	if w.mounted {
		w.surface = size
		w.view.Resize(size)
		return w.last, true
	}

	w.surface = size
	w.mounted = true
	u := w.render(ctx, tree.RootID)
	w.opts.Logger.Debug("mounted", "visible", u.Layout.Len(), "width", u.Layout.Width, "height", u.Layout.Height)
	observability.Widget().OnMount(ctx, u.Layout.Len(), true)
	return u, true
}

// Unmount drops the scene. The tree keeps its state.
func (w *Widget) Unmount() {
	w.mounted = false
	w.scene.Reset()
	w.player = transition.NewPlayer(w.opts.Duration, w.opts.Ease)
	w.last = Update{}
	w.played = diff.Diff{}
}

// Toggle expands or collapses one node and re-renders.
func (w *Widget) Toggle(ctx context.Context, id tree.ID) (Update, error) {
	start := time.Now()
	if !w.mounted {
		err := cerrors.New(cerrors.ErrCodeSurfaceNotReady, "widget is not mounted")
		observability.Widget().OnToggle(ctx, int(id), "", 0, 0, time.Since(start), err)
		return Update{}, err
	}
	if n, ok := w.tree.Node(id); ok && id != tree.RootID && !w.tree.IsVisible(id) {
		err := cerrors.New(cerrors.ErrCodeNotInteractive, "node %d (%s) is hidden by a collapsed ancestor", id, n.Name)
		observability.Widget().OnToggle(ctx, int(id), "", 0, 0, time.Since(start), err)
		return Update{}, err
	}
	if err := w.tree.Toggle(id); err != nil {
		observability.Widget().OnToggle(ctx, int(id), "", 0, 0, time.Since(start), err)
		return Update{}, err
	}
	u := w.render(ctx, id)
	n, _ := w.tree.Node(id)
	s := u.Diff.Summary()
	w.opts.Logger.Debug("toggled", "node", id, "name", n.Name, "state", n.State, "entering", s.Entering, "exiting", s.Exiting)
	observability.Widget().OnToggle(ctx, int(id), n.State.String(), s.Entering, s.Exiting, time.Since(start), nil)
	return u, nil
}

// Inspect returns the metadata popup content for a node.
func (w *Widget) Inspect(id tree.ID) (Inspection, error) {
	n, ok := w.tree.Node(id)
	if !ok || id == tree.RootID {
		return Inspection{}, cerrors.New(cerrors.ErrCodeNodeNotFound, "no node with id %d", id)
	}
	in := Inspection{ID: id, Name: n.Name, Metadata: n.Metadata, HasMetadata: n.Metadata != ""}
	if !in.HasMetadata {
		in.Metadata = NoMetadata
	}
	return in, nil
}

// Frame returns what is on screen at now.
func (w *Widget) Frame(now time.Time) transition.Frame { return w.player.Frame(now) }

// Settled returns the frame at rest after the current transition.
func (w *Widget) Settled() transition.Frame { return transition.At(w.played, 1, w.opts.Ease) }

// Frames samples the transition being played at n evenly spaced points. The
// first frame is what was on screen when the last update started.
func (w *Widget) Frames(n int) []transition.Frame { return transition.Sample(w.played, n, w.opts.Ease) }

// Duration returns the transition length.
func (w *Widget) Duration() time.Duration { return w.opts.Duration }

// Animating reports whether a transition is still running at now.
func (w *Widget) Animating(now time.Time) bool { return !w.player.Done(now) }

// Transform returns the live viewport transform.
func (w *Widget) Transform() viewport.Transform { return w.view.Transform() }

// Pan moves the diagram by container pixels.
func (w *Widget) Pan(dx, dy float64) viewport.Transform { return w.view.Pan(dx, dy) }

// Zoom scales around a container point.
func (w *Widget) Zoom(factor float64, anchor geom.Point) viewport.Transform {
	return w.view.ZoomBy(factor, anchor)
}

// SetTransform replaces the live transform, as after a drag or wheel event.
func (w *Widget) SetTransform(t viewport.Transform) viewport.Transform {
	return w.view.SetTransform(t)
}

// DoubleClick is ignored.
func (w *Widget) DoubleClick(p geom.Point) viewport.Transform { return w.view.DoubleClick(p) }

// Reset animates the viewport back to the first fit.
func (w *Widget) Reset(ctx context.Context) viewport.Tween {
	tw := w.view.Reset()
	w.last.Transform = w.view.Transform()
	observability.Widget().OnReset(ctx, tw.Identity())
	return tw
}

func (w *Widget) render(ctx context.Context, source tree.ID) Update {
	start := time.Now()
	res := layout.Compute(w.tree, w.opts.Layout)
	observability.Widget().OnLayout(ctx, res.Len(), time.Since(start))

	d := w.scene.Reconcile(res, w.tree.Edges(), source)
	w.played = w.player.Play(d, w.opts.Clock())

	_, fitted := w.view.FitOnce(res.Extent(), w.surface)
	w.last = Update{
		Source:    source,
		Layout:    res,
		Diff:      d,
		Transform: w.view.Transform(),
		Fitted:    fitted,
	}
	return w.last
}
