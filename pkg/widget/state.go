package widget

import (
	"context"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/viewport"
)

// State is the persistent part of a widget: which nodes are expanded and
// where the viewport is.
type State struct {
	Expanded []tree.ID         `json:"expanded"`
	View     viewport.Transform `json:"view"`
	Fit      viewport.Transform `json:"fit"`
	Fitted   bool               `json:"fitted"`
	Surface  geom.Size          `json:"surface"`
}

// Snapshot captures the widget's state.
func (w *Widget) Snapshot() State {
	fit, fitted := w.view.Fitted()
	return State{
		Expanded: w.tree.Expanded(),
		View:     w.view.Transform(),
		Fit:      fit,
		Fitted:   fitted,
		Surface:  w.view.Container(),
	}
}

// Restore applies a snapshot. A mounted widget re-renders from the
// super-root; an unmounted one renders on its next Mount, which then keeps
// the restored fit instead of computing a new one.
func (w *Widget) Restore(ctx context.Context, s State) (Update, error) {
	if err := w.tree.Restore(s.Expanded); err != nil {
		return Update{}, err
	}
	view := s.View
	if view.K <= 0 {
		view = viewport.Identity
	}
	w.view.Restore(view, s.Fit, s.Fitted, s.Surface)
	if !w.mounted {
		return Update{}, nil
	}
	return w.render(ctx, tree.RootID), nil
}
