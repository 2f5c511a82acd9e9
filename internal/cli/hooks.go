package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/observability"
)

// registerHooks routes observability events to the logger at debug level;
// failures are logged as warnings.
func registerHooks(l *log.Logger) {
	observability.SetWidgetHooks(widgetHooks{l})
	observability.SetStoreHooks(storeHooks{l})
	observability.SetHTTPHooks(httpHooks{l})
}

type widgetHooks struct{ l *log.Logger }

func (h widgetHooks) OnMount(_ context.Context, visible int, ok bool) {
	if !ok {
		h.l.Debug("mount skipped, surface not ready")
		return
	}
	h.l.Debug("mounted", "visible", visible)
}

func (h widgetHooks) OnToggle(_ context.Context, node int, state string, entering, exiting int, d time.Duration, err error) {
	if err != nil {
		h.l.Warn("toggle failed", "node", node, "error", err)
		return
	}
	h.l.Debug("toggle", "node", node, "state", state, "entering", entering, "exiting", exiting, "took", d)
}

func (h widgetHooks) OnLayout(_ context.Context, visible int, d time.Duration) {
	h.l.Debug("layout", "visible", visible, "took", d)
}

func (h widgetHooks) OnReset(_ context.Context, identity bool) {
	h.l.Debug("viewport reset", "identity", identity)
}

type storeHooks struct{ l *log.Logger }

func (h storeHooks) OnStoreHit(_ context.Context, backend string) {
	h.l.Debug("session hit", "backend", backend)
}

func (h storeHooks) OnStoreMiss(_ context.Context, backend string) {
	h.l.Debug("session miss", "backend", backend)
}

func (h storeHooks) OnStoreSet(_ context.Context, backend string, size int) {
	h.l.Debug("session saved", "backend", backend, "bytes", size)
}

type httpHooks struct{ l *log.Logger }

func (h httpHooks) OnRequest(context.Context, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.l.Debug("http", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

func (h httpHooks) OnError(_ context.Context, method, path string, err error) {
	h.l.Warn("http error", "method", method, "path", path, "error", err)
}
