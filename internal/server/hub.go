package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/session"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/widget"
)

// Hub owns the live widgets of a server. Widgets are not safe for
// concurrent use, so every operation runs under the hub lock.
type Hub struct {
	mu      sync.Mutex
	items   []tree.Item
	dataset string
	opts    widget.Options
	store   session.Store
	ttl     time.Duration
	live    map[string]*instance
}

type instance struct {
	w    *widget.Widget
	snap *session.Snapshot
}

// NewHub creates a hub serving items. Snapshots go to store.
func NewHub(items []tree.Item, store session.Store, opts widget.Options, ttl time.Duration) *Hub {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &Hub{
		items:   items,
		dataset: datasetKey(items),
		opts:    opts,
		store:   store,
		ttl:     ttl,
		live:    make(map[string]*instance),
	}
}

// datasetKey fingerprints the input so snapshots are never applied to a
// different tree.
func datasetKey(items []tree.Item) string {
	b, _ := json.Marshal(items)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Dataset returns the fingerprint of the served items.
func (h *Hub) Dataset() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dataset
}

// Live returns the number of cached widgets.
func (h *Hub) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// Create mounts a new widget on a container of the given size.
func (h *Hub) Create(ctx context.Context, size geom.Size) (string, widget.Update, error) {
	if size.Empty() {
		return "", widget.Update{}, cerrors.New(cerrors.ErrCodeSurfaceNotReady, "container has no size")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	w := widget.New(h.items, h.opts)
	u, ok := w.Mount(ctx, widget.FixedSurface(size))
	if !ok {
		return "", widget.Update{}, cerrors.New(cerrors.ErrCodeSurfaceNotReady, "container has no size")
	}
	snap, err := session.New(w.Snapshot(), h.ttl)
	if err != nil {
		return "", widget.Update{}, err
	}
	snap.Dataset = h.dataset
	if err := h.store.Set(ctx, snap); err != nil {
		return "", widget.Update{}, cerrors.Wrap(cerrors.ErrCodeInternal, err, "save session")
	}
	h.live[snap.ID] = &instance{w: w, snap: snap}
	return snap.ID, u, nil
}

// View runs fn against the widget for id without persisting.
func (h *Hub) View(ctx context.Context, id string, fn func(*widget.Widget) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	inst, err := h.get(ctx, id)
	if err != nil {
		return err
	}
	return fn(inst.w)
}

// Update runs fn against the widget for id and saves its new state. When
// the save fails the live widget is dropped, so the next request restores
// the last state the store holds.
func (h *Hub) Update(ctx context.Context, id string, fn func(*widget.Widget) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	inst, err := h.get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(inst.w); err != nil {
		return err
	}
	inst.snap = inst.snap.Renew(inst.w.Snapshot(), h.ttl)
	if err := h.store.Set(ctx, inst.snap); err != nil {
		inst.w.Unmount()
		delete(h.live, id)
		return cerrors.Wrap(cerrors.ErrCodeInternal, err, "save session")
	}
	return nil
}

// Delete unmounts and forgets a session.
func (h *Hub) Delete(ctx context.Context, id string) error {
	if err := cerrors.ValidateSessionID(id); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if inst, ok := h.live[id]; ok {
		inst.w.Unmount()
		delete(h.live, id)
	}
	if err := h.store.Delete(ctx, id); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, err, "delete session")
	}
	return nil
}

// Reload swaps the served items and drops every live widget. Saved
// sessions for the old items no longer restore.
func (h *Hub) Reload(items []tree.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, inst := range h.live {
		inst.w.Unmount()
	}
	h.items = items
	h.dataset = datasetKey(items)
	h.live = make(map[string]*instance)
}

// Evict drops a live widget but keeps its snapshot.
func (h *Hub) Evict(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.live, id)
}

func (h *Hub) get(ctx context.Context, id string) (*instance, error) {
	if err := cerrors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	if inst, ok := h.live[id]; ok {
		return inst, nil
	}

	snap, err := h.store.Get(ctx, id)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, err, "load session")
	}
	if snap == nil || snap.Dataset != h.dataset {
		return nil, cerrors.New(cerrors.ErrCodeSessionNotFound, "session %s not found", id)
	}

	w := widget.New(h.items, h.opts)
	if _, err := w.Restore(ctx, snap.State); err != nil {
		return nil, err
	}
	if _, ok := w.Mount(ctx, widget.FixedSurface(snap.Surface)); !ok {
		return nil, cerrors.New(cerrors.ErrCodeSurfaceNotReady, "session %s has no surface", id)
	}
	inst := &instance{w: w, snap: snap}
	h.live[id] = inst
	return inst, nil
}
