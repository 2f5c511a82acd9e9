package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/canopy/pkg/tree"
)

// Loader reads the dataset again after a change on disk.
type Loader func() ([]tree.Item, error)

// Reloader watches a dataset file, reloads the hub when it changes and
// tells connected browsers over server-sent events.
type Reloader struct {
	path    string
	load    Loader
	hub     *Hub
	logger  *log.Logger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	clients map[chan struct{}]struct{}

	ctx    context.Context
	cancel context.CancelFunc

	lastEvent time.Time
	debounce  time.Duration
}

// NewReloader creates a reloader for the dataset at path.
func NewReloader(path string, load Loader, hub *Hub, logger *log.Logger) (*Reloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Reloader{
		path:     filepath.Clean(path),
		load:     load,
		hub:      hub,
		logger:   logger,
		watcher:  watcher,
		clients:  make(map[chan struct{}]struct{}),
		ctx:      ctx,
		cancel:   cancel,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Start watches the dataset's directory; editors often replace files
// rather than write them in place.
func (r *Reloader) Start() error {
	if err := r.watcher.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("watch %s: %w", r.path, err)
	}
	go r.watchLoop()
	return nil
}

// Stop ends the watch and disconnects every client.
func (r *Reloader) Stop() {
	r.cancel()
	r.watcher.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.clients {
		close(ch)
	}
	r.clients = make(map[chan struct{}]struct{})
}

// ClientCount returns the number of connected clients.
func (r *Reloader) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *Reloader) watchLoop() {
	for {
		select {
		case <-r.ctx.Done():
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			now := time.Now()
			if now.Sub(r.lastEvent) < r.debounce {
				continue
			}
			r.lastEvent = now
			r.Reload()

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("dataset watch", "error", err)
		}
	}
}

// Reload loads the dataset, swaps it into the hub and notifies clients.
// A dataset that fails to load keeps the current one.
func (r *Reloader) Reload() {
	items, err := r.load()
	if err != nil {
		r.logger.Warn("dataset reload failed", "path", r.path, "error", err)
		return
	}
	r.hub.Reload(items)
	r.logger.Info("dataset reloaded", "path", r.path, "dataset", r.hub.Dataset())
	r.notify()
}

func (r *Reloader) notify() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for ch := range r.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ServeHTTP streams reload events.
func (r *Reloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.clients[ch] = struct{}{}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.clients, ch)
		r.mu.Unlock()
	}()

	fmt.Fprintf(w, "event: connected\ndata: {\"dataset\":%q}\n\n", r.hub.Dataset())
	flusher.Flush()

	for {
		select {
		case <-req.Context().Done():
			return
		case <-r.ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: {\"dataset\":%q}\n\n", r.hub.Dataset())
			flusher.Flush()
		}
	}
}
