// Package session persists widget state between requests.
//
// A [Snapshot] records which nodes are expanded and where the viewport is,
// so a host can drop a live widget and rebuild it later. Snapshots expire
// after a TTL. Three backends implement [Store]:
//   - memory: In-process storage for a single server or tests
//   - file: JSON files in a config directory, for CLI use
//   - redis: Redis-backed storage shared by several server instances
//
// # Usage
//
//	store, err := session.Open(ctx, session.Options{Backend: "file"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	snap, err := session.New(w.Snapshot(), session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, snap)
//
//	snap, err = store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if snap == nil {
//	    // Not found or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/widget"
)

// DefaultTTL is the default snapshot lifetime.
const DefaultTTL = 24 * time.Hour

// Snapshot is the persisted state of one widget instance.
type Snapshot struct {
	ID string `json:"id"`
	widget.State
	// Dataset names the input the widget was built from, so a snapshot is
	// not applied to a different tree.
	Dataset   string    `json:"dataset,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the snapshot has expired.
func (s *Snapshot) IsExpired() bool {
	return s.expiredAt(time.Now())
}

func (s *Snapshot) expiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Get retrieves a snapshot by ID.
	// Returns nil, nil if the snapshot doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Set stores a snapshot until its ExpiresAt.
	Set(ctx context.Context, snap *Snapshot) error

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired snapshots (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh random snapshot ID.
func NewID() string {
	return uuid.NewString()
}

// New creates a snapshot of state with a fresh ID.
func New(state widget.State, ttl time.Duration) (*Snapshot, error) {
	if ttl <= 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "session ttl must be positive, got %v", ttl)
	}
	now := time.Now()
	return &Snapshot{
		ID:        NewID(),
		State:     state,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Renew copies the snapshot with new state and a pushed-back expiry.
func (s *Snapshot) Renew(state widget.State, ttl time.Duration) *Snapshot {
	out := *s
	out.State = state
	out.ExpiresAt = time.Now().Add(ttl)
	return &out
}
