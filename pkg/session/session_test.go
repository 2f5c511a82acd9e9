package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/viewport"
	"github.com/matzehuels/canopy/pkg/widget"
)

func sampleState() widget.State {
	return widget.State{
		Expanded: []tree.ID{1, 4, 6},
		View:     viewport.Transform{K: 0.5, X: 10, Y: -20},
		Fit:      viewport.Transform{K: 0.25, X: 0, Y: 40},
		Fitted:   true,
		Surface:  geom.Size{W: 1200, H: 800},
	}
}

// exerciseStore runs the Store contract against one backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	snap, err := New(sampleState(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := cerrors.ValidateSessionID(snap.ID); err != nil {
		t.Fatalf("New() id %q: %v", snap.ID, err)
	}

	if got, err := s.Get(ctx, snap.ID); err != nil || got != nil {
		t.Fatalf("Get(before Set) = %v, %v; want nil, nil", got, err)
	}
	if err := s.Set(ctx, snap); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := s.Get(ctx, snap.ID)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if diff := cmp.Diff(snap.State, got.State); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	if !got.ExpiresAt.Equal(snap.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, snap.ExpiresAt)
	}

	if err := s.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := s.Get(ctx, snap.ID); got != nil {
		t.Error("Get() after Delete should be nil")
	}
	if err := s.Delete(ctx, snap.ID); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
	if err := s.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup() error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("CANOPY_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CANOPY_TEST_REDIS_URL not set")
	}
	s, err := NewRedisStore(context.Background(), RedisConfig{URL: url, Prefix: "canopy:test:"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	snap, _ := New(sampleState(), time.Minute)
	if err := s.Set(ctx, snap); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if got, err := s.Get(ctx, snap.ID); got != nil || err != nil {
		t.Errorf("Get(expired) = %v, %v; want nil, nil", got, err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d before Cleanup", s.Len())
	}
	if err := s.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Cleanup, want 0", s.Len())
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	snap, _ := New(sampleState(), time.Hour)
	if err := s.Set(ctx, snap); err != nil {
		t.Fatal(err)
	}
	snap.Expanded[0] = 99
	got, _ := s.Get(ctx, snap.ID)
	got.Expanded[1] = 98
	again, _ := s.Get(ctx, snap.ID)
	if diff := cmp.Diff([]tree.ID{1, 4, 6}, again.Expanded); diff != "" {
		t.Errorf("stored state was aliased (-want +got):\n%s", diff)
	}
}

func TestFileStoreExpiredIsRemoved(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	snap, _ := New(sampleState(), time.Hour)
	snap.ExpiresAt = time.Now().Add(-time.Second)
	if err := s.Set(ctx, snap); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Get(ctx, snap.ID); got != nil || err != nil {
		t.Errorf("Get(expired) = %v, %v; want nil, nil", got, err)
	}
	if _, err := os.Stat(s.snapshotPath(snap.ID)); !os.IsNotExist(err) {
		t.Error("expired file should be removed on read")
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	live, _ := New(sampleState(), time.Hour)
	dead, _ := New(sampleState(), time.Hour)
	dead.ExpiresAt = time.Now().Add(-time.Minute)
	for _, snap := range []*Snapshot{live, dead} {
		if err := s.Set(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.snapshotPath(dead.ID)); !os.IsNotExist(err) {
		t.Error("expired snapshot survived Cleanup")
	}
	if _, err := os.Stat(s.snapshotPath(live.ID)); err != nil {
		t.Errorf("live snapshot removed: %v", err)
	}
}

func TestNewRejectsBadTTL(t *testing.T) {
	if _, err := New(sampleState(), 0); !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("New(ttl=0) = %v, want INVALID_INPUT", err)
	}
}

func TestRenew(t *testing.T) {
	snap, _ := New(sampleState(), time.Minute)
	st := sampleState()
	st.Expanded = []tree.ID{1}
	next := snap.Renew(st, time.Hour)
	if next.ID != snap.ID || !next.CreatedAt.Equal(snap.CreatedAt) {
		t.Error("Renew changed identity")
	}
	if !next.ExpiresAt.After(snap.ExpiresAt) {
		t.Error("Renew should push back expiry")
	}
	if len(snap.Expanded) != 3 {
		t.Error("Renew mutated the original")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(default) = %T, want *MemoryStore", s)
	}
	s, err = Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", s)
	}
	if _, err := Open(ctx, Options{Backend: "mongo"}); !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
		t.Errorf("Open(mongo) = %v, want INVALID_CONFIG", err)
	}
}
