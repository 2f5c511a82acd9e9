package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/canopy/pkg/observability"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Snapshot
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Snapshot{}, now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.data[id]
	s.mu.RUnlock()
	if !ok || snap.expiredAt(s.now()) {
		observability.Store().OnStoreMiss(ctx, BackendMemory)
		return nil, nil
	}
	observability.Store().OnStoreHit(ctx, BackendMemory)
	out := clone(snap)
	return &out, nil
}

func (s *MemoryStore) Set(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.ID] = clone(*snap)
	observability.Store().OnStoreSet(ctx, BackendMemory, 0)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, snap := range s.data {
		if snap.expiredAt(now) {
			delete(s.data, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored snapshots, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func clone(s Snapshot) Snapshot {
	s.Expanded = append(s.Expanded[:0:0], s.Expanded...)
	return s
}

var _ Store = (*MemoryStore)(nil)
