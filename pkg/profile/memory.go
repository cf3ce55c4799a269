package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/academykit/academykit/pkg/authctx"
)

// MemoryStore is an in-memory Store for tests and development wiring.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*authctx.Profile
}

// NewMemoryStore returns an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[uuid.UUID]*authctx.Profile)}
}

// Get retrieves a profile by ID.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*authctx.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// Save creates or updates a profile.
func (s *MemoryStore) Save(ctx context.Context, p *authctx.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}
