package access

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider is an in-memory AcademyProvider and GroupProvider for
// tests and development wiring.
type MemoryProvider struct {
	mu        sync.RWMutex
	academies map[uuid.UUID]*Academy
	groups    map[uuid.UUID]*Group
}

// NewMemoryProvider returns an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		academies: make(map[uuid.UUID]*Academy),
		groups:    make(map[uuid.UUID]*Group),
	}
}

// PutAcademy stores or replaces an academy.
func (p *MemoryProvider) PutAcademy(a Academy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.academies[a.ID] = &a
}

// PutGroup stores or replaces a group.
func (p *MemoryProvider) PutGroup(g Group) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups[g.ID] = &g
}

// GetAcademy retrieves an academy by ID.
func (p *MemoryProvider) GetAcademy(ctx context.Context, id uuid.UUID) (*Academy, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	a, ok := p.academies[id]
	if !ok {
		return nil, ErrAcademyNotFound
	}
	cp := *a
	return &cp, nil
}

// GetGroup retrieves a group by ID.
func (p *MemoryProvider) GetGroup(ctx context.Context, id uuid.UUID) (*Group, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	g, ok := p.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}
