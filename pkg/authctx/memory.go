package authctx

import (
	"context"
	"sync"
)

// MemoryProfileProvider is an in-memory ProfileProvider for tests and
// development wiring.
type MemoryProfileProvider struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewMemoryProfileProvider returns an empty in-memory profile provider.
func NewMemoryProfileProvider() *MemoryProfileProvider {
	return &MemoryProfileProvider{profiles: make(map[string]*Profile)}
}

// Put registers a profile under a credential.
func (p *MemoryProfileProvider) Put(credential string, profile Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[credential] = &profile
}

// GetByCredential retrieves the profile the credential resolves to.
func (p *MemoryProfileProvider) GetByCredential(ctx context.Context, credential string) (*Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[credential]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}
