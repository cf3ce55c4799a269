package audit

import (
	"context"
	"sync"
)

// Storage persists audit events. The interface is append-only by design:
// there is no update or delete, and implementations must not expose one.
type Storage interface {
	// Append stores a single event.
	Append(ctx context.Context, event Event) error
}

// MemoryStorage is an append-only in-memory Storage for tests and
// development wiring.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStorage returns an empty in-memory audit storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Append stores a single event.
func (s *MemoryStorage) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of all stored events in append order.
func (s *MemoryStorage) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
