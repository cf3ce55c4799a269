package notify

import (
	"context"
	"sync"
)

// Deliverer sends a notification to its recipient.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// MemoryDeliverer collects notifications in memory for tests and
// development wiring.
type MemoryDeliverer struct {
	mu   sync.RWMutex
	sent []Notification
}

// NewMemoryDeliverer returns an empty in-memory deliverer.
func NewMemoryDeliverer() *MemoryDeliverer {
	return &MemoryDeliverer{}
}

// Deliver records the notification.
func (d *MemoryDeliverer) Deliver(ctx context.Context, n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return nil
}

// Sent returns a copy of all delivered notifications in order.
func (d *MemoryDeliverer) Sent() []Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Notification, len(d.sent))
	copy(out, d.sent)
	return out
}
