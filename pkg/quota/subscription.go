package quota

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the current state of a subscription.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past_due"
)

// Subscription links a paying identity to a plan tier. An identity has at
// most one active subscription at a time.
type Subscription struct {
	OwnerID    uuid.UUID
	TenantID   uuid.UUID
	PlanCode   PlanCode
	Status     SubscriptionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CanceledAt *time.Time // set when the subscription is canceled
}

// IsActive returns true if the subscription is currently paid up.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// SubscriptionStore reads mirrored subscription state. Creation and payment
// capture belong to the billing collaborator; this engine only reads.
type SubscriptionStore interface {
	// ByTenant retrieves the subscription paying for a tenant.
	// Returns ErrSubscriptionNotFound if none exists.
	ByTenant(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// ByOwner retrieves the subscription belonging to a paying identity.
	// Returns ErrSubscriptionNotFound if none exists.
	ByOwner(ctx context.Context, ownerID uuid.UUID) (*Subscription, error)
}

// AcademyLister enumerates the academies owned by an identity.
// Used when recomputing usage for downgrade checks.
type AcademyLister interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Academy, error)
}
