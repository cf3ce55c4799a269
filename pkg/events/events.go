package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/academykit/academykit/pkg/quota"
)

// Kind identifies the type of a domain event.
type Kind string

const (
	// KindResourceCreated fires after a quota-gated creation commits.
	KindResourceCreated Kind = "resource.created"

	// KindPlanChanged fires after a subscription moves to another plan.
	KindPlanChanged Kind = "plan.changed"

	// KindPlanDowngradeForced fires after a downgrade is forced through
	// despite outstanding limit violations.
	KindPlanDowngradeForced Kind = "plan.downgrade_forced"
)

// Event is a domain event published after the originating transaction has
// committed. Payload holds the kind-specific data.
type Event struct {
	ID         uuid.UUID
	Kind       Kind
	TenantID   uuid.UUID
	OccurredAt time.Time
	Payload    any
}

// ResourceCreated is the payload for KindResourceCreated.
type ResourceCreated struct {
	Resource   quota.Resource
	AcademyID  uuid.UUID
	ResourceID uuid.UUID
}

// PlanChanged is the payload for KindPlanChanged.
type PlanChanged struct {
	OwnerID uuid.UUID
	From    quota.PlanCode
	To      quota.PlanCode
}

// PlanDowngradeForced is the payload for KindPlanDowngradeForced. It carries
// the violations that were outstanding when the downgrade went through so
// subscribers can notify the owner.
type PlanDowngradeForced struct {
	OwnerID    uuid.UUID
	OwnerEmail string
	From       quota.PlanCode
	To         quota.PlanCode
	Violations []quota.Violation
}
