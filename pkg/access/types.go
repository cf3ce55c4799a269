package access

import "github.com/google/uuid"

// Reason explains why access was denied.
type Reason string

const (
	ReasonAcademyAccessDenied Reason = "ACADEMY_ACCESS_DENIED"
	ReasonAcademyNotFound     Reason = "ACADEMY_NOT_FOUND"
	ReasonGroupNotFound       Reason = "GROUP_NOT_FOUND"
)

// Decision is the result of an access check. Denials are expected business
// outcomes and come back as a Decision, not an error; only storage failures
// are returned as errors.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Academy is the ownership projection needed for tenant-boundary checks.
type Academy struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Name     string
}

// Group is an athlete group within an academy.
type Group struct {
	ID        uuid.UUID
	AcademyID uuid.UUID
	TenantID  uuid.UUID
	Name      string
}
