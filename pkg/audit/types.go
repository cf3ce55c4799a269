package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result represents the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultError   Result = "error"
)

// Event is a single audit log entry. Events are append-only: once stored
// they are never mutated or deleted.
type Event struct {
	ID             uuid.UUID      `json:"id"`
	ActorID        uuid.UUID      `json:"actor_id"`
	ImpersonatedID *uuid.UUID     `json:"impersonated_id,omitempty"` // set when acting "view as" a target profile
	TenantID       *uuid.UUID     `json:"tenant_id,omitempty"`       // tenant whose data was addressed
	Action         string         `json:"action"`
	Resource       string         `json:"resource,omitempty"`
	ResourceID     string         `json:"resource_id,omitempty"`
	Result         Result         `json:"result"`
	Error          string         `json:"error,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Validate checks that the event has all required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	if e.ActorID == (uuid.UUID{}) {
		return fmt.Errorf("%w: actor is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithResource attaches the addressed resource to the event.
func WithResource(resource, resourceID string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = resourceID
	}
}

// WithTenant records which tenant's data the action addressed.
func WithTenant(tenantID uuid.UUID) EventOption {
	return func(e *Event) {
		e.TenantID = &tenantID
	}
}

// WithImpersonation records the profile the actor was viewing as.
func WithImpersonation(targetID uuid.UUID) EventOption {
	return func(e *Event) {
		e.ImpersonatedID = &targetID
	}
}

// WithMetadata attaches arbitrary metadata to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}
