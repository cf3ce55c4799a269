package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/academykit/academykit/pkg/authctx"
)

// Update carries the mutable profile fields. Nil fields are left unchanged.
// Profiles are never hard-deleted; suspension is the terminal state.
type Update struct {
	Email     *string
	Role      *authctx.Role
	Suspended *bool
}

// Store persists profiles. The interface deliberately has no delete.
type Store interface {
	// Get retrieves a profile by ID. Returns ErrNotFound if none matches.
	Get(ctx context.Context, id uuid.UUID) (*authctx.Profile, error)

	// Save creates or updates a profile.
	Save(ctx context.Context, p *authctx.Profile) error
}

// Service guards profile mutations. Two constraints hold universally:
// the super_admin role can never be assigned or removed through this path,
// and suspended actors are denied regardless of their role.
type Service struct {
	store Store
}

// NewService creates a profile Service. Panics if store is nil.
func NewService(store Store) *Service {
	if store == nil {
		panic("profile: Store is required")
	}
	return &Service{store: store}
}

// Get loads a profile visible to the actor. Profiles outside the actor's
// tenant read as not found unless the actor is a super admin.
func (s *Service) Get(ctx context.Context, actor authctx.Context, id uuid.UUID) (*authctx.Profile, error) {
	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsSuperAdmin() {
		tenantID, err := actor.TenantID()
		if err != nil {
			return nil, err
		}
		if target.TenantID == nil || *target.TenantID != tenantID {
			return nil, ErrNotFound
		}
	}

	return target, nil
}

// Update applies changes to a profile on behalf of the actor.
func (s *Service) Update(ctx context.Context, actor authctx.Context, id uuid.UUID, changes Update) (*authctx.Profile, error) {
	actorProfile, ok := actor.Profile()
	if !ok {
		return nil, authctx.ErrUnauthenticated
	}
	if actorProfile.Suspended {
		return nil, ErrUnauthorized
	}

	target, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// Any mutation addressing a super_admin profile is rejected outright,
	// whatever the payload contains.
	if target.Role == authctx.RoleSuperAdmin {
		return nil, ErrImmutableSuperAdmin
	}

	if changes.Role != nil || changes.Suspended != nil {
		if !actorProfile.Role.CanManageProfiles() {
			return nil, ErrUnauthorized
		}
	}

	if changes.Role != nil {
		if !changes.Role.Valid() {
			return nil, ErrInvalidRole
		}
		if *changes.Role == authctx.RoleSuperAdmin {
			return nil, ErrImmutableSuperAdmin
		}
		target.Role = *changes.Role
	}

	if changes.Suspended != nil {
		target.Suspended = *changes.Suspended
	}

	if changes.Email != nil {
		target.Email = *changes.Email
	}

	if err := s.store.Save(ctx, target); err != nil {
		return nil, errors.Join(ErrLookupFailed, err)
	}

	return target, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*authctx.Profile, error) {
	target, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrLookupFailed, err)
	}
	return target, nil
}
