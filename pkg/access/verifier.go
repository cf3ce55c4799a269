package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// AcademyProvider loads academies for tenant-boundary checks.
type AcademyProvider interface {
	// GetAcademy retrieves an academy by ID.
	// Returns ErrAcademyNotFound if no academy matches.
	GetAcademy(ctx context.Context, id uuid.UUID) (*Academy, error)
}

// GroupProvider loads groups for tenant-boundary checks.
type GroupProvider interface {
	// GetGroup retrieves a group by ID.
	// Returns ErrGroupNotFound if no group matches.
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
}

// Verifier checks a target resource's tenant ownership against the caller's
// tenant. All checks are read-only and idempotent: two calls with identical
// arguments and no intervening mutation return identical decisions.
//
// Group lookups never confirm cross-tenant existence: a group belonging to a
// different tenant is indistinguishable from a missing one. Academy checks
// report an explicit denial because academy IDs only ever reach a caller
// through their own tenant's listings.
type Verifier struct {
	academies AcademyProvider
	groups    GroupProvider
}

// NewVerifier creates a Verifier. Panics if a provider is nil to fail fast
// during initialization.
func NewVerifier(academies AcademyProvider, groups GroupProvider) *Verifier {
	if academies == nil {
		panic("access: AcademyProvider is required")
	}
	if groups == nil {
		panic("access: GroupProvider is required")
	}
	return &Verifier{academies: academies, groups: groups}
}

// VerifyAcademyAccess checks that the academy exists and belongs to the
// caller's tenant.
func (v *Verifier) VerifyAcademyAccess(ctx context.Context, academyID, tenantID uuid.UUID) (Decision, error) {
	academy, err := v.academies.GetAcademy(ctx, academyID)
	if err != nil {
		if errors.Is(err, ErrAcademyNotFound) {
			return Deny(ReasonAcademyNotFound), nil
		}
		return Decision{}, errors.Join(ErrLookupFailed, err)
	}

	if academy.TenantID != tenantID {
		return Deny(ReasonAcademyAccessDenied), nil
	}

	return Allow(), nil
}

// VerifyGroupAccess checks that the group exists, belongs to the caller's
// tenant, and (when academyID is non-zero) belongs to the given academy.
// Every denial reports GroupNotFound so cross-tenant existence leaks nothing.
func (v *Verifier) VerifyGroupAccess(ctx context.Context, groupID, tenantID, academyID uuid.UUID) (Decision, error) {
	group, err := v.groups.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return Deny(ReasonGroupNotFound), nil
		}
		return Decision{}, errors.Join(ErrLookupFailed, err)
	}

	if group.TenantID != tenantID {
		return Deny(ReasonGroupNotFound), nil
	}

	if academyID != (uuid.UUID{}) && group.AcademyID != academyID {
		return Deny(ReasonGroupNotFound), nil
	}

	return Allow(), nil
}
