package authctx

import "errors"

var (
	// ErrUnauthenticated is returned when no valid credential resolves to a profile.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrTenantRequired is returned when an operation needs a tenant scope
	// the context does not carry.
	ErrTenantRequired = errors.New("tenant required")

	// ErrSuspended is returned for any tenant-scoped operation by a
	// suspended identity, regardless of its role.
	ErrSuspended = errors.New("identity is suspended")

	// ErrProfileNotFound is returned by providers when no profile matches
	// the credential.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNotSuperAdmin is returned when a super-admin context is built from
	// a profile without the super_admin role.
	ErrNotSuperAdmin = errors.New("profile is not a super admin")

	// ErrNoContext is returned when no resolved context is present in the
	// request context.
	ErrNoContext = errors.New("no auth context in request")

	// ErrLookupFailed wraps storage failures during profile resolution.
	ErrLookupFailed = errors.New("profile lookup failed")
)
