package profile

import "errors"

var (
	// ErrNotFound is returned when no profile matches, including profiles
	// outside the actor's tenant (existence is never confirmed across the
	// tenant boundary).
	ErrNotFound = errors.New("profile not found")

	// ErrImmutableSuperAdmin is returned for any mutation touching a
	// super_admin profile, and for any attempt to assign the role.
	ErrImmutableSuperAdmin = errors.New("super_admin profiles are immutable")

	// ErrUnauthorized is returned when the actor's role may not perform
	// the mutation.
	ErrUnauthorized = errors.New("insufficient role for profile mutation")

	// ErrInvalidRole is returned when the requested role is unknown.
	ErrInvalidRole = errors.New("invalid role")

	// ErrLookupFailed wraps storage failures.
	ErrLookupFailed = errors.New("profile store failure")
)
