package escalate

import "errors"

var (
	// ErrNotSuperAdmin is returned when a non-super-admin context attempts
	// to pass the gate.
	ErrNotSuperAdmin = errors.New("escalate: super admin role required")

	// ErrNoProfile is returned when the context carries no resolved profile.
	ErrNoProfile = errors.New("escalate: no profile in context")

	// ErrNoTarget is returned when impersonation is requested without a
	// target profile.
	ErrNoTarget = errors.New("escalate: impersonation target is required")

	// ErrAuditFailed is returned when the mandatory audit record could not
	// be appended. The requested action is not considered authorized.
	ErrAuditFailed = errors.New("escalate: failed to record audit event")
)
