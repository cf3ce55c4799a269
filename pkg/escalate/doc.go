// Package escalate gates super-admin access to cross-tenant operations.
//
// A super-admin context is admitted through the Gate into an Escalated
// session. The session bypasses tenant ownership checks, can impersonate a
// target profile with ViewAs, and records every action through the
// append-only audit log. Auditing is mandatory: escalation, impersonation,
// and each action run with Do all append an event, and an append failure
// fails the operation rather than proceeding unrecorded.
//
// Usage:
//
//	gate := escalate.NewGate(auditLogger)
//	session, err := gate.Admit(ctx, authCtx)
//	if err != nil {
//		// ErrNotSuperAdmin for any non-super-admin context
//	}
//	viewing, err := session.ViewAs(ctx, ownerProfile)
//	err = viewing.Do(ctx, "academy.read", func(ctx context.Context) error {
//		return inspectAcademy(ctx, academyID)
//	}, audit.WithResource("academy", academyID.String()))
package escalate
