package escalate

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/academykit/academykit/pkg/audit"
	"github.com/academykit/academykit/pkg/authctx"
)

// Actions recorded by the gate itself.
const (
	ActionEscalate    = "super_admin.escalate"
	ActionImpersonate = "super_admin.impersonate"
)

// Gate admits super-admin contexts into an escalated session. Every action
// performed through the session is recorded in the audit log; auditing is
// not optional and append failures fail the action.
type Gate struct {
	auditor audit.Logger
}

// NewGate creates an escalation gate writing to the given audit logger.
// Panics if auditor is nil.
func NewGate(auditor audit.Logger) *Gate {
	if auditor == nil {
		panic("escalate: audit.Logger is required")
	}
	return &Gate{auditor: auditor}
}

// Admit verifies that the context is a super-admin context and opens an
// escalated session, recording the escalation itself. Any other context
// kind is rejected with ErrNotSuperAdmin; the tagged union already
// guarantees suspended super admins never reach this kind.
func (g *Gate) Admit(ctx context.Context, ac authctx.Context) (*Escalated, error) {
	if !ac.IsSuperAdmin() {
		return nil, ErrNotSuperAdmin
	}
	actor, ok := ac.Profile()
	if !ok {
		return nil, ErrNoProfile
	}
	if err := g.auditor.Log(ctx, actor.ID, ActionEscalate); err != nil {
		return nil, errors.Join(ErrAuditFailed, err)
	}
	return &Escalated{gate: g, actor: actor}, nil
}

// Escalated is an admitted super-admin session. It bypasses tenant
// ownership checks and can impersonate a target profile via ViewAs.
// The zero value is not usable; sessions come from Gate.Admit.
type Escalated struct {
	gate   *Gate
	actor  *authctx.Profile
	target *authctx.Profile
}

// ActorID returns the super admin's profile ID.
func (e *Escalated) ActorID() uuid.UUID {
	return e.actor.ID
}

// Impersonating returns the impersonation target, if any.
func (e *Escalated) Impersonating() (*authctx.Profile, bool) {
	return e.target, e.target != nil
}

// TenantID returns the tenant scope the session currently observes: the
// impersonated profile's tenant when viewing as a tenant-bound profile,
// and none otherwise. Super-admin sessions without a target are not bound
// to any tenant.
func (e *Escalated) TenantID() (uuid.UUID, bool) {
	if e.target == nil || e.target.TenantID == nil {
		return uuid.UUID{}, false
	}
	return *e.target.TenantID, true
}

// ViewAs opens an impersonated session for the target profile and records
// the impersonation. The original session remains usable.
func (e *Escalated) ViewAs(ctx context.Context, target *authctx.Profile) (*Escalated, error) {
	if target == nil {
		return nil, ErrNoTarget
	}
	opts := []audit.EventOption{audit.WithImpersonation(target.ID)}
	if target.TenantID != nil {
		opts = append(opts, audit.WithTenant(*target.TenantID))
	}
	if err := e.gate.auditor.Log(ctx, e.actor.ID, ActionImpersonate, opts...); err != nil {
		return nil, errors.Join(ErrAuditFailed, err)
	}
	return &Escalated{gate: e.gate, actor: e.actor, target: target}, nil
}

// Do runs fn as an audited action. The outcome of fn is recorded with the
// actor, the impersonated target when present, and any extra event options.
// When fn fails, its error is returned with the failure recorded; when the
// audit append itself fails, ErrAuditFailed is joined in so the caller
// never treats the action as cleanly completed.
func (e *Escalated) Do(ctx context.Context, action string, fn func(context.Context) error, opts ...audit.EventOption) error {
	if e.target != nil {
		opts = append(opts, audit.WithImpersonation(e.target.ID))
		if e.target.TenantID != nil {
			opts = append(opts, audit.WithTenant(*e.target.TenantID))
		}
	}

	actionErr := fn(ctx)
	if actionErr != nil {
		if auditErr := e.gate.auditor.LogError(ctx, e.actor.ID, action, actionErr, opts...); auditErr != nil {
			return errors.Join(actionErr, ErrAuditFailed, auditErr)
		}
		return actionErr
	}

	if auditErr := e.gate.auditor.Log(ctx, e.actor.ID, action, opts...); auditErr != nil {
		return errors.Join(ErrAuditFailed, auditErr)
	}
	return nil
}

// Context returns the authorization context downstream services should see
// for this session: the impersonated profile's context when viewing as a
// target, and the super admin's own context otherwise. Suspended or
// tenant-less targets yield an authenticated, non-tenant-scoped context.
func (e *Escalated) Context() authctx.Context {
	if e.target == nil {
		ac, err := authctx.SuperAdmin(e.actor)
		if err != nil {
			return authctx.Authenticated(e.actor)
		}
		return ac
	}
	ac, err := authctx.TenantScoped(e.target)
	if err != nil {
		return authctx.Authenticated(e.target)
	}
	return ac
}
