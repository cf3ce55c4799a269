package authctx

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Kind discriminates the request context variants.
type Kind int

const (
	KindAnonymous Kind = iota
	KindAuthenticated
	KindTenantScoped
	KindSuperAdmin
)

// Context is the sealed, request-scoped authorization context. It is a
// tagged union over the shapes a handler may require: anonymous,
// authenticated without a tenant, tenant-scoped, or super-admin. A Context
// is immutable and never shared across concurrent requests.
type Context struct {
	kind     Kind
	profile  *Profile
	tenantID uuid.UUID
}

// Anonymous returns the context for requests without a credential.
func Anonymous() Context {
	return Context{kind: KindAnonymous}
}

// Authenticated returns a context for a resolved profile without tenant
// scope. Suspended profiles resolve to this kind so that every
// tenant-scoped operation they attempt is denied.
func Authenticated(p *Profile) Context {
	return Context{kind: KindAuthenticated, profile: p}
}

// TenantScoped returns a tenant-scoped context for the profile.
// Fails with ErrTenantRequired when the profile has no tenant and with
// ErrSuspended when the identity is suspended.
func TenantScoped(p *Profile) (Context, error) {
	if p.Suspended {
		return Context{}, ErrSuspended
	}
	if p.TenantID == nil {
		return Context{}, ErrTenantRequired
	}
	return Context{kind: KindTenantScoped, profile: p, tenantID: *p.TenantID}, nil
}

// SuperAdmin returns a super-admin context for the profile.
// Fails with ErrNotSuperAdmin for any other role and ErrSuspended for
// suspended identities.
func SuperAdmin(p *Profile) (Context, error) {
	if p.Role != RoleSuperAdmin {
		return Context{}, ErrNotSuperAdmin
	}
	if p.Suspended {
		return Context{}, ErrSuspended
	}
	return Context{kind: KindSuperAdmin, profile: p}, nil
}

// Kind returns the context variant.
func (c Context) Kind() Kind {
	return c.kind
}

// Profile returns the resolved profile, if any.
func (c Context) Profile() (*Profile, bool) {
	return c.profile, c.profile != nil
}

// Role returns the profile's role, if a profile was resolved.
func (c Context) Role() (Role, bool) {
	if c.profile == nil {
		return "", false
	}
	return c.profile.Role, true
}

// IsSuperAdmin reports whether this is a super-admin context.
func (c Context) IsSuperAdmin() bool {
	return c.kind == KindSuperAdmin
}

// TenantID returns the tenant scope. Callers that require a tenant use this
// and branch on the error: ErrUnauthenticated for anonymous requests,
// ErrSuspended for suspended identities, ErrTenantRequired otherwise.
func (c Context) TenantID() (uuid.UUID, error) {
	if c.kind == KindTenantScoped {
		return c.tenantID, nil
	}
	if c.kind == KindAnonymous {
		return uuid.UUID{}, ErrUnauthenticated
	}
	if c.profile != nil && c.profile.Suspended {
		return uuid.UUID{}, ErrSuspended
	}
	return uuid.UUID{}, ErrTenantRequired
}

// ctxKey is a private type to prevent collisions with other context keys.
type ctxKey struct{}

// WithContext attaches the resolved authorization context to ctx.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext retrieves the authorization context.
// Returns an anonymous context and false when none is present.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	if !ok {
		return Anonymous(), false
	}
	return tc, true
}

// MustFromContext retrieves the authorization context or panics.
// Use only in handlers mounted behind the middleware.
func MustFromContext(ctx context.Context) Context {
	tc, ok := FromContext(ctx)
	if !ok {
		panic("authctx: no auth context in request")
	}
	return tc
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts
// the tenant ID and identity from the request context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		tc, ok := FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		if id, err := tc.TenantID(); err == nil {
			return slog.String("tenant_id", id.String()), true
		}
		if p, ok := tc.Profile(); ok {
			return slog.String("profile_id", p.ID.String()), true
		}
		return slog.Attr{}, false
	}
}
