package httpapi

import (
	"net/http"

	"github.com/academykit/academykit/pkg/authctx"
	"github.com/academykit/academykit/pkg/profile"
)

// RequireTenant rejects requests whose resolved context carries no tenant
// scope: anonymous callers get 401, suspended identities 403, tenant-less
// profiles 400 TENANT_REQUIRED. Mount behind authctx.Middleware.
func (rp *Responder) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc, ok := authctx.FromContext(r.Context())
		if !ok {
			rp.WriteError(w, r, authctx.ErrNoContext)
			return
		}
		if _, err := tc.TenantID(); err != nil {
			rp.WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin admits only super-admin contexts.
func (rp *Responder) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc, ok := authctx.FromContext(r.Context())
		if !ok {
			rp.WriteError(w, r, authctx.ErrNoContext)
			return
		}
		if tc.Kind() == authctx.KindAnonymous {
			rp.WriteError(w, r, authctx.ErrUnauthenticated)
			return
		}
		if !tc.IsSuperAdmin() {
			rp.WriteError(w, r, authctx.ErrNotSuperAdmin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits tenant-scoped contexts whose profile holds one of the
// given roles. Super admins pass regardless.
func (rp *Responder) RequireRole(roles ...authctx.Role) func(http.Handler) http.Handler {
	allowed := make(map[authctx.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, ok := authctx.FromContext(r.Context())
			if !ok {
				rp.WriteError(w, r, authctx.ErrNoContext)
				return
			}
			if tc.IsSuperAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			role, ok := tc.Role()
			if !ok {
				rp.WriteError(w, r, authctx.ErrUnauthenticated)
				return
			}
			if _, ok := allowed[role]; !ok {
				rp.WriteError(w, r, profile.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
