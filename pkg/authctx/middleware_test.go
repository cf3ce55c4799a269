package authctx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/academykit/pkg/authctx"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	provider := authctx.NewMemoryProfileProvider()
	tenantID := uuid.New()
	provider.Put("tok", authctx.Profile{ID: uuid.New(), Role: authctx.RoleOwner, TenantID: &tenantID})
	resolver := authctx.NewResolver(authctx.BearerResolver{}, provider)

	var seen authctx.Context
	handler := authctx.Middleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = authctx.MustFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("attaches resolved context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/athletes", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, authctx.KindTenantScoped, seen.Kind())
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/athletes", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, authctx.KindAnonymous, seen.Kind())
	})

	t.Run("invalid credential yields 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/athletes", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		skipping := authctx.Middleware(resolver, authctx.WithSkipPaths([]string{"/health"}))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok := authctx.FromContext(r.Context())
				assert.False(t, ok)
				w.WriteHeader(http.StatusOK)
			}))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()

		skipping.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := authctx.RequireTenant(nil)(next)

	serve := func(t *testing.T, tc authctx.Context) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/athletes", nil)
		req = req.WithContext(authctx.WithContext(req.Context(), tc))
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		return rec
	}

	t.Run("tenant scoped passes", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		tc, err := authctx.TenantScoped(&authctx.Profile{ID: uuid.New(), Role: authctx.RoleOwner, TenantID: &tid})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, serve(t, tc).Code)
	})

	t.Run("anonymous is 401", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusUnauthorized, serve(t, authctx.Anonymous()).Code)
	})

	t.Run("no tenant is 400", func(t *testing.T) {
		t.Parallel()

		tc := authctx.Authenticated(&authctx.Profile{ID: uuid.New(), Role: authctx.RoleCoach})
		assert.Equal(t, http.StatusBadRequest, serve(t, tc).Code)
	})

	t.Run("suspended is 403 even for owner", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		tc := authctx.Authenticated(&authctx.Profile{
			ID: uuid.New(), Role: authctx.RoleOwner, TenantID: &tid, Suspended: true,
		})
		assert.Equal(t, http.StatusForbidden, serve(t, tc).Code)
	})

	t.Run("missing context is 401", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/athletes", nil)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
