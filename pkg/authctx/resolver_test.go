package authctx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/academykit/pkg/authctx"
)

func newRequest(t *testing.T, headers map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/athletes", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	provider := authctx.NewMemoryProfileProvider()
	tenantID := uuid.New()
	provider.Put("tok-owner", authctx.Profile{
		ID:       uuid.New(),
		Role:     authctx.RoleOwner,
		TenantID: &tenantID,
	})
	provider.Put("tok-floating", authctx.Profile{
		ID:   uuid.New(),
		Role: authctx.RoleCoach,
	})
	provider.Put("tok-root", authctx.Profile{
		ID:   uuid.New(),
		Role: authctx.RoleSuperAdmin,
	})
	suspended := authctx.Profile{
		ID:        uuid.New(),
		Role:      authctx.RoleOwner,
		TenantID:  &tenantID,
		Suspended: true,
	}
	provider.Put("tok-suspended", suspended)

	resolver := authctx.NewResolver(authctx.BearerResolver{}, provider)

	t.Run("no credential resolves anonymous", func(t *testing.T) {
		t.Parallel()

		tc, err := resolver.Resolve(newRequest(t, nil))
		require.NoError(t, err)
		assert.Equal(t, authctx.KindAnonymous, tc.Kind())
	})

	t.Run("valid credential resolves tenant scope", func(t *testing.T) {
		t.Parallel()

		tc, err := resolver.Resolve(newRequest(t, map[string]string{"Authorization": "Bearer tok-owner"}))
		require.NoError(t, err)
		assert.Equal(t, authctx.KindTenantScoped, tc.Kind())

		id, err := tc.TenantID()
		require.NoError(t, err)
		assert.Equal(t, tenantID, id)
	})

	t.Run("profile without tenant resolves authenticated", func(t *testing.T) {
		t.Parallel()

		tc, err := resolver.Resolve(newRequest(t, map[string]string{"Authorization": "Bearer tok-floating"}))
		require.NoError(t, err)
		assert.Equal(t, authctx.KindAuthenticated, tc.Kind())

		_, err = tc.TenantID()
		assert.ErrorIs(t, err, authctx.ErrTenantRequired)
	})

	t.Run("super admin resolves escalatable context", func(t *testing.T) {
		t.Parallel()

		tc, err := resolver.Resolve(newRequest(t, map[string]string{"Authorization": "Bearer tok-root"}))
		require.NoError(t, err)
		assert.True(t, tc.IsSuperAdmin())
	})

	t.Run("suspended profile never gets tenant scope", func(t *testing.T) {
		t.Parallel()

		tc, err := resolver.Resolve(newRequest(t, map[string]string{"Authorization": "Bearer tok-suspended"}))
		require.NoError(t, err)
		assert.Equal(t, authctx.KindAuthenticated, tc.Kind())

		_, err = tc.TenantID()
		assert.ErrorIs(t, err, authctx.ErrSuspended)
	})

	t.Run("unknown credential fails unauthenticated", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(newRequest(t, map[string]string{"Authorization": "Bearer nope"}))
		assert.ErrorIs(t, err, authctx.ErrUnauthenticated)
	})
}

type countingProvider struct {
	inner *authctx.MemoryProfileProvider
	calls int
}

func (p *countingProvider) GetByCredential(ctx context.Context, credential string) (*authctx.Profile, error) {
	p.calls++
	return p.inner.GetByCredential(ctx, credential)
}

func TestResolverCache(t *testing.T) {
	t.Parallel()

	inner := authctx.NewMemoryProfileProvider()
	tenantID := uuid.New()
	inner.Put("tok", authctx.Profile{ID: uuid.New(), Role: authctx.RoleAdmin, TenantID: &tenantID})
	provider := &countingProvider{inner: inner}

	cache := authctx.NewMemoryCache()
	t.Cleanup(func() { _ = cache.Close() })

	resolver := authctx.NewResolver(authctx.BearerResolver{}, provider,
		authctx.WithCache(cache, time.Minute))

	req := newRequest(t, map[string]string{"Authorization": "Bearer tok"})
	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(req)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, provider.calls)
}

type brokenProvider struct{}

func (brokenProvider) GetByCredential(ctx context.Context, credential string) (*authctx.Profile, error) {
	return nil, errors.New("storage offline")
}

func TestResolverLookupFailure(t *testing.T) {
	t.Parallel()

	resolver := authctx.NewResolver(authctx.BearerResolver{}, brokenProvider{})

	_, err := resolver.Resolve(newRequest(t, map[string]string{"Authorization": "Bearer tok"}))
	assert.ErrorIs(t, err, authctx.ErrLookupFailed)
	assert.NotErrorIs(t, err, authctx.ErrUnauthenticated)
}

func TestCredentialResolvers(t *testing.T) {
	t.Parallel()

	t.Run("bearer", func(t *testing.T) {
		t.Parallel()

		cred, err := authctx.BearerResolver{}.Resolve(newRequest(t, map[string]string{"Authorization": "Bearer abc"}))
		require.NoError(t, err)
		assert.Equal(t, "abc", cred)

		cred, err = authctx.BearerResolver{}.Resolve(newRequest(t, map[string]string{"Authorization": "Basic abc"}))
		require.NoError(t, err)
		assert.Empty(t, cred)
	})

	t.Run("header", func(t *testing.T) {
		t.Parallel()

		cred, err := authctx.HeaderResolver{HeaderName: "X-Api-Key"}.Resolve(newRequest(t, map[string]string{"X-Api-Key": "k1"}))
		require.NoError(t, err)
		assert.Equal(t, "k1", cred)
	})

	t.Run("composite picks first non-empty", func(t *testing.T) {
		t.Parallel()

		composite := authctx.NewCompositeResolver(
			authctx.BearerResolver{},
			authctx.HeaderResolver{HeaderName: "X-Api-Key"},
		)

		cred, err := composite.Resolve(newRequest(t, map[string]string{"X-Api-Key": "k1"}))
		require.NoError(t, err)
		assert.Equal(t, "k1", cred)

		cred, err = composite.Resolve(newRequest(t, map[string]string{
			"Authorization": "Bearer abc",
			"X-Api-Key":     "k1",
		}))
		require.NoError(t, err)
		assert.Equal(t, "abc", cred)
	})
}
