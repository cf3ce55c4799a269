package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/academykit/pkg/access"
)

func TestVerifyAcademyAccess(t *testing.T) {
	t.Parallel()

	tenantA := uuid.New()
	tenantB := uuid.New()
	academyID := uuid.New()

	provider := access.NewMemoryProvider()
	provider.PutAcademy(access.Academy{ID: academyID, TenantID: tenantA, Name: "Main Dojo"})
	verifier := access.NewVerifier(provider, provider)

	t.Run("same tenant is allowed", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyAcademyAccess(context.Background(), academyID, tenantA)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Empty(t, decision.Reason)
	})

	t.Run("tenant mismatch is denied", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyAcademyAccess(context.Background(), academyID, tenantB)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, access.ReasonAcademyAccessDenied, decision.Reason)
	})

	t.Run("missing academy is denied with not found", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyAcademyAccess(context.Background(), uuid.New(), tenantA)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, access.ReasonAcademyNotFound, decision.Reason)
	})

	t.Run("identical calls return identical decisions", func(t *testing.T) {
		t.Parallel()

		first, err := verifier.VerifyAcademyAccess(context.Background(), academyID, tenantB)
		require.NoError(t, err)
		second, err := verifier.VerifyAcademyAccess(context.Background(), academyID, tenantB)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestVerifyGroupAccess(t *testing.T) {
	t.Parallel()

	tenantA := uuid.New()
	tenantB := uuid.New()
	academyA := uuid.New()
	academyB := uuid.New()
	groupID := uuid.New()

	provider := access.NewMemoryProvider()
	provider.PutGroup(access.Group{ID: groupID, AcademyID: academyA, TenantID: tenantA, Name: "Juniors"})
	verifier := access.NewVerifier(provider, provider)

	t.Run("same tenant and academy is allowed", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyGroupAccess(context.Background(), groupID, tenantA, academyA)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("zero academy skips the academy check", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyGroupAccess(context.Background(), groupID, tenantA, uuid.UUID{})
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("cross-tenant group reads as not found", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyGroupAccess(context.Background(), groupID, tenantB, academyA)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, access.ReasonGroupNotFound, decision.Reason)
	})

	t.Run("wrong academy reads as not found", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyGroupAccess(context.Background(), groupID, tenantA, academyB)
		require.NoError(t, err)
		assert.Equal(t, access.ReasonGroupNotFound, decision.Reason)
	})

	t.Run("missing group reads as not found", func(t *testing.T) {
		t.Parallel()

		decision, err := verifier.VerifyGroupAccess(context.Background(), uuid.New(), tenantA, academyA)
		require.NoError(t, err)
		assert.Equal(t, access.ReasonGroupNotFound, decision.Reason)
	})

	// Denied cross-tenant and missing groups must be indistinguishable.
	t.Run("cross-tenant and missing are identical decisions", func(t *testing.T) {
		t.Parallel()

		foreign, err := verifier.VerifyGroupAccess(context.Background(), groupID, tenantB, academyA)
		require.NoError(t, err)
		missing, err := verifier.VerifyGroupAccess(context.Background(), uuid.New(), tenantB, academyA)
		require.NoError(t, err)
		assert.Equal(t, foreign, missing)
	})
}

type failingProvider struct{ err error }

func (p *failingProvider) GetAcademy(ctx context.Context, id uuid.UUID) (*access.Academy, error) {
	return nil, p.err
}

func (p *failingProvider) GetGroup(ctx context.Context, id uuid.UUID) (*access.Group, error) {
	return nil, p.err
}

func TestVerifierStorageFailure(t *testing.T) {
	t.Parallel()

	dbDown := errors.New("connection reset")
	verifier := access.NewVerifier(&failingProvider{err: dbDown}, &failingProvider{err: dbDown})

	_, err := verifier.VerifyAcademyAccess(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, access.ErrLookupFailed)
	assert.ErrorIs(t, err, dbDown)

	_, err = verifier.VerifyGroupAccess(context.Background(), uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, access.ErrLookupFailed)
}
