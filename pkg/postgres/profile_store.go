package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academykit/academykit/pkg/authctx"
	"github.com/academykit/academykit/pkg/profile"
)

// ProfileStore persists profiles. It implements profile.Store; there is no
// delete because profiles are only ever suspended.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore creates a profile store. Panics if pool is nil.
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	if pool == nil {
		panic("postgres: pgxpool.Pool is required")
	}
	return &ProfileStore{pool: pool}
}

// Get retrieves a profile by ID.
func (s *ProfileStore) Get(ctx context.Context, id uuid.UUID) (*authctx.Profile, error) {
	var p authctx.Profile
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, role, tenant_id, suspended FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Email, &p.Role, &p.TenantID, &p.Suspended)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, profile.ErrNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return &p, nil
}

// Save creates or updates a profile.
func (s *ProfileStore) Save(ctx context.Context, p *authctx.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, email, role, tenant_id, suspended)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    role = EXCLUDED.role,
		    tenant_id = EXCLUDED.tenant_id,
		    suspended = EXCLUDED.suspended`,
		p.ID, p.Email, p.Role, p.TenantID, p.Suspended,
	)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}
