package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academykit/academykit/pkg/access"
	"github.com/academykit/academykit/pkg/quota"
)

// AcademyStore loads academies and groups for tenant-boundary checks and
// downgrade evaluation. It implements access.AcademyProvider,
// access.GroupProvider, and quota.AcademyLister.
type AcademyStore struct {
	pool *pgxpool.Pool
}

// NewAcademyStore creates an academy store. Panics if pool is nil.
func NewAcademyStore(pool *pgxpool.Pool) *AcademyStore {
	if pool == nil {
		panic("postgres: pgxpool.Pool is required")
	}
	return &AcademyStore{pool: pool}
}

// GetAcademy retrieves an academy by ID.
func (s *AcademyStore) GetAcademy(ctx context.Context, id uuid.UUID) (*access.Academy, error) {
	var a access.Academy
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name FROM academies WHERE id = $1`, id,
	).Scan(&a.ID, &a.TenantID, &a.Name)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, access.ErrAcademyNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return &a, nil
}

// GetGroup retrieves a group by ID.
func (s *AcademyStore) GetGroup(ctx context.Context, id uuid.UUID) (*access.Group, error) {
	var g access.Group
	err := s.pool.QueryRow(ctx,
		`SELECT id, academy_id, tenant_id, name FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.AcademyID, &g.TenantID, &g.Name)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, access.ErrGroupNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return &g, nil
}

// ListByOwner returns every academy owned by the identity, ordered by
// creation so downgrade reports come out stable.
func (s *AcademyStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]quota.Academy, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, owner_id, name FROM academies WHERE owner_id = $1 ORDER BY created_at`, ownerID,
	)
	if err != nil {
		return nil, errors.Join(quota.ErrFailedToListAcademies, err)
	}
	defer rows.Close()

	var academies []quota.Academy
	for rows.Next() {
		var a quota.Academy
		if err := rows.Scan(&a.ID, &a.TenantID, &a.OwnerID, &a.Name); err != nil {
			return nil, errors.Join(quota.ErrFailedToListAcademies, err)
		}
		academies = append(academies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(quota.ErrFailedToListAcademies, err)
	}
	return academies, nil
}
