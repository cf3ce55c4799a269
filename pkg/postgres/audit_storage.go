package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academykit/academykit/pkg/audit"
)

// AuditStorage appends audit events to PostgreSQL. It implements
// audit.Storage; the table carries no update or delete path and metadata is
// stored as jsonb.
type AuditStorage struct {
	pool *pgxpool.Pool
}

// NewAuditStorage creates an audit storage. Panics if pool is nil.
func NewAuditStorage(pool *pgxpool.Pool) *AuditStorage {
	if pool == nil {
		panic("postgres: pgxpool.Pool is required")
	}
	return &AuditStorage{pool: pool}
}

// Append stores a single event.
func (s *AuditStorage) Append(ctx context.Context, event audit.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events
			(id, actor_id, impersonated_id, tenant_id, action, resource, resource_id, result, error, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID,
		event.ActorID,
		event.ImpersonatedID,
		event.TenantID,
		event.Action,
		event.Resource,
		event.ResourceID,
		event.Result,
		event.Error,
		event.Metadata,
		event.CreatedAt,
	)
	if err != nil {
		return errors.Join(audit.ErrStorageNotAvailable, err)
	}
	return nil
}
