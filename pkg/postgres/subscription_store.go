package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academykit/academykit/pkg/quota"
)

// SubscriptionStore reads mirrored subscription state from PostgreSQL.
// It implements quota.SubscriptionStore; writes belong to the billing
// collaborator syncing this table.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewSubscriptionStore creates a subscription store. Panics if pool is nil.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	if pool == nil {
		panic("postgres: pgxpool.Pool is required")
	}
	return &SubscriptionStore{pool: pool}
}

const subscriptionColumns = `owner_id, tenant_id, plan_code, status, created_at, updated_at, canceled_at`

// ByTenant retrieves the subscription paying for a tenant.
func (s *SubscriptionStore) ByTenant(ctx context.Context, tenantID uuid.UUID) (*quota.Subscription, error) {
	return s.get(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE tenant_id = $1`, tenantID)
}

// ByOwner retrieves the subscription belonging to a paying identity.
func (s *SubscriptionStore) ByOwner(ctx context.Context, ownerID uuid.UUID) (*quota.Subscription, error) {
	return s.get(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE owner_id = $1`, ownerID)
}

func (s *SubscriptionStore) get(ctx context.Context, query string, arg any) (*quota.Subscription, error) {
	var sub quota.Subscription
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&sub.OwnerID,
		&sub.TenantID,
		&sub.PlanCode,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
		&sub.CanceledAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, quota.ErrSubscriptionNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return &sub, nil
}
