package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/academykit/academykit/pkg/quota"
)

// rowQueryer is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// counters serve pool-backed reads and in-transaction reads under
// GuardedCreate.
type rowQueryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tables holding academy-scoped countable rows.
var scopedTables = map[quota.Resource]string{
	quota.ResourceAthletes: "athletes",
	quota.ResourceCoaches:  "coaches",
	quota.ResourceClasses:  "classes",
	quota.ResourceGroups:   "groups",
}

// NewCounterRegistry registers a counter for every quota-bound resource
// reading through q. Counters see committed state when q is a pool and the
// transaction's snapshot when q is a pgx.Tx.
func NewCounterRegistry(q rowQueryer) quota.CounterRegistry {
	registry := quota.NewRegistry()

	for resource, table := range scopedTables {
		registry.Register(resource, scopedCounter(q, table))
	}
	registry.Register(quota.ResourceAcademies, tenantCounter(q, "academies"))

	return registry
}

// scopedCounter counts rows in a tenant, narrowed to one academy when the
// scope names it.
func scopedCounter(q rowQueryer, table string) quota.CounterFunc {
	return func(ctx context.Context, scope quota.Scope) (int64, error) {
		query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id = $1`, table)
		args := []any{scope.TenantID}
		if scope.AcademyID != (uuid.UUID{}) {
			query += ` AND academy_id = $2`
			args = append(args, scope.AcademyID)
		}

		var count int64
		if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
			return 0, errors.Join(quota.ErrFailedToCount, err)
		}
		return count, nil
	}
}

// tenantCounter counts rows across the whole tenant regardless of academy.
func tenantCounter(q rowQueryer, table string) quota.CounterFunc {
	return func(ctx context.Context, scope quota.Scope) (int64, error) {
		var count int64
		query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id = $1`, table)
		if err := q.QueryRow(ctx, query, scope.TenantID).Scan(&count); err != nil {
			return 0, errors.Join(quota.ErrFailedToCount, err)
		}
		return count, nil
	}
}
