package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/academykit/academykit/pkg/quota"
)

// CreateFn performs the creating write inside the guarded transaction.
type CreateFn func(ctx context.Context, tx pgx.Tx) error

// CreateGuard closes the check-then-act gap between a quota check and the
// creating insert. Both run inside one serializable transaction: the count
// and the insert see the same snapshot, and PostgreSQL aborts one of two
// racing creations with a serialization conflict (SQLSTATE 40001), which
// the guard retries.
type CreateGuard struct {
	pool      *pgxpool.Pool
	catalog   *quota.Catalog
	subs      quota.SubscriptionStore
	academies quota.AcademyLister
	retries   int
}

// NewCreateGuard creates a guard. Panics if a dependency is nil. A
// non-positive retries count falls back to a single attempt.
func NewCreateGuard(pool *pgxpool.Pool, catalog *quota.Catalog, subs quota.SubscriptionStore, academies quota.AcademyLister, retries int) *CreateGuard {
	if pool == nil {
		panic("postgres: pgxpool.Pool is required")
	}
	if catalog == nil {
		panic("postgres: quota.Catalog is required")
	}
	if subs == nil {
		panic("postgres: quota.SubscriptionStore is required")
	}
	if academies == nil {
		panic("postgres: quota.AcademyLister is required")
	}
	return &CreateGuard{
		pool:      pool,
		catalog:   catalog,
		subs:      subs,
		academies: academies,
		retries:   max(retries, 1),
	}
}

// GuardedCreate checks the quota for the resource and, when within limits,
// runs create in the same serializable transaction. A *quota.LimitError
// comes back unchanged so callers can branch on it; retries exhausted by
// serialization conflicts surface as ErrTooManyConflicts.
func (g *CreateGuard) GuardedCreate(ctx context.Context, scope quota.Scope, resource quota.Resource, create CreateFn) error {
	var err error
	for i := 0; i < g.retries; i++ {
		err = pgx.BeginTxFunc(ctx, g.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
			// Counters read through the transaction so the check shares
			// the insert's snapshot.
			evaluator := quota.NewEvaluator(g.catalog, NewCounterRegistry(tx), g.subs, g.academies)
			if err := evaluator.AssertCanCreate(ctx, scope, resource); err != nil {
				return err
			}
			return create(ctx, tx)
		})
		if err == nil {
			return nil
		}
		if !IsSerializationFailure(err) {
			return err
		}
	}
	return ErrTooManyConflicts
}
