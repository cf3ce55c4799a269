// Package postgres is the PostgreSQL persistence layer for the engine,
// built on pgx/v5 with goose migrations.
//
// It provides the generic database plumbing (Connect with retry, Migrate,
// Healthcheck, error classification helpers) plus the stores backing the
// domain packages: subscriptions and owned academies for quota evaluation,
// academies and groups for access verification, profiles, and the
// append-only audit log. NewCounterRegistry wires a usage counter for every
// quota-bound resource.
//
// CreateGuard is the transactional answer to the quota check-then-act race:
// the count and the creating insert run in one serializable transaction,
// retried on serialization conflicts, so two concurrent creations can never
// both pass the same last slot.
//
// Usage:
//
//	pool, err := postgres.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := postgres.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
//
//	guard := postgres.NewCreateGuard(pool, catalog,
//		postgres.NewSubscriptionStore(pool), postgres.NewAcademyStore(pool),
//		cfg.GuardedCreateRetries)
//	err = guard.GuardedCreate(ctx, scope, quota.ResourceAthletes,
//		func(ctx context.Context, tx pgx.Tx) error {
//			_, err := tx.Exec(ctx, insertAthlete, ...)
//			return err
//		})
package postgres
