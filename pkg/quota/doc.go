// Package quota evaluates plan-based resource quotas for multi-tenant
// academy accounts.
//
// The package is built around three pieces:
//
//  1. Catalog - the read-only table of plan tiers and per-resource limits,
//     loaded once at process start and injected into the evaluator
//  2. CounterRegistry - per-resource counting functions aggregating over
//     committed storage state
//  3. Evaluator - the enforcement entry points called by request handlers
//
// # Usage
//
//	catalog, err := quota.NewCatalog(ctx, quota.NewInMemSource(quota.DefaultPlans()))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	counters := quota.NewRegistry()
//	counters.Register(quota.ResourceAthletes, store.CountAthletes)
//
//	eval := quota.NewEvaluator(catalog, counters, subStore, academyStore)
//
//	// Before every creating write:
//	if err := eval.AssertCanCreate(ctx, scope, quota.ResourceAthletes); err != nil {
//		var lerr *quota.LimitError
//		if errors.As(err, &lerr) {
//			// expected outcome: respond with upgrade guidance
//		}
//		// otherwise an internal lookup failure
//	}
//
// # Expected outcomes vs faults
//
// Reaching a plan limit is a normal business outcome and is returned as a
// structured *LimitError carrying the limit, the current count, and the next
// tier to upgrade to. Missing catalog rows, missing subscriptions, and
// counter failures are faults and come back as joined sentinel errors
// (ErrPlanNotFound, ErrSubscriptionNotFound, ErrFailedToCount).
//
// # Ordering
//
// AssertCanCreate must complete before the creating write is issued. The
// check and the insert are not atomic on their own; use the storage layer's
// guarded create (one serializable transaction around count+insert) when
// concurrent creations against the same academy are possible.
package quota
