package quota

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Evaluator compares current resource counts against the caller's plan
// limits and computes downgrade violations. It holds no locks and keeps no
// per-request state; the catalog it reads is immutable after startup.
//
// Callers must invoke AssertCanCreate before issuing the creating write,
// never after. The count-then-insert pair is not atomic by itself; the
// storage layer closes that gap (see postgres.GuardedCreate).
type Evaluator struct {
	catalog   *Catalog
	counters  CounterRegistry
	subs      SubscriptionStore
	academies AcademyLister
}

// NewEvaluator creates an Evaluator. Panics if a required dependency is nil
// to fail fast during initialization.
func NewEvaluator(catalog *Catalog, counters CounterRegistry, subs SubscriptionStore, academies AcademyLister) *Evaluator {
	if catalog == nil {
		panic("quota: Catalog is required")
	}
	if subs == nil {
		panic("quota: SubscriptionStore is required")
	}
	if academies == nil {
		panic("quota: AcademyLister is required")
	}
	if counters == nil {
		counters = NewRegistry()
	}

	return &Evaluator{
		catalog:   catalog,
		counters:  counters,
		subs:      subs,
		academies: academies,
	}
}

// AssertCanCreate checks whether one more instance of res may be created
// within the scope. Returns nil when allowed, a *LimitError when the plan
// limit is reached, and a joined internal error for lookup failures.
func (e *Evaluator) AssertCanCreate(ctx context.Context, scope Scope, res Resource) error {
	plan, err := e.planForTenant(ctx, scope.TenantID)
	if err != nil {
		return err
	}

	limit, ok := plan.LimitFor(res)
	if !ok {
		return ErrInvalidResource
	}
	if limit == Unlimited {
		return nil
	}

	current, err := e.count(ctx, scope, res)
	if err != nil {
		return err
	}

	if current >= limit {
		lerr := &LimitError{
			Resource:     res,
			Limit:        limit,
			CurrentCount: current,
		}
		if next, ok := e.catalog.NextAbove(plan.Code); ok {
			lerr.UpgradeTo = next.Code
		}
		return lerr
	}

	return nil
}

// CheckDowngrade recomputes usage for every academy owned by ownerID
// against the target plan's limits. The report lists each resource whose
// current count exceeds the target limit; RequiresAction is false iff the
// violation list is empty.
func (e *Evaluator) CheckDowngrade(ctx context.Context, ownerID uuid.UUID, target PlanCode) (*DowngradeReport, error) {
	plan, ok := e.catalog.Plan(target)
	if !ok {
		return nil, ErrPlanNotFound
	}

	owned, err := e.academies.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Join(ErrFailedToListAcademies, err)
	}

	report := &DowngradeReport{
		TargetPlan: target,
		Violations: make([]Violation, 0),
	}

	// Academies are counted per tenant, not per academy, so that check
	// runs once per distinct tenant to avoid duplicate violations.
	if limit, bound := plan.LimitFor(ResourceAcademies); bound && limit != Unlimited {
		seen := make(map[uuid.UUID]struct{}, 1)
		for _, academy := range owned {
			if _, ok := seen[academy.TenantID]; ok {
				continue
			}
			seen[academy.TenantID] = struct{}{}

			current, err := e.count(ctx, Scope{TenantID: academy.TenantID}, ResourceAcademies)
			if err != nil {
				return nil, err
			}
			if current > limit {
				report.Violations = append(report.Violations, Violation{
					Resource:     ResourceAcademies,
					CurrentCount: current,
					Limit:        limit,
				})
			}
		}
	}

	// Fixed resource order keeps violation lists deterministic across runs.
	for _, academy := range owned {
		for _, res := range QuotaBoundResources {
			if res == ResourceAcademies {
				continue
			}
			limit, bound := plan.LimitFor(res)
			if !bound || limit == Unlimited {
				continue
			}

			current, err := e.count(ctx, Scope{TenantID: academy.TenantID, AcademyID: academy.ID}, res)
			if err != nil {
				return nil, err
			}

			if current > limit {
				report.Violations = append(report.Violations, Violation{
					Resource:     res,
					AcademyID:    academy.ID,
					AcademyName:  academy.Name,
					CurrentCount: current,
					Limit:        limit,
				})
			}
		}
	}

	report.RequiresAction = len(report.Violations) > 0
	return report, nil
}

// Usage returns the current usage and limit for a resource in a scope.
func (e *Evaluator) Usage(ctx context.Context, scope Scope, res Resource) (UsageInfo, error) {
	plan, err := e.planForTenant(ctx, scope.TenantID)
	if err != nil {
		return UsageInfo{}, err
	}

	limit, ok := plan.LimitFor(res)
	if !ok {
		return UsageInfo{}, ErrInvalidResource
	}

	current, err := e.count(ctx, scope, res)
	if err != nil {
		return UsageInfo{}, err
	}

	return UsageInfo{Current: current, Limit: limit}, nil
}

// UsagePercent returns usage as a percentage (0-100, or -1 for unlimited).
// Returns 0 on any lookup error; meant for dashboards, not enforcement.
func (e *Evaluator) UsagePercent(ctx context.Context, scope Scope, res Resource) int {
	usage, err := e.Usage(ctx, scope, res)
	if err != nil {
		return 0
	}
	if usage.Limit == Unlimited {
		return -1
	}
	if usage.Limit == 0 {
		return 100
	}
	return min(int((usage.Current*100)/usage.Limit), 100)
}

// Plan resolves the plan currently paying for a tenant.
func (e *Evaluator) Plan(ctx context.Context, tenantID uuid.UUID) (Plan, error) {
	return e.planForTenant(ctx, tenantID)
}

// Subscription resolves the subscription paying for a tenant. A missing
// subscription keeps its ErrSubscriptionNotFound identity; storage faults
// are wrapped as ErrFailedToLoadSubscription so they escalate as internal
// errors rather than reading as a billing outcome.
func (e *Evaluator) Subscription(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	sub, err := e.subs.ByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrFailedToLoadSubscription, err)
	}
	return sub, nil
}

func (e *Evaluator) planForTenant(ctx context.Context, tenantID uuid.UUID) (Plan, error) {
	sub, err := e.Subscription(ctx, tenantID)
	if err != nil {
		return Plan{}, err
	}

	if !sub.IsActive() {
		return Plan{}, ErrNoActiveSubscription
	}

	plan, ok := e.catalog.Plan(sub.PlanCode)
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

func (e *Evaluator) count(ctx context.Context, scope Scope, res Resource) (int64, error) {
	counter, ok := e.counters[res]
	if !ok {
		return 0, ErrNoCounterRegistered
	}

	current, err := counter(ctx, scope)
	if err != nil {
		return 0, errors.Join(ErrFailedToCount, err)
	}
	return current, nil
}
