package quota

import (
	"context"
	"errors"
	"fmt"
)

// Source defines how plans are loaded into the catalog.
type Source interface {
	Load(ctx context.Context) (map[PlanCode]Plan, error)
}

// Catalog is the read-only table of plan tiers and per-resource quotas.
// It is constructed once at process start and never mutated afterwards;
// that immutability is what makes it safe to share across requests.
type Catalog struct {
	plans map[PlanCode]Plan
}

// NewCatalog loads and validates plans from the given source.
func NewCatalog(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		panic("quota: Source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if plans == nil {
		plans = make(map[PlanCode]Plan)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	return &Catalog{plans: plans}, nil
}

// Plan returns the plan for the given code.
func (c *Catalog) Plan(code PlanCode) (Plan, bool) {
	plan, ok := c.plans[code]
	return plan, ok
}

// NextAbove returns the plan of the tier strictly above the given code.
// Walks past tiers missing from the catalog so a sparse catalog still
// produces upgrade guidance.
func (c *Catalog) NextAbove(code PlanCode) (Plan, bool) {
	for {
		next, ok := code.NextTier()
		if !ok {
			return Plan{}, false
		}
		if plan, exists := c.plans[next]; exists {
			return plan, true
		}
		code = next
	}
}

// Codes returns the catalog's plan codes in tier order.
func (c *Catalog) Codes() []PlanCode {
	codes := make([]PlanCode, 0, len(c.plans))
	for _, code := range tierOrder {
		if _, ok := c.plans[code]; ok {
			codes = append(codes, code)
		}
	}
	return codes
}

func validatePlans(plans map[PlanCode]Plan) error {
	for code, plan := range plans {
		if !code.Valid() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("unknown plan code %q", code))
		}
		for res, limit := range plan.Limits {
			if limit < 0 && limit != Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s has negative limit %d for %s", code, limit, res))
			}
		}
	}
	return nil
}
