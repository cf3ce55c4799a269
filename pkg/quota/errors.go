package quota

import "errors"

var (
	ErrPlanNotFound             = errors.New("plan not found in catalog")
	ErrInvalidResource          = errors.New("resource is not quota-bound under this plan")
	ErrInvalidPlanConfiguration = errors.New("invalid plan configuration")
	ErrFailedToLoadPlans        = errors.New("failed to load plan catalog")

	ErrNoCounterRegistered = errors.New("no usage counter registered for resource")
	ErrFailedToCount       = errors.New("failed to count resource usage")

	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrNoActiveSubscription     = errors.New("no active subscription for tenant")
	ErrFailedToLoadSubscription = errors.New("failed to load subscription")

	ErrFailedToListAcademies = errors.New("failed to list owned academies")

	// ErrLimitReached is the sentinel matched by errors.Is for *LimitError.
	// It marks an expected business outcome, not a fault.
	ErrLimitReached = errors.New("plan limit reached")
)
