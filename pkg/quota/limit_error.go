package quota

import "fmt"

// LimitError reports that a creation would exceed the caller's plan limit.
// It is an expected business outcome carrying everything a caller needs to
// build actionable upgrade guidance; match it with errors.As, or test for
// the class with errors.Is(err, ErrLimitReached).
type LimitError struct {
	Resource     Resource `json:"resource"`
	Limit        int64    `json:"limit"`
	CurrentCount int64    `json:"currentCount"`
	UpgradeTo    PlanCode `json:"upgradeTo,omitempty"` // empty when already on the top tier
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("plan limit reached for %s: %d of %d used", e.Resource, e.CurrentCount, e.Limit)
}

// Is makes errors.Is(err, ErrLimitReached) match any *LimitError.
func (e *LimitError) Is(target error) bool {
	return target == ErrLimitReached
}
