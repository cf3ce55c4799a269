package quota

import "github.com/google/uuid"

// Resource represents a countable, quota-bound academy resource type.
type Resource string

// Quota-bound resource types.
const (
	ResourceAthletes  Resource = "athletes"
	ResourceCoaches   Resource = "coaches"
	ResourceClasses   Resource = "classes"
	ResourceGroups    Resource = "groups"
	ResourceAcademies Resource = "academies"
)

// QuotaBoundResources lists every resource type capped by a plan, in the
// order reports and violations are produced.
var QuotaBoundResources = []Resource{
	ResourceAthletes,
	ResourceCoaches,
	ResourceClasses,
	ResourceGroups,
	ResourceAcademies,
}

const (
	// Unlimited indicates no limit for a resource (-1 chosen for SQL compatibility).
	// It is a sentinel and must never be compared numerically against counts.
	Unlimited int64 = -1
)

// Money represents a monetary amount in the smallest currency unit.
// For example, $29.00 USD is Amount: 2900, Currency: "USD".
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Scope identifies where resources are counted: a tenant, and optionally a
// single academy within it. A zero AcademyID scopes the count to the whole
// tenant (used for the academies resource itself).
type Scope struct {
	TenantID  uuid.UUID
	AcademyID uuid.UUID
}

// UsageInfo contains the current usage and limit for a resource.
type UsageInfo struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}

// Violation describes a resource whose current count exceeds the limit of a
// prospective new plan.
type Violation struct {
	Resource     Resource  `json:"resource"`
	AcademyID    uuid.UUID `json:"academyId"`
	AcademyName  string    `json:"academyName"`
	CurrentCount int64     `json:"currentCount"`
	Limit        int64     `json:"limit"`
}

// DowngradeReport is the result of evaluating a plan change against current
// usage. RequiresAction is true when at least one violation exists.
type DowngradeReport struct {
	TargetPlan     PlanCode    `json:"targetPlan"`
	RequiresAction bool        `json:"requiresAction"`
	Violations     []Violation `json:"violations"`
}

// Academy is the minimal academy projection the evaluator needs when
// recomputing usage across everything an identity owns.
type Academy struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	OwnerID  uuid.UUID
	Name     string
}
