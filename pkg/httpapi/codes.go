package httpapi

// Stable machine-readable error codes of the JSON error contract.
// Clients branch on these, never on messages.
const (
	CodeLimitReached         = "LIMIT_REACHED"
	CodeAcademyAccessDenied  = "ACADEMY_ACCESS_DENIED"
	CodeAcademyNotFound      = "ACADEMY_NOT_FOUND"
	CodeGroupNotFound        = "GROUP_NOT_FOUND"
	CodePlanLimitViolations  = "PLAN_LIMIT_VIOLATIONS"
	CodeTenantRequired       = "TENANT_REQUIRED"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeImmutableSuperAdmin  = "IMMUTABLE_SUPER_ADMIN"
	CodeProfileNotFound      = "PROFILE_NOT_FOUND"
	CodeNoActiveSubscription = "NO_ACTIVE_SUBSCRIPTION"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInternalError        = "INTERNAL_ERROR"
)

// ErrorResponse is the generic error body. Details is populated only for
// limit errors.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message,omitempty"`
	Details *LimitDetails `json:"details,omitempty"`
}

// LimitDetails carries the actionable context behind a LIMIT_REACHED reply.
type LimitDetails struct {
	Resource     string       `json:"resource"`
	Limit        int64        `json:"limit"`
	CurrentCount int64        `json:"currentCount"`
	UpgradeTo    string       `json:"upgradeTo,omitempty"`
	UpgradeInfo  *UpgradeInfo `json:"upgradeInfo,omitempty"`
}

// UpgradeInfo describes the plan the caller is invited to upgrade to.
type UpgradeInfo struct {
	Plan     string   `json:"plan"`
	Price    Price    `json:"price"`
	Benefits []string `json:"benefits"`
}

// Price is a monetary amount in the smallest currency unit.
type Price struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ViolationsResponse is the body of a PLAN_LIMIT_VIOLATIONS reply, returned
// when a plan change would leave resources over the target plan's limits.
type ViolationsResponse struct {
	Error          string          `json:"error"`
	TargetPlan     string          `json:"targetPlan"`
	RequiresAction bool            `json:"requiresAction"`
	Violations     []ViolationBody `json:"violations"`
}

// ViolationBody is one over-limit resource in a ViolationsResponse.
type ViolationBody struct {
	Resource     string `json:"resource"`
	AcademyID    string `json:"academyId"`
	AcademyName  string `json:"academyName"`
	CurrentCount int64  `json:"currentCount"`
	Limit        int64  `json:"limit"`
}
