package quota

// PlanCode identifies a plan tier. Tiers are strictly ordered; upgrade
// guidance always points to the next tier above the current one.
type PlanCode string

const (
	PlanFree    PlanCode = "free"
	PlanPro     PlanCode = "pro"
	PlanPremium PlanCode = "premium"
)

// tierOrder defines the strict ordering of plan tiers, lowest first.
var tierOrder = []PlanCode{PlanFree, PlanPro, PlanPremium}

// Valid reports whether the code names a known plan tier.
func (c PlanCode) Valid() bool {
	for _, code := range tierOrder {
		if code == c {
			return true
		}
	}
	return false
}

// NextTier returns the plan code strictly above this one.
// Returns false for the top tier and for unknown codes.
func (c PlanCode) NextTier() (PlanCode, bool) {
	for i, code := range tierOrder {
		if code == c && i+1 < len(tierOrder) {
			return tierOrder[i+1], true
		}
	}
	return "", false
}

// Plan describes a plan tier and its per-resource quotas.
type Plan struct {
	Code     PlanCode
	Nickname string
	Limits   map[Resource]int64 // Unlimited (-1) disables the cap
	Price    Money
	Benefits []string
}

// LimitFor returns the plan's limit for a resource.
// The second return value is false when the resource is not quota-bound
// under this plan.
func (p Plan) LimitFor(res Resource) (int64, bool) {
	limit, ok := p.Limits[res]
	return limit, ok
}

// IsUnlimited reports whether the plan places no cap on the resource.
func (p Plan) IsUnlimited(res Resource) bool {
	limit, ok := p.Limits[res]
	return ok && limit == Unlimited
}
