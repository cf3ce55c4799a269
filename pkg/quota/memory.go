package quota

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// inMemSource implements the Source interface using an in-memory plan map.
type inMemSource struct {
	plans map[PlanCode]Plan
}

// NewInMemSource returns an in-memory Source with a deep copy of the given plans.
func NewInMemSource(plans map[PlanCode]Plan) Source {
	return &inMemSource{plans: clonePlans(plans)}
}

// Load returns a copy of all available plans from memory.
func (s *inMemSource) Load(ctx context.Context) (map[PlanCode]Plan, error) {
	return clonePlans(s.plans), nil
}

func clonePlans(plans map[PlanCode]Plan) map[PlanCode]Plan {
	out := make(map[PlanCode]Plan, len(plans))
	for code, plan := range plans {
		plan.Limits = maps.Clone(plan.Limits)
		plan.Benefits = slices.Clone(plan.Benefits)
		out[code] = plan
	}
	return out
}

// DefaultPlans returns the built-in free/pro/premium catalog.
func DefaultPlans() map[PlanCode]Plan {
	return map[PlanCode]Plan{
		PlanFree: {
			Code:     PlanFree,
			Nickname: "Starter",
			Limits: map[Resource]int64{
				ResourceAthletes:  50,
				ResourceCoaches:   2,
				ResourceClasses:   10,
				ResourceGroups:    5,
				ResourceAcademies: 1,
			},
			Price:    Money{Amount: 0, Currency: "USD"},
			Benefits: []string{"1 academy", "Up to 50 athletes"},
		},
		PlanPro: {
			Code:     PlanPro,
			Nickname: "Pro",
			Limits: map[Resource]int64{
				ResourceAthletes:  200,
				ResourceCoaches:   10,
				ResourceClasses:   50,
				ResourceGroups:    25,
				ResourceAcademies: 3,
			},
			Price:    Money{Amount: 2900, Currency: "USD"},
			Benefits: []string{"3 academies", "Up to 200 athletes", "Priority support"},
		},
		PlanPremium: {
			Code:     PlanPremium,
			Nickname: "Premium",
			Limits: map[Resource]int64{
				ResourceAthletes:  Unlimited,
				ResourceCoaches:   Unlimited,
				ResourceClasses:   Unlimited,
				ResourceGroups:    Unlimited,
				ResourceAcademies: Unlimited,
			},
			Price:    Money{Amount: 9900, Currency: "USD"},
			Benefits: []string{"Unlimited academies", "Unlimited athletes", "Dedicated support"},
		},
	}
}

// MemorySubscriptionStore is an in-memory SubscriptionStore for tests and
// development wiring.
type MemorySubscriptionStore struct {
	mu       sync.RWMutex
	byTenant map[uuid.UUID]*Subscription
	byOwner  map[uuid.UUID]*Subscription
}

// NewMemorySubscriptionStore returns an empty in-memory subscription store.
func NewMemorySubscriptionStore() *MemorySubscriptionStore {
	return &MemorySubscriptionStore{
		byTenant: make(map[uuid.UUID]*Subscription),
		byOwner:  make(map[uuid.UUID]*Subscription),
	}
}

// Put stores or replaces a subscription.
func (s *MemorySubscriptionStore) Put(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.byTenant[sub.TenantID] = &cp
	s.byOwner[sub.OwnerID] = &cp
}

// ByTenant retrieves the subscription paying for a tenant.
func (s *MemorySubscriptionStore) ByTenant(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.byTenant[tenantID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

// ByOwner retrieves the subscription belonging to a paying identity.
func (s *MemorySubscriptionStore) ByOwner(ctx context.Context, ownerID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.byOwner[ownerID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

// MemoryAcademyLister is an in-memory AcademyLister for tests and
// development wiring.
type MemoryAcademyLister struct {
	mu        sync.RWMutex
	academies []Academy
}

// NewMemoryAcademyLister returns an empty in-memory academy lister.
func NewMemoryAcademyLister() *MemoryAcademyLister {
	return &MemoryAcademyLister{}
}

// Add registers an academy.
func (l *MemoryAcademyLister) Add(a Academy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.academies = append(l.academies, a)
}

// ListByOwner returns the academies owned by an identity.
func (l *MemoryAcademyLister) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Academy, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Academy
	for _, a := range l.academies {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}
