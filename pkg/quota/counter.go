package quota

import (
	"context"
	"fmt"
)

// CounterFunc returns the current usage for a resource within a scope.
// Implementations must aggregate over committed state only: reading
// in-flight writes either admits an over-quota create (undercount) or
// rejects a legitimate one (overcount). Should be fast: aggregate at the
// repository level or cache behind the storage layer.
type CounterFunc func(ctx context.Context, scope Scope) (int64, error)

// CounterRegistry maps a Resource to its CounterFunc.
// Not thread-safe: register all counters at startup only.
type CounterRegistry map[Resource]CounterFunc

// NewRegistry returns a new, empty CounterRegistry.
func NewRegistry() CounterRegistry {
	return make(CounterRegistry)
}

// Register sets or replaces the CounterFunc for the given resource.
// Panics if fn is nil.
func (r CounterRegistry) Register(res Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("quota: CounterFunc for resource %q cannot be nil", res))
	}
	r[res] = fn
}
