// Package profile guards profile mutations: role changes, suspension, and
// contact updates. The super_admin role is immutable through this path in
// both directions - it cannot be assigned and a profile carrying it cannot
// be modified. Profiles are never hard-deleted.
package profile
