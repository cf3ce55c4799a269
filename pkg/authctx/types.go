package authctx

import "github.com/google/uuid"

// Role is an identity's role within the platform or an academy.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleCoach      Role = "coach"
	RoleAthlete    Role = "athlete"
	RoleParent     Role = "parent"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleCoach, RoleAthlete, RoleParent, RoleSuperAdmin:
		return true
	}
	return false
}

// CanManageProfiles reports whether the role may mutate other profiles'
// role and suspension fields.
func (r Role) CanManageProfiles() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleSuperAdmin
}

// Profile is the identity record resolved from a request credential.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty"`
	Suspended bool       `json:"suspended"`
}

// Membership links an identity to a role within one academy.
type Membership struct {
	ProfileID uuid.UUID `json:"profile_id"`
	AcademyID uuid.UUID `json:"academy_id"`
	Role      Role      `json:"role"`
}
