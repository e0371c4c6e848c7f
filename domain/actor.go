package domain

import "time"

// Role classifies an actor's authority within the platform.
type Role string

const (
	RoleSuperadmin       Role = "superadmin"
	RoleFranchiseManager Role = "franchise_manager"
	RoleStaff            Role = "staff"
)

// NormalizeRole maps arbitrary input onto a known role, defaulting to staff.
func NormalizeRole(role string) Role {
	switch Role(role) {
	case RoleSuperadmin, RoleFranchiseManager, RoleStaff:
		return Role(role)
	default:
		return RoleStaff
	}
}

// Actor represents the authenticated identity performing operations.
// The franchise id is empty for actors without a franchise assignment;
// superadmins operate across all franchises regardless of it.
type Actor struct {
	ID          string            `json:"id"`
	Email       string            `json:"email,omitempty"`
	Name        string            `json:"name,omitempty"`
	Role        Role              `json:"role"`
	FranchiseID string            `json:"franchise_id,omitempty"`
	Status      string            `json:"status"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (a *Actor) IsActive() bool {
	return a != nil && a.Status == "active"
}

func (a *Actor) IsSuperadmin() bool {
	return a != nil && a.Role == RoleSuperadmin
}
