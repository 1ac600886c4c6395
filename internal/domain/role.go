package domain

// RoleName enumerates the closed set of account roles.
type RoleName string

const (
	RoleAdmin RoleName = "ADMIN"
	RoleUser  RoleName = "USER"
)

// Role is the persisted role record, keyed by name.
type Role struct {
	ID   int64
	Name RoleName
}

// ParseRoleHint maps a signup role hint to a RoleName. Unknown hints fall
// back to the base role.
func ParseRoleHint(hint string) RoleName {
	switch hint {
	case "admin":
		return RoleAdmin
	default:
		return RoleUser
	}
}
