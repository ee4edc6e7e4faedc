package user

import "slices"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTeamOwner Role = "team_owner"
)

// Principal is the authenticated caller as resolved by the account service.
type Principal struct {
	UserID string
	Email  string
	Roles  []Role
}

func (p Principal) HasRole(role Role) bool {
	return slices.Contains(p.Roles, role)
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
