package session

import "github.com/samber/lo"

// PermissionGames gates every game surface, request/response and channel
// alike.
const PermissionGames = "games"

// RoleProvider is the narrow contract to the role/permission storage that
// lives outside this core: given a role name, it yields the enabled
// permission list.
type RoleProvider interface {
	Permissions(role string) []string
}

// StaticRoles is an in-memory RoleProvider backed by a fixed table. The
// surrounding application swaps in its database-backed lookup through the
// same interface.
type StaticRoles map[string][]string

// DefaultRoles mirrors the roles the register application ships with.
func DefaultRoles() StaticRoles {
	return StaticRoles{
		"admin":  {"records", "reports", "backups", PermissionGames},
		"gamer":  {"records", PermissionGames},
		"viewer": {"records"},
	}
}

func (r StaticRoles) Permissions(role string) []string {
	return r[role]
}

// HasPermission reports whether the role's permission list enables the given
// permission.
func HasPermission(provider RoleProvider, role string, permission string) bool {
	if provider == nil {
		return false
	}
	return lo.Contains(provider.Permissions(role), permission)
}
