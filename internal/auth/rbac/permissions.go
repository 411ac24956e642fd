package rbac

import "github.com/fixhub/auth/internal/auth/domain"

// Permission is an atomic, feature-scoped capability tag. Roles are granted
// sets of permissions; gates check tags, not role names, so a role can gain
// or lose capabilities without renaming.
type Permission string

const (
	PermUserRead           Permission = "user:read"
	PermUserWrite          Permission = "user:write"
	PermAdminDashboardView Permission = "admin_dashboard:view"
	PermSettingsManage     Permission = "settings:manage"
	PermJobRead            Permission = "job:read"
	PermJobWrite           Permission = "job:write"
)

// rolePermissions is the authoritative role grant table. Static in this
// service; the registry layers a cache with an invalidation contract on top
// so the table could become dynamic without touching callers.
var rolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin: {
		PermUserRead,
		PermUserWrite,
		PermAdminDashboardView,
		PermSettingsManage,
		PermJobRead,
		PermJobWrite,
	},
	domain.RoleProvider: {
		PermJobRead,
		PermJobWrite,
	},
	domain.RoleResident: {
		PermJobRead,
	},
}
