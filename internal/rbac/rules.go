package rbac

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

const (
	PermMockTake      = "mock:take"
	PermResultViewOwn = "result:view-own"
	PermResultViewAll = "result:view-all"
	PermResultGrade   = "result:grade"
	PermContentManage = "content:manage"
	PermUsersManage   = "users:manage"
	PermAuditView     = "audit:view"
)

// Default policy.
var RolePermissions = map[string][]string{
	RoleUser: {
		PermMockTake,
		PermResultViewOwn,
	},
	RoleAdmin: {
		"*", // everything
	},
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
