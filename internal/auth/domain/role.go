package domain

import (
	"fmt"
)

// Role identifies the access level of a user.
type Role string

// Supported roles.
const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// AllRoles lists every role the permission table must cover.
var AllRoles = []Role{RoleAdmin, RoleUser}

// IsValid reports whether the role is one of the supported values.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Permission is a fine-grained capability token granted to roles.
type Permission string

// Permission tokens referenced by authorization guards.
const (
	PermissionReadOwnProfile   Permission = "read:own_profile"
	PermissionUpdateOwnProfile Permission = "update:own_profile"
	PermissionReadAnyUser      Permission = "read:any_user"
	PermissionUpdateAnyUser    Permission = "update:any_user"
	PermissionDeleteAnyUser    Permission = "delete:any_user"
	PermissionBlockAnyUser     Permission = "block:any_user"
	PermissionListUsers        Permission = "list:users"
	PermissionManageSystem     Permission = "manage:system"
)

// allPermissions lists every permission a guard may reference.
var allPermissions = []Permission{
	PermissionReadOwnProfile,
	PermissionUpdateOwnProfile,
	PermissionReadAnyUser,
	PermissionUpdateAnyUser,
	PermissionDeleteAnyUser,
	PermissionBlockAnyUser,
	PermissionListUsers,
	PermissionManageSystem,
}

// permissionTable is the immutable, process-wide mapping from role to granted
// permissions. ADMIN's set is a superset of USER's plus admin-exclusive entries.
var permissionTable = map[Role][]Permission{
	RoleUser: {
		PermissionReadOwnProfile,
		PermissionUpdateOwnProfile,
	},
	RoleAdmin: {
		PermissionReadOwnProfile,
		PermissionUpdateOwnProfile,
		PermissionReadAnyUser,
		PermissionUpdateAnyUser,
		PermissionDeleteAnyUser,
		PermissionBlockAnyUser,
		PermissionListUsers,
		PermissionManageSystem,
	},
}

// HasPermission reports whether the role's permission set contains the given
// permission token.
func (r Role) HasPermission(permission Permission) bool {
	for _, p := range permissionTable[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the role's granted permission set.
func (r Role) Permissions() []Permission {
	perms := permissionTable[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// ValidatePermissionTable checks the permission table for completeness at startup:
// every role has an entry, every granted permission is a known token, and ADMIN's
// set is a superset of USER's. This prevents silent guard-table drift.
func ValidatePermissionTable() error {
	known := make(map[Permission]bool, len(allPermissions))
	for _, p := range allPermissions {
		known[p] = true
	}

	for _, role := range AllRoles {
		perms, ok := permissionTable[role]
		if !ok {
			return fmt.Errorf("permission table is missing an entry for role %q", role)
		}
		for _, p := range perms {
			if !known[p] {
				return fmt.Errorf("role %q grants unknown permission %q", role, p)
			}
		}
	}

	for _, p := range permissionTable[RoleUser] {
		if !RoleAdmin.HasPermission(p) {
			return fmt.Errorf("admin permission set must be a superset of user's, missing %q", p)
		}
	}

	return nil
}
