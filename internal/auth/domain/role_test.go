package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.False(t, Role("SUPERUSER").IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("admin").IsValid())
}

func TestRole_HasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		permission Permission
		want       bool
	}{
		{"user can read own profile", RoleUser, PermissionReadOwnProfile, true},
		{"user can update own profile", RoleUser, PermissionUpdateOwnProfile, true},
		{"user cannot read any user", RoleUser, PermissionReadAnyUser, false},
		{"user cannot delete any user", RoleUser, PermissionDeleteAnyUser, false},
		{"user cannot list users", RoleUser, PermissionListUsers, false},
		{"admin can read own profile", RoleAdmin, PermissionReadOwnProfile, true},
		{"admin can block any user", RoleAdmin, PermissionBlockAnyUser, true},
		{"admin can manage system", RoleAdmin, PermissionManageSystem, true},
		{"unknown role has no permissions", Role("SUPERUSER"), PermissionReadOwnProfile, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.HasPermission(tt.permission))
		})
	}
}

func TestRole_PermissionsReturnsCopy(t *testing.T) {
	perms := RoleUser.Permissions()
	assert.Len(t, perms, 2)

	// Mutating the returned slice must not affect the table.
	perms[0] = PermissionManageSystem
	assert.False(t, RoleUser.HasPermission(PermissionManageSystem))
}

func TestValidatePermissionTable(t *testing.T) {
	assert.NoError(t, ValidatePermissionTable())
}

func TestAdminPermissionsSupersetOfUser(t *testing.T) {
	for _, p := range RoleUser.Permissions() {
		assert.True(t, RoleAdmin.HasPermission(p), "admin missing user permission %q", p)
	}
}
