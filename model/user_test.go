package model

import "testing"

func TestRoleOrdering(t *testing.T) {
	if !RoleAdmin.HasAtLeast(RoleUser) {
		t.Error("admin should satisfy the user level")
	}
	if !RoleSuperAdmin.HasAtLeast(RoleAdmin) {
		t.Error("super admin should satisfy the admin level")
	}
	if !RoleSuperAdmin.HasAtLeast(RoleUser) {
		t.Error("super admin should satisfy the user level")
	}
	if RoleUser.HasAtLeast(RoleAdmin) {
		t.Error("user should not satisfy the admin level")
	}
	if RoleAdmin.HasAtLeast(RoleSuperAdmin) {
		t.Error("admin should not satisfy the super admin level")
	}
	if !RoleUser.HasAtLeast(RoleUser) {
		t.Error("a role should satisfy its own level")
	}
}

func TestRoleLevelUnknown(t *testing.T) {
	if Role("moderator").Level() != 0 {
		t.Error("unknown roles should rank below user")
	}
	if Role("moderator").HasAtLeast(RoleUser) {
		t.Error("unknown roles should not satisfy any level")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "admin", "super_admin"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("ParseRole(%q) should succeed", valid)
		}
	}
	for _, invalid := range []string{"", "root", "Admin", "superadmin"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) should fail", invalid)
		}
	}
}
