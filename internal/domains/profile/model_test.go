package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsAdmin(t *testing.T) {
	assert.False(t, RoleMember.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperAdminFull.IsAdmin())

	// Unknown role strings never grant admin.
	assert.False(t, Role("administrator").IsAdmin())
	assert.False(t, Role("").IsAdmin())
}

func TestRoleIsValid(t *testing.T) {
	for _, r := range AllRoles() {
		assert.True(t, r.IsValid(), "role %s", r)
	}
	assert.False(t, Role("owner").IsValid())
}
