package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the account entity, mapped 1:1 to the profiles table.
type Profile struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Email string    `db:"email" json:"email"`

	PasswordHash string `db:"password_hash" json:"-"` // Never expose in JSON

	FullName string `db:"full_name" json:"full_name"`

	Role     Role `db:"role" json:"role"`
	IsActive bool `db:"is_active" json:"is_active"`

	LastLoginAt *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Role is a closed enum. super_admin_full is a legacy role name kept
// for accounts migrated from the old platform; it carries the same
// capability as admin.
type Role string

const (
	RoleMember         Role = "member"
	RoleAdmin          Role = "admin"
	RoleSuperAdminFull Role = "super_admin_full"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{RoleMember, RoleAdmin, RoleSuperAdminFull}
}

// IsValid reports whether the role is a known one.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperAdminFull:
		return true
	}
	return false
}

// String implements Stringer interface
func (r Role) String() string {
	return string(r)
}

// IsAdmin is the single place role strings are turned into the admin
// capability; handlers and services must not compare role strings
// themselves.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdminFull
}
