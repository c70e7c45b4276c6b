package identity

import (
	"time"

	"github.com/uptrace/bun"
)

// SystemActor is stamped into audit fields when no authenticated user is in
// scope, e.g. self-registration.
const SystemActor = "system"

// User is the user model
type User struct {
	bun.BaseModel  `bun:"table:auth_user,alias:usr"`
	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Username       string    `bun:"username,notnull,unique" json:"username"`
	FirstName      string    `bun:"firstname,notnull" json:"firstname"`
	LastName       string    `bun:"lastname" json:"lastname"`
	PasswordHash   string    `bun:"password,notnull" json:"-"`
	IsActive       bool      `bun:"is_active,notnull" json:"is_active"`
	IsSuperuser    bool      `bun:"is_superuser,notnull" json:"is_superuser"`
	CreatedBy      string    `bun:"created_by,notnull" json:"created_by"`
	CreatedAt      time.Time `bun:"created_date,nullzero,notnull,default:current_timestamp" json:"created_date"`
	LastModifiedBy string    `bun:"last_modified_by,notnull" json:"last_modified_by"`
	LastModifiedAt time.Time `bun:"last_modified_date,nullzero,notnull,default:current_timestamp" json:"last_modified_date"`
}

// Group is an organizational unit created by an authenticated user. The
// creator's identity is stamped into the audit fields on insert.
type Group struct {
	bun.BaseModel  `bun:"table:auth_groups,alias:grp"`
	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name,notnull,unique" json:"name"`
	IsActive       bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedBy      string    `bun:"created_by,notnull" json:"created_by"`
	CreatedAt      time.Time `bun:"created_date,nullzero,notnull,default:current_timestamp" json:"created_date"`
	LastModifiedBy string    `bun:"last_modified_by,notnull" json:"last_modified_by"`
	LastModifiedAt time.Time `bun:"last_modified_date,nullzero,notnull,default:current_timestamp" json:"last_modified_date"`
}

// UserGroupMembership links users to groups. Schema only for now, no
// membership operations are exposed.
type UserGroupMembership struct {
	bun.BaseModel `bun:"table:auth_user_groups,alias:ugm"`
	ID            int64 `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64 `bun:"fk_user_id,notnull" json:"fk_user_id"`
	GroupID       int64 `bun:"fk_group_id,notnull" json:"fk_group_id"`
}

// Permission is a named capability. Schema only, nothing evaluates
// permissions yet.
type Permission struct {
	bun.BaseModel  `bun:"table:auth_permissions,alias:perm"`
	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name,notnull,unique" json:"name"`
	IsActive       bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedBy      string    `bun:"created_by,notnull" json:"created_by"`
	CreatedAt      time.Time `bun:"created_date,nullzero,notnull,default:current_timestamp" json:"created_date"`
	LastModifiedBy string    `bun:"last_modified_by,notnull" json:"last_modified_by"`
	LastModifiedAt time.Time `bun:"last_modified_date,nullzero,notnull,default:current_timestamp" json:"last_modified_date"`
}

// GroupPermissionGrant associates a permission with a group and a user,
// with an optional JSON payload. Schema only.
type GroupPermissionGrant struct {
	bun.BaseModel `bun:"table:auth_user_group_permission,alias:gpg"`
	ID            int64          `bun:"id,pk,autoincrement" json:"id"`
	PermissionID  int64          `bun:"fk_permission_id,notnull" json:"fk_permission_id"`
	GroupID       int64          `bun:"fk_group_id,notnull" json:"fk_group_id"`
	UserID        int64          `bun:"fk_user_id,notnull" json:"fk_user_id"`
	Permissions   map[string]any `bun:"permissions,type:jsonb" json:"permissions"`
}

// PublicUser is the outward-facing projection of a user record. The password
// hash is never part of it.
type PublicUser struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstname"`
	LastName       string `json:"lastname"`
	IsActive       bool   `json:"is_active"`
	IsSuperuser    bool   `json:"is_superuser"`
	CreatedBy      string `json:"created_by,omitempty"`
	LastModifiedBy string `json:"last_modified_by,omitempty"`
}

// Public maps the persistence entity to its public projection field by
// field, never via a generic key spread.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		IsActive:       u.IsActive,
		IsSuperuser:    u.IsSuperuser,
		CreatedBy:      u.CreatedBy,
		LastModifiedBy: u.LastModifiedBy,
	}
}
