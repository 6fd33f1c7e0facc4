package domain

import "time"

// Role is a user's role within their tenant.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type User struct {
	ID           string
	Email        string // unique across all tenants
	PasswordHash string // argon2id encoded
	Role         Role
	TenantID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TenantUser is a user row decorated with their note count, as listed on the
// admin user-management endpoint.
type TenantUser struct {
	User

	NoteCount int64
}
