package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// roleRank orders roles by privilege for RBAC checks.
var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// HasPermission reports whether the role grants at least minRole's privileges.
func (r Role) HasPermission(minRole Role) bool {
	return roleRank[r] >= roleRank[minRole]
}

// User is an account in the credential store. Username is immutable after
// creation; PasswordHash holds a bcrypt hash, never the raw password.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}
