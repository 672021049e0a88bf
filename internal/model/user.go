package model

import "time"

// Role is the capability class of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered user. PasswordHash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the principal may manage reference data and other users.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess reports whether the principal may read or modify data owned by ownerID.
func (p Principal) CanAccess(ownerID string) bool {
	return p.IsAdmin() || (p.UserID != "" && p.UserID == ownerID)
}

// OwnerScope returns the user filter to apply to list queries.
// An empty scope means all users.
func (p Principal) OwnerScope() string {
	if p.IsAdmin() {
		return ""
	}
	return p.UserID
}

// UserDeletion reports how many rows the cascade removed per table.
type UserDeletion struct {
	Transactions int64 `json:"transactions"`
	Investments  int64 `json:"investments"`
	Accounts     int64 `json:"accounts"`
	Portfolios   int64 `json:"portfolios"`
}
