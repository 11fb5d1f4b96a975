package domain

import (
	"errors"
	"time"
)

const (
	RoleCitizen     = "citizen"
	RoleRecycler    = "recycler"
	RoleAssociation = "association"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrIdentityNotFound   = errors.New("identity not found")
)

// ValidRole reports whether role is one of the three supported role tags.
func ValidRole(role string) bool {
	switch role {
	case RoleCitizen, RoleRecycler, RoleAssociation:
		return true
	}
	return false
}

// Identity is an authenticatable credential record mapped to exactly one
// role-specific profile. The role tag always matches the type of the profile
// referenced by ProfileID.
type Identity struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	ProfileID    int64     `json:"profile_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
