package handler

import (
	"time"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// registerRequest is the public sign-up payload. Only citizens and
// associations self-register; recycler accounts are created by their
// association. The profile fields are flat: which ones are mandatory
// depends on the declared role.
type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=citizen association"`

	Name string `json:"name" validate:"required"`
	// Associations must be reachable by phone; citizens may omit it.
	Phone string `json:"phone" validate:"required_if=Role association"`
	// Citizens must give a pickup address; associations may omit theirs.
	Address string `json:"address" validate:"required_if=Role citizen"`
	City    string `json:"city" validate:"required"`

	// Citizen-only hint for finding the address.
	LocationNotes string `json:"location_notes"`
	// Association-only blurb shown to citizens.
	Description string `json:"description"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse carries the bearer token plus the identity and its profile.
type authResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Identity  *domain.Identity `json:"identity"`
	Profile   any              `json:"profile"`
}

// profileResponse is the authenticated self-view.
type profileResponse struct {
	Identity *domain.Identity `json:"identity"`
	Profile  any              `json:"profile"`
}
