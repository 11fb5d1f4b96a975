package ports

import (
	"context"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// RegisterInput carries the credential pair plus the role-specific profile
// fields. Exactly one of Citizen/Association is set, matching Role;
// recycler identities are only created through RegisterRecycler.
type RegisterInput struct {
	Email    string
	Password string
	Role     string

	Citizen     *CitizenProfileInput
	Association *AssociationProfileInput
}

type CitizenProfileInput struct {
	Name          string
	Phone         string
	Address       string
	City          string
	LocationNotes string
}

type AssociationProfileInput struct {
	Name        string
	Phone       string
	Address     string
	City        string
	Description string
}

// RegisterRecyclerInput is the association-initiated creation of a worker
// profile and its paired identity.
type RegisterRecyclerInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	City     string
}

// ProfileResult pairs an identity with its resolved profile.
type ProfileResult struct {
	Identity *domain.Identity
	Profile  domain.Profile
}

// AuthService implements registration, login, logout, and profile resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Logout revokes the session identified by the token id claim.
	Logout(ctx context.Context, tokenID string) error
	Profile(ctx context.Context, caller Caller) (*ProfileResult, error)
	// RegisterRecycler atomically creates a recycler profile owned by
	// associationID together with its identity. No session is issued; the
	// recycler logs in with the supplied credentials.
	RegisterRecycler(ctx context.Context, associationID int64, in RegisterRecyclerInput) (*ProfileResult, error)
}
