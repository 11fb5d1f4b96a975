package ports

import (
	"context"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// IdentityRepository persists credential records and their paired profiles.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id int64) (*domain.Identity, error)

	// Register atomically creates the profile record then the identity
	// referencing it. If either insert fails (a duplicate email included),
	// nothing persists — no orphan profiles. The identity's Role and
	// ProfileID are derived from the concrete profile type.
	Register(ctx context.Context, identity *domain.Identity, profile domain.Profile) (*domain.Identity, domain.Profile, error)

	// ResolveProfile loads the profile record referenced by the identity.
	ResolveProfile(ctx context.Context, identity *domain.Identity) (domain.Profile, error)
}
