package ports

import (
	"context"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// UpdateAssociationInput is a partial profile update: nil fields are left
// untouched.
type UpdateAssociationInput struct {
	Name        *string
	Phone       *string
	Address     *string
	Description *string
}

// AssociationRepository provides association reads and the profile update path.
type AssociationRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Association, error)
	// ListVerified returns the contact cards of verified associations only.
	ListVerified(ctx context.Context) ([]AssociationSummary, error)
	UpdateProfile(ctx context.Context, id int64, in UpdateAssociationInput) (*domain.Association, error)
}

// RecyclerRepository provides recycler reads scoped by owning association and
// the availability update path.
type RecyclerRepository interface {
	ListByAssociation(ctx context.Context, associationID int64) ([]*domain.Recycler, error)
	// UpdateStatus sets the availability flag. No workflow gating: a recycler
	// may set availability at any time.
	UpdateStatus(ctx context.Context, recyclerID int64, status domain.RecyclerStatus) (*domain.Recycler, error)
	CountByStatus(ctx context.Context, associationID int64) (map[domain.RecyclerStatus]int64, error)
}

// CityRepository lists the registration city catalog.
type CityRepository interface {
	List(ctx context.Context) ([]domain.City, error)
}
