package ports

import (
	"context"
	"time"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// AssignInput binds a pending request to a recycler and stamps the pickup date.
type AssignInput struct {
	RequestID      int64
	RecyclerID     int64
	CollectionDate time.Time
}

// AssociationService exposes lifecycle operations scoped to one association
// profile.
type AssociationService interface {
	ListRecyclers(ctx context.Context, associationID int64) ([]*domain.Recycler, error)
	ListRequests(ctx context.Context, associationID int64) ([]AssociationRequestView, error)
	Assign(ctx context.Context, associationID int64, in AssignInput) (*domain.PickupRequest, error)
	CancelRequest(ctx context.Context, associationID, requestID int64) (*domain.PickupRequest, error)
	Stats(ctx context.Context, associationID int64) (*AssociationStats, error)
	UpdateProfile(ctx context.Context, associationID int64, in UpdateAssociationInput) (*domain.Association, error)
}
