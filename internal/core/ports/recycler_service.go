package ports

import (
	"context"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// AdvanceInput moves an assignment forward. Comments, when non-nil, replace
// the request comments (field notes from the pickup).
type AdvanceInput struct {
	Status   domain.RequestStatus
	Comments *string
}

// RecyclerService exposes lifecycle operations scoped to one recycler profile.
type RecyclerService interface {
	// ListAssignments returns assigned + in-progress work, soonest pickup first.
	ListAssignments(ctx context.Context, recyclerID int64) ([]RecyclerAssignmentView, error)
	// History returns completed work, most recent pickup first.
	History(ctx context.Context, recyclerID int64) ([]RecyclerAssignmentView, error)
	Advance(ctx context.Context, recyclerID, requestID int64, in AdvanceInput) (*domain.PickupRequest, error)
	UpdateAvailability(ctx context.Context, recyclerID int64, status domain.RecyclerStatus) (*domain.Recycler, error)
}
