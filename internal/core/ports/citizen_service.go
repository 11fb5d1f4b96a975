package ports

import (
	"context"
	"time"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// CreateRequestInput carries the data a citizen supplies when requesting a
// pickup. The target association is chosen by the citizen and fixed forever.
type CreateRequestInput struct {
	AssociationID int64
	Address       string
	City          string
	References    string
	Materials     string
	Comments      string
	RequestDate   time.Time
}

// CitizenService exposes lifecycle operations scoped to one citizen profile.
type CitizenService interface {
	ListRequests(ctx context.Context, citizenID int64) ([]CitizenRequestView, error)
	GetRequest(ctx context.Context, citizenID, requestID int64) (*CitizenRequestView, error)
	CreateRequest(ctx context.Context, citizenID int64, in CreateRequestInput) (*domain.PickupRequest, error)
	CancelRequest(ctx context.Context, citizenID, requestID int64) (*domain.PickupRequest, error)
	// ListAssociations returns the verified associations a citizen may target.
	ListAssociations(ctx context.Context) ([]AssociationSummary, error)
}
