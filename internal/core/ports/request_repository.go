package ports

import (
	"context"
	"time"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// RequestRepository persists pickup requests and performs the guarded
// lifecycle mutations. Every read and mutation is scoped by an owner id;
// a row outside the caller's scope behaves exactly like a missing row.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.PickupRequest) (*domain.PickupRequest, error)

	// Citizen scope.
	ListByCitizen(ctx context.Context, citizenID int64) ([]CitizenRequestView, error)
	FindForCitizen(ctx context.Context, requestID, citizenID int64) (*CitizenRequestView, error)

	// Association scope.
	ListByAssociation(ctx context.Context, associationID int64) ([]AssociationRequestView, error)

	// Recycler scope. Active assignments are ordered by collection date
	// ascending; history (completed) by collection date descending.
	ListActiveByRecycler(ctx context.Context, recyclerID int64) ([]RecyclerAssignmentView, error)
	ListHistoryByRecycler(ctx context.Context, recyclerID int64) ([]RecyclerAssignmentView, error)

	// Assign binds a pending request to an available recycler of the same
	// association and stamps the collection date, all in one transaction with
	// both rows locked: under a race on the same recycler at most one call
	// succeeds. Returns ErrRequestNotFound when the request is not owned by
	// associationID (or the recycler is not), ErrRequestNotPending and
	// ErrRecyclerUnavailable on precondition failures.
	Assign(ctx context.Context, requestID, associationID, recyclerID int64, collectionDate time.Time) (*domain.PickupRequest, error)

	// Advance moves an assigned/in-progress request owned by recyclerID to
	// next, optionally replacing the comments. ErrInvalidTransition when the
	// state machine forbids the step.
	Advance(ctx context.Context, requestID, recyclerID int64, next domain.RequestStatus, comments *string) (*domain.PickupRequest, error)

	// CancelByCitizen / CancelByAssociation move a not-yet-finalized request
	// to cancelled within the caller's ownership scope.
	CancelByCitizen(ctx context.Context, requestID, citizenID int64) (*domain.PickupRequest, error)
	CancelByAssociation(ctx context.Context, requestID, associationID int64) (*domain.PickupRequest, error)

	// Aggregation reads.
	CountByStatus(ctx context.Context, associationID int64) (map[domain.RequestStatus]int64, error)
	MonthlyCounts(ctx context.Context, associationID int64, since time.Time) ([]MonthlyCount, error)
}

// AuditRepository appends lifecycle transitions to the request history trail.
type AuditRepository interface {
	InsertChange(ctx context.Context, change *domain.StatusChange) error
}
