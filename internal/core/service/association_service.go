package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// statsWindow is how far back the monthly request histogram reaches.
const statsWindow = 6 // months

// AssociationService exposes operations scoped to one association profile.
type AssociationService struct {
	requests  ports.RequestRepository
	recyclers ports.RecyclerRepository
	profile   ports.AssociationRepository
	trail     AuditTrail
	log       zerolog.Logger
}

func NewAssociationService(
	requests ports.RequestRepository,
	recyclers ports.RecyclerRepository,
	profile ports.AssociationRepository,
	trail AuditTrail,
	log zerolog.Logger,
) *AssociationService {
	return &AssociationService{requests: requests, recyclers: recyclers, profile: profile, trail: trail, log: log}
}

// ListRecyclers returns the association's own workers.
func (s *AssociationService) ListRecyclers(ctx context.Context, associationID int64) ([]*domain.Recycler, error) {
	return s.recyclers.ListByAssociation(ctx, associationID)
}

// ListRequests returns the association's incoming requests, newest first, with
// requester and assigned-worker summaries embedded.
func (s *AssociationService) ListRequests(ctx context.Context, associationID int64) ([]ports.AssociationRequestView, error) {
	return s.requests.ListByAssociation(ctx, associationID)
}

// Assign binds a pending owned request to one of the association's available
// recyclers and stamps the collection date. The repository runs the
// availability and status checks under row locks, so a race on the same
// recycler admits at most one winner. Availability itself is not flipped:
// it is a manually managed flag.
func (s *AssociationService) Assign(ctx context.Context, associationID int64, in ports.AssignInput) (*domain.PickupRequest, error) {
	assigned, err := s.requests.Assign(ctx, in.RequestID, associationID, in.RecyclerID, in.CollectionDate)
	if err != nil {
		s.log.Debug().Err(err).
			Int64("request_id", in.RequestID).
			Int64("recycler_id", in.RecyclerID).
			Msg("assignment rejected")
		return nil, err
	}

	s.trail.Record(domain.StatusChange{
		RequestID: assigned.ID,
		From:      domain.StatusPending,
		To:        domain.StatusAssigned,
		ActorRole: domain.RoleAssociation,
		ActorID:   associationID,
		ChangedAt: time.Now().UTC(),
	})

	s.log.Info().
		Int64("request_id", assigned.ID).
		Int64("recycler_id", in.RecyclerID).
		Int64("association_id", associationID).
		Msg("request assigned")

	return assigned, nil
}

// CancelRequest cancels an owned request that has not been finalized.
func (s *AssociationService) CancelRequest(ctx context.Context, associationID, requestID int64) (*domain.PickupRequest, error) {
	cancelled, err := s.requests.CancelByAssociation(ctx, requestID, associationID)
	if err != nil {
		return nil, err
	}

	s.trail.Record(domain.StatusChange{
		RequestID: cancelled.ID,
		To:        domain.StatusCancelled,
		ActorRole: domain.RoleAssociation,
		ActorID:   associationID,
		ChangedAt: time.Now().UTC(),
	})

	s.log.Info().Int64("request_id", requestID).Int64("association_id", associationID).Msg("request cancelled by association")
	return cancelled, nil
}

// Stats computes the read-side snapshot: group-counts by status for recyclers
// and requests, plus the trailing six-month monthly histogram.
func (s *AssociationService) Stats(ctx context.Context, associationID int64) (*ports.AssociationStats, error) {
	recyclerCounts, err := s.recyclers.CountByStatus(ctx, associationID)
	if err != nil {
		return nil, err
	}

	requestCounts, err := s.requests.CountByStatus(ctx, associationID)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, -statsWindow, 0)
	monthly, err := s.requests.MonthlyCounts(ctx, associationID, since)
	if err != nil {
		return nil, err
	}

	stats := &ports.AssociationStats{
		RecyclersByStatus: recyclerCounts,
		RequestsByStatus:  requestCounts,
		RequestsByMonth:   monthly,
	}
	for _, n := range recyclerCounts {
		stats.TotalRecyclers += n
	}
	for _, n := range requestCounts {
		stats.TotalRequests += n
	}
	return stats, nil
}

// UpdateProfile applies a partial update to the association's own profile.
func (s *AssociationService) UpdateProfile(ctx context.Context, associationID int64, in ports.UpdateAssociationInput) (*domain.Association, error) {
	updated, err := s.profile.UpdateProfile(ctx, associationID, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("association_id", associationID).Msg("association profile updated")
	return updated, nil
}
