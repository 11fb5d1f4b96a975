package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// RecyclerService exposes operations scoped to one recycler profile.
type RecyclerService struct {
	requests  ports.RequestRepository
	recyclers ports.RecyclerRepository
	trail     AuditTrail
	log       zerolog.Logger
}

func NewRecyclerService(requests ports.RequestRepository, recyclers ports.RecyclerRepository, trail AuditTrail, log zerolog.Logger) *RecyclerService {
	return &RecyclerService{requests: requests, recyclers: recyclers, trail: trail, log: log}
}

// ListAssignments returns assigned + in-progress work, soonest pickup first.
func (s *RecyclerService) ListAssignments(ctx context.Context, recyclerID int64) ([]ports.RecyclerAssignmentView, error) {
	return s.requests.ListActiveByRecycler(ctx, recyclerID)
}

// History returns completed pickups, most recent first.
func (s *RecyclerService) History(ctx context.Context, recyclerID int64) ([]ports.RecyclerAssignmentView, error) {
	return s.requests.ListHistoryByRecycler(ctx, recyclerID)
}

// Advance moves an owned assignment to in_progress or completed. Any other
// target, or a step the state machine forbids, is rejected before touching
// storage.
func (s *RecyclerService) Advance(ctx context.Context, recyclerID, requestID int64, in ports.AdvanceInput) (*domain.PickupRequest, error) {
	if in.Status != domain.StatusInProgress && in.Status != domain.StatusCompleted {
		return nil, domain.ErrInvalidTransition
	}

	advanced, err := s.requests.Advance(ctx, requestID, recyclerID, in.Status, in.Comments)
	if err != nil {
		return nil, err
	}

	s.trail.Record(domain.StatusChange{
		RequestID: advanced.ID,
		To:        in.Status,
		ActorRole: domain.RoleRecycler,
		ActorID:   recyclerID,
		ChangedAt: time.Now().UTC(),
	})

	s.log.Info().
		Int64("request_id", requestID).
		Int64("recycler_id", recyclerID).
		Str("status", string(in.Status)).
		Msg("assignment advanced")

	return advanced, nil
}

// UpdateAvailability sets the recycler's own availability flag. No workflow
// gating: the flag may change at any time, active assignments included.
func (s *RecyclerService) UpdateAvailability(ctx context.Context, recyclerID int64, status domain.RecyclerStatus) (*domain.Recycler, error) {
	if !domain.ValidRecyclerStatus(status) {
		return nil, domain.ErrInvalidTransition
	}
	updated, err := s.recyclers.UpdateStatus(ctx, recyclerID, status)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("recycler_id", recyclerID).Str("status", string(status)).Msg("availability updated")
	return updated, nil
}
