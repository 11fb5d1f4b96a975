package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// AuditTrail receives lifecycle transitions for asynchronous recording.
// Implementations must not block the caller.
type AuditTrail interface {
	Record(change domain.StatusChange)
}

// CitizenService exposes request operations scoped to one citizen profile.
type CitizenService struct {
	requests     ports.RequestRepository
	associations ports.AssociationRepository
	trail        AuditTrail
	log          zerolog.Logger
}

func NewCitizenService(requests ports.RequestRepository, associations ports.AssociationRepository, trail AuditTrail, log zerolog.Logger) *CitizenService {
	return &CitizenService{requests: requests, associations: associations, trail: trail, log: log}
}

// ListRequests returns the citizen's own requests, newest first.
func (s *CitizenService) ListRequests(ctx context.Context, citizenID int64) ([]ports.CitizenRequestView, error) {
	return s.requests.ListByCitizen(ctx, citizenID)
}

// GetRequest returns one owned request. A request owned by another citizen is
// indistinguishable from a missing one.
func (s *CitizenService) GetRequest(ctx context.Context, citizenID, requestID int64) (*ports.CitizenRequestView, error) {
	return s.requests.FindForCitizen(ctx, requestID, citizenID)
}

// CreateRequest submits a new pickup request targeting an existing
// association. The target is fixed at creation and never reassigned.
func (s *CitizenService) CreateRequest(ctx context.Context, citizenID int64, in ports.CreateRequestInput) (*domain.PickupRequest, error) {
	if _, err := s.associations.FindByID(ctx, in.AssociationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request := &domain.PickupRequest{
		CitizenID:     citizenID,
		AssociationID: in.AssociationID,
		Address:       in.Address,
		City:          in.City,
		References:    in.References,
		Materials:     in.Materials,
		Comments:      in.Comments,
		RequestDate:   in.RequestDate,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.requests.Create(ctx, request)
	if err != nil {
		s.log.Error().Err(err).Int64("citizen_id", citizenID).Msg("failed to create request")
		return nil, err
	}

	s.trail.Record(domain.StatusChange{
		RequestID: created.ID,
		To:        domain.StatusPending,
		ActorRole: domain.RoleCitizen,
		ActorID:   citizenID,
		ChangedAt: now,
	})

	s.log.Info().
		Int64("request_id", created.ID).
		Int64("citizen_id", citizenID).
		Int64("association_id", in.AssociationID).
		Msg("request created")

	return created, nil
}

// CancelRequest cancels an owned request that has not been finalized.
func (s *CitizenService) CancelRequest(ctx context.Context, citizenID, requestID int64) (*domain.PickupRequest, error) {
	cancelled, err := s.requests.CancelByCitizen(ctx, requestID, citizenID)
	if err != nil {
		return nil, err
	}

	s.trail.Record(domain.StatusChange{
		RequestID: cancelled.ID,
		To:        domain.StatusCancelled,
		ActorRole: domain.RoleCitizen,
		ActorID:   citizenID,
		ChangedAt: time.Now().UTC(),
	})

	s.log.Info().Int64("request_id", requestID).Int64("citizen_id", citizenID).Msg("request cancelled by citizen")
	return cancelled, nil
}

// ListAssociations returns verified associations only.
func (s *CitizenService) ListAssociations(ctx context.Context) ([]ports.AssociationSummary, error) {
	return s.associations.ListVerified(ctx)
}
