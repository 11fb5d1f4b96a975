package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// stubRecyclerRepo implements ports.RecyclerRepository.
type stubRecyclerRepo struct {
	listByAssociationFn func(ctx context.Context, associationID int64) ([]*domain.Recycler, error)
	updateStatusFn      func(ctx context.Context, recyclerID int64, status domain.RecyclerStatus) (*domain.Recycler, error)
	countByStatusFn     func(ctx context.Context, associationID int64) (map[domain.RecyclerStatus]int64, error)
}

func (s *stubRecyclerRepo) ListByAssociation(ctx context.Context, associationID int64) ([]*domain.Recycler, error) {
	return s.listByAssociationFn(ctx, associationID)
}

func (s *stubRecyclerRepo) UpdateStatus(ctx context.Context, recyclerID int64, status domain.RecyclerStatus) (*domain.Recycler, error) {
	return s.updateStatusFn(ctx, recyclerID, status)
}

func (s *stubRecyclerRepo) CountByStatus(ctx context.Context, associationID int64) (map[domain.RecyclerStatus]int64, error) {
	return s.countByStatusFn(ctx, associationID)
}

func TestAssociationService_Assign(t *testing.T) {
	collectionDate := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	requests := &stubRequestRepo{
		t: t,
		assignFn: func(_ context.Context, requestID, associationID, recyclerID int64, date time.Time) (*domain.PickupRequest, error) {
			if requestID != 42 || associationID != 2 || recyclerID != 8 {
				t.Fatalf("unexpected args: request=%d association=%d recycler=%d", requestID, associationID, recyclerID)
			}
			if !date.Equal(collectionDate) {
				t.Fatalf("unexpected collection date: %v", date)
			}
			rid := recyclerID
			return &domain.PickupRequest{
				ID:             requestID,
				AssociationID:  associationID,
				RecyclerID:     &rid,
				CollectionDate: &date,
				Status:         domain.StatusAssigned,
			}, nil
		},
	}
	trail := &recordingTrail{}
	svc := NewAssociationService(requests, &stubRecyclerRepo{}, &stubAssociationRepo{}, trail, zerolog.Nop())

	assigned, err := svc.Assign(context.Background(), 2, ports.AssignInput{
		RequestID:      42,
		RecyclerID:     8,
		CollectionDate: collectionDate,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != domain.StatusAssigned || *assigned.RecyclerID != 8 {
		t.Fatalf("unexpected result: %+v", assigned)
	}

	changes := trail.all()
	if len(changes) != 1 || changes[0].From != domain.StatusPending || changes[0].To != domain.StatusAssigned {
		t.Fatalf("unexpected trail: %+v", changes)
	}
}

func TestAssociationService_Assign_Rejections(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"recycler unavailable", domain.ErrRecyclerUnavailable},
		{"request not pending", domain.ErrRequestNotPending},
		{"request not owned", domain.ErrRequestNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requests := &stubRequestRepo{
				t: t,
				assignFn: func(context.Context, int64, int64, int64, time.Time) (*domain.PickupRequest, error) {
					return nil, tc.err
				},
			}
			trail := &recordingTrail{}
			svc := NewAssociationService(requests, &stubRecyclerRepo{}, &stubAssociationRepo{}, trail, zerolog.Nop())

			_, err := svc.Assign(context.Background(), 2, ports.AssignInput{RequestID: 42, RecyclerID: 8})
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if len(trail.all()) != 0 {
				t.Fatal("no trail entry for a rejected assignment")
			}
		})
	}
}

// TestAssociationService_Assign_Race drives concurrent assignments against a
// repository that admits a single winner, mirroring the row-lock behaviour of
// the real store.
func TestAssociationService_Assign_Race(t *testing.T) {
	var mu sync.Mutex
	assigned := false

	requests := &stubRequestRepo{
		t: t,
		assignFn: func(_ context.Context, requestID, associationID, recyclerID int64, date time.Time) (*domain.PickupRequest, error) {
			mu.Lock()
			defer mu.Unlock()
			if assigned {
				return nil, domain.ErrRecyclerUnavailable
			}
			assigned = true
			rid := recyclerID
			return &domain.PickupRequest{ID: requestID, RecyclerID: &rid, Status: domain.StatusAssigned}, nil
		},
	}
	trail := &recordingTrail{}
	svc := NewAssociationService(requests, &stubRecyclerRepo{}, &stubAssociationRepo{}, trail, zerolog.Nop())

	const workers = 16
	var wg sync.WaitGroup
	var winners int64
	var winnersMu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(requestID int64) {
			defer wg.Done()
			_, err := svc.Assign(context.Background(), 2, ports.AssignInput{
				RequestID:      requestID,
				RecyclerID:     8,
				CollectionDate: time.Now(),
			})
			if err == nil {
				winnersMu.Lock()
				winners++
				winnersMu.Unlock()
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
	if len(trail.all()) != 1 {
		t.Fatalf("expected exactly one trail entry, got %d", len(trail.all()))
	}
}

func TestAssociationService_Stats(t *testing.T) {
	requests := &stubRequestRepo{
		t: t,
		countByStatusFn: func(_ context.Context, associationID int64) (map[domain.RequestStatus]int64, error) {
			return map[domain.RequestStatus]int64{
				domain.StatusPending:   3,
				domain.StatusCompleted: 7,
			}, nil
		},
		monthlyCountsFn: func(_ context.Context, _ int64, since time.Time) ([]ports.MonthlyCount, error) {
			if time.Since(since) < 150*24*time.Hour {
				t.Fatalf("histogram window too short: since=%v", since)
			}
			return []ports.MonthlyCount{{Year: 2026, Month: 8, Total: 4}}, nil
		},
	}
	recyclers := &stubRecyclerRepo{
		countByStatusFn: func(context.Context, int64) (map[domain.RecyclerStatus]int64, error) {
			return map[domain.RecyclerStatus]int64{
				domain.RecyclerAvailable: 2,
				domain.RecyclerInactive:  1,
			}, nil
		},
	}
	svc := NewAssociationService(requests, recyclers, &stubAssociationRepo{}, &recordingTrail{}, zerolog.Nop())

	stats, err := svc.Stats(context.Background(), 2)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalRecyclers != 3 {
		t.Fatalf("expected 3 recyclers, got %d", stats.TotalRecyclers)
	}
	if stats.TotalRequests != 10 {
		t.Fatalf("expected 10 requests, got %d", stats.TotalRequests)
	}
	if len(stats.RequestsByMonth) != 1 || stats.RequestsByMonth[0].Total != 4 {
		t.Fatalf("unexpected histogram: %+v", stats.RequestsByMonth)
	}
}

func TestAssociationService_UpdateProfile_Partial(t *testing.T) {
	name := "EcoNorte Renovada"
	assocRepo := &stubAssociationRepo{
		updateProfileFn: func(_ context.Context, id int64, in ports.UpdateAssociationInput) (*domain.Association, error) {
			if id != 2 {
				t.Fatalf("unexpected id: %d", id)
			}
			if in.Name == nil || *in.Name != name {
				t.Fatalf("expected name change, got %+v", in)
			}
			if in.Phone != nil || in.Address != nil || in.Description != nil {
				t.Fatalf("untouched fields must stay nil: %+v", in)
			}
			return &domain.Association{ID: id, Name: name}, nil
		},
	}
	svc := NewAssociationService(&stubRequestRepo{t: t}, &stubRecyclerRepo{}, assocRepo, &recordingTrail{}, zerolog.Nop())

	updated, err := svc.UpdateProfile(context.Background(), 2, ports.UpdateAssociationInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("unexpected result: %+v", updated)
	}
}

func TestAssociationService_CancelRequest(t *testing.T) {
	requests := &stubRequestRepo{
		t: t,
		cancelByAssociationFn: func(_ context.Context, requestID, associationID int64) (*domain.PickupRequest, error) {
			if associationID != 2 {
				t.Fatalf("cancel must be scoped to the caller, got association %d", associationID)
			}
			return &domain.PickupRequest{ID: requestID, Status: domain.StatusCancelled}, nil
		},
	}
	trail := &recordingTrail{}
	svc := NewAssociationService(requests, &stubRecyclerRepo{}, &stubAssociationRepo{}, trail, zerolog.Nop())

	cancelled, err := svc.CancelRequest(context.Background(), 2, 42)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("unexpected status: %s", cancelled.Status)
	}

	changes := trail.all()
	if len(changes) != 1 || changes[0].ActorRole != domain.RoleAssociation {
		t.Fatalf("unexpected trail: %+v", changes)
	}
}
