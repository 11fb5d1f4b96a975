package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

func TestRecyclerService_Advance(t *testing.T) {
	notes := "picked up 3 bags"
	requests := &stubRequestRepo{
		t: t,
		advanceFn: func(_ context.Context, requestID, recyclerID int64, next domain.RequestStatus, comments *string) (*domain.PickupRequest, error) {
			if requestID != 42 || recyclerID != 8 {
				t.Fatalf("unexpected args: request=%d recycler=%d", requestID, recyclerID)
			}
			if next != domain.StatusInProgress {
				t.Fatalf("unexpected target: %s", next)
			}
			if comments == nil || *comments != notes {
				t.Fatalf("unexpected comments: %v", comments)
			}
			return &domain.PickupRequest{ID: requestID, Status: next}, nil
		},
	}
	trail := &recordingTrail{}
	svc := NewRecyclerService(requests, &stubRecyclerRepo{}, trail, zerolog.Nop())

	advanced, err := svc.Advance(context.Background(), 8, 42, ports.AdvanceInput{
		Status:   domain.StatusInProgress,
		Comments: &notes,
	})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if advanced.Status != domain.StatusInProgress {
		t.Fatalf("unexpected status: %s", advanced.Status)
	}

	changes := trail.all()
	if len(changes) != 1 || changes[0].To != domain.StatusInProgress || changes[0].ActorRole != domain.RoleRecycler {
		t.Fatalf("unexpected trail: %+v", changes)
	}
}

func TestRecyclerService_Advance_RejectsTargetsOutsideWorkflow(t *testing.T) {
	// Recyclers may only move work forward; everything else is rejected
	// before the repository is touched.
	requests := &stubRequestRepo{t: t}
	svc := NewRecyclerService(requests, &stubRecyclerRepo{}, &recordingTrail{}, zerolog.Nop())

	for _, target := range []domain.RequestStatus{domain.StatusPending, domain.StatusAssigned, domain.StatusCancelled, "shipped"} {
		_, err := svc.Advance(context.Background(), 8, 42, ports.AdvanceInput{Status: target})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("target %q: expected ErrInvalidTransition, got %v", target, err)
		}
	}
}

func TestRecyclerService_Advance_InvalidStep(t *testing.T) {
	requests := &stubRequestRepo{
		t: t,
		advanceFn: func(context.Context, int64, int64, domain.RequestStatus, *string) (*domain.PickupRequest, error) {
			// assigned -> completed skips in_progress
			return nil, domain.ErrInvalidTransition
		},
	}
	trail := &recordingTrail{}
	svc := NewRecyclerService(requests, &stubRecyclerRepo{}, trail, zerolog.Nop())

	_, err := svc.Advance(context.Background(), 8, 42, ports.AdvanceInput{Status: domain.StatusCompleted})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(trail.all()) != 0 {
		t.Fatal("no trail entry for a rejected step")
	}
}

func TestRecyclerService_ListAssignments(t *testing.T) {
	requests := &stubRequestRepo{
		t: t,
		listActiveFn: func(_ context.Context, recyclerID int64) ([]ports.RecyclerAssignmentView, error) {
			if recyclerID != 8 {
				t.Fatalf("listing must be scoped to the caller, got recycler %d", recyclerID)
			}
			return []ports.RecyclerAssignmentView{
				{Request: domain.PickupRequest{ID: 1, Status: domain.StatusAssigned}},
				{Request: domain.PickupRequest{ID: 2, Status: domain.StatusInProgress}},
			}, nil
		},
	}
	svc := NewRecyclerService(requests, &stubRecyclerRepo{}, &recordingTrail{}, zerolog.Nop())

	views, err := svc.ListAssignments(context.Background(), 8)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(views))
	}
}

func TestRecyclerService_UpdateAvailability(t *testing.T) {
	recyclers := &stubRecyclerRepo{
		updateStatusFn: func(_ context.Context, recyclerID int64, status domain.RecyclerStatus) (*domain.Recycler, error) {
			return &domain.Recycler{ID: recyclerID, Status: status}, nil
		},
	}
	svc := NewRecyclerService(&stubRequestRepo{t: t}, recyclers, &recordingTrail{}, zerolog.Nop())

	updated, err := svc.UpdateAvailability(context.Background(), 8, domain.RecyclerEnRoute)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.RecyclerEnRoute {
		t.Fatalf("unexpected status: %s", updated.Status)
	}
}

func TestRecyclerService_UpdateAvailability_InvalidStatus(t *testing.T) {
	svc := NewRecyclerService(&stubRequestRepo{t: t}, &stubRecyclerRepo{}, &recordingTrail{}, zerolog.Nop())

	if _, err := svc.UpdateAvailability(context.Background(), 8, "busy"); err == nil {
		t.Fatal("expected invalid availability to be rejected")
	}
}
