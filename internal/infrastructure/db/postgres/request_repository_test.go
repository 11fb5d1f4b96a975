package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

func cancelledRequestRow(now time.Time) *scriptedRow {
	return &scriptedRow{values: []any{
		int64(5), int64(2), int64(9), nil, "Calle 1 #23", "Bogota",
		"", "cardboard", "", now, nil,
		domain.StatusCancelled, now, now,
	}}
}

func TestRequestRepository_Cancel_ClearsAssignmentStamp(t *testing.T) {
	// Cancelling an assigned request drops the recycler and collection date
	// with the status change: a non-nil recycler id is only legal on
	// assigned, in_progress, and completed rows.
	now := time.Now()
	tx := &scriptedTx{rows: []*scriptedRow{
		{values: []any{domain.StatusAssigned}},
		cancelledRequestRow(now),
	}}
	repo := NewRequestRepository(&scriptedDB{tx: tx})

	cancelled, err := repo.CancelByCitizen(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("unexpected status: %s", cancelled.Status)
	}
	if cancelled.RecyclerID != nil || cancelled.CollectionDate != nil {
		t.Fatalf("assignment stamp must be cleared, got %+v", cancelled)
	}

	update := tx.statements[len(tx.statements)-1]
	if !strings.Contains(update, "recycler_id = NULL") || !strings.Contains(update, "collection_date = NULL") {
		t.Fatalf("cancel update must null the assignment columns:\n%s", update)
	}
	if !tx.committed {
		t.Fatal("transaction must commit")
	}
}

func TestRequestRepository_Cancel_RefusesFinalized(t *testing.T) {
	tx := &scriptedTx{rows: []*scriptedRow{
		{values: []any{domain.StatusCompleted}},
	}}
	repo := NewRequestRepository(&scriptedDB{tx: tx})

	_, err := repo.CancelByAssociation(context.Background(), 5, 9)
	if !errors.Is(err, domain.ErrRequestFinalized) {
		t.Fatalf("expected ErrRequestFinalized, got %v", err)
	}
	if tx.committed {
		t.Fatal("no commit on a refused cancel")
	}
	if len(tx.statements) != 1 {
		t.Fatalf("only the locking select may run, got %d statements", len(tx.statements))
	}
}
