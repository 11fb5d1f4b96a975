package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

type captureAuditRepo struct {
	mu      sync.Mutex
	changes []domain.StatusChange
	done    chan struct{}
	want    int
}

func newCaptureAuditRepo(want int) *captureAuditRepo {
	return &captureAuditRepo{done: make(chan struct{}), want: want}
}

func (r *captureAuditRepo) InsertChange(_ context.Context, change *domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, *change)
	if len(r.changes) == r.want {
		close(r.done)
	}
	return nil
}

func TestAuditDispatcher_PersistsChanges(t *testing.T) {
	repo := newCaptureAuditRepo(3)
	d := NewAuditDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := int64(1); i <= 3; i++ {
		d.Record(domain.StatusChange{RequestID: i, To: domain.StatusPending})
	}

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit writes")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(repo.changes))
	}
}

func TestAuditDispatcher_OrdersPerRequest(t *testing.T) {
	// Changes for one request always land on the same worker, so their
	// relative order is preserved even with several workers running.
	repo := newCaptureAuditRepo(4)
	d := NewAuditDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	sequence := []domain.RequestStatus{
		domain.StatusPending,
		domain.StatusAssigned,
		domain.StatusInProgress,
		domain.StatusCompleted,
	}
	for _, status := range sequence {
		d.Record(domain.StatusChange{RequestID: 42, To: status})
	}

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit writes")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, status := range sequence {
		if repo.changes[i].To != status {
			t.Fatalf("position %d: expected %s, got %s", i, status, repo.changes[i].To)
		}
	}
}

func TestShardIndexIsStable(t *testing.T) {
	d := NewAuditDispatcher(4, newCaptureAuditRepo(0), zerolog.Nop())
	for _, id := range []int64{1, 42, 999999} {
		a := d.shardIndex(id)
		b := d.shardIndex(id)
		if a != b {
			t.Fatalf("shard for %d not stable: %d vs %d", id, a, b)
		}
		if a < 0 || a >= 4 {
			t.Fatalf("shard %d out of range", a)
		}
	}
}
