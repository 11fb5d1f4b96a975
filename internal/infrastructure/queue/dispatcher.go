package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/api/metrics"
	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher routes status changes to a fixed set of workers using
// consistent hashing on the request id, guaranteeing per-request ordering of
// history entries. Writes are best-effort: a failed insert is logged, never
// surfaced to the caller that made the transition.
type AuditDispatcher struct {
	workers []chan domain.StatusChange
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.StatusChange, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StatusChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record sends a change to the worker responsible for its request id.
// Non-blocking up to channelBuffer capacity.
func (d *AuditDispatcher) Record(change domain.StatusChange) {
	d.workers[d.shardIndex(change.RequestID)] <- change
}

// shardIndex maps a request id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(requestID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(requestID, 10)))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StatusChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.repo.InsertChange(ctx, &change); err != nil {
				metrics.AuditErrorsTotal.Inc()
				d.log.Error().Err(err).
					Int64("request_id", change.RequestID).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
