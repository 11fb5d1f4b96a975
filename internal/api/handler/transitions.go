package handler

import (
	"errors"

	"github.com/ecocolecta/pickup-system/internal/api/metrics"
	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// observeTransitionErr records rejected lifecycle transitions. Errors that are
// not precondition failures (not found, infrastructure) are not counted here.
func observeTransitionErr(err error) {
	var reason string
	switch {
	case errors.Is(err, domain.ErrRecyclerUnavailable):
		reason = "recycler_unavailable"
	case errors.Is(err, domain.ErrRequestNotPending):
		reason = "not_pending"
	case errors.Is(err, domain.ErrRequestFinalized):
		reason = "finalized"
	case errors.Is(err, domain.ErrInvalidTransition):
		reason = "invalid_transition"
	default:
		return
	}
	metrics.TransitionsRejectedTotal.WithLabelValues(reason).Inc()
}
