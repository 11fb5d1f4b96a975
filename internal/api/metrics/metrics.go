// Package metrics defines and registers the custom Prometheus metrics for the
// pickup coordination API. It is the single source of truth for metric names,
// labels, and help strings; promauto registers everything with the default
// registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pickup"

// ── Identity metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts successful registrations by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of identities registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Request lifecycle metrics ─────────────────────────────────────────────────

// RequestsCreatedTotal counts new pickup requests.
var RequestsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of pickup requests created.",
	},
)

// TransitionsTotal counts successful lifecycle transitions.
// Labels:
//   - to: the status the request moved into
//   - actor: the role that performed the transition
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of successful request status transitions.",
	},
	[]string{"to", "actor"},
)

// TransitionsRejectedTotal counts transitions refused by a precondition.
// Label:
//   - reason: short failure description (e.g. "recycler_unavailable", "not_pending")
var TransitionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_rejected_total",
		Help:      "Total number of request transitions rejected by a precondition.",
	},
	[]string{"reason"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of status changes pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditErrorsTotal counts history entries that failed to persist.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit trail writes that failed.",
	},
)
