// Package metrics defines and registers all custom Prometheus metrics for
// the booking platform API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking_platform"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts newly created bookings by service category.
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by service category.",
	},
	[]string{"category"},
)

// TransitionsTotal counts accepted booking status transitions, by the
// status applied.
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status transitions applied.",
	},
	[]string{"to"},
)

// BulkOperationsTotal counts bulk operations by action.
var BulkOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_operations_total",
		Help:      "Total number of bulk booking operations, by action.",
	},
	[]string{"action"},
)

// ── Access control metrics ────────────────────────────────────────────────────

// AccessDeniedTotal counts forbidden responses by route path. Incremented
// by the central error handler whenever it renders a 403.
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authorization denials, by route path.",
	},
	[]string{"path"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsSentTotal counts notifications delivered, by event.
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications dispatched, by event.",
	},
	[]string{"event"},
)

// NotificationsDedupTotal counts notifications suppressed as duplicates.
var NotificationsDedupTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dedup_total",
		Help:      "Total number of notifications skipped by the dedup guard.",
	},
)

// NotificationsErrorsTotal counts notifications that failed delivery.
var NotificationsErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_errors_total",
		Help:      "Total number of notification delivery failures.",
	},
)
