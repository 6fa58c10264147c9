// Package metrics defines and registers all custom Prometheus metrics for the
// storefront. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package load and
// are served by the echoprometheus handler on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Navigation ────────────────────────────────────────────────────────────────

// GuardRedirectsTotal counts navigations the route guard turned away.
// Labels:
//   - from:   access class of the requested path ("protected", "auth_only", "unknown")
//   - target: the redirect destination (e.g. "/login")
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of navigations redirected by the route guard.",
	},
	[]string{"from", "target"},
)

// NoticesTotal counts user-visible notices rendered instead of raw errors.
// Label:
//   - kind: the notice kind (e.g. "already_in_cart", "order_failed")
var NoticesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notices_total",
		Help:      "Total number of notices shown to the user, by kind.",
	},
	[]string{"kind"},
)

// ── Session ───────────────────────────────────────────────────────────────────

// SessionInvalidationsTotal counts transitions to the logged-out state.
// Label:
//   - reason: "logout", "unauthorized" or "cross_tab"
var SessionInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of session logouts, by reason.",
	},
	[]string{"reason"},
)

// ── Cart & checkout ───────────────────────────────────────────────────────────

// CartMutationsTotal counts add/remove attempts against the server cart.
// Labels:
//   - op:     "add" or "remove"
//   - result: "ok", "duplicate", "login_required" or "error"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart add/remove attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// CheckoutsTotal counts checkout triggers.
// Label:
//   - result: "success", "failed", "empty_cart" or "in_progress"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout triggers, by outcome.",
	},
	[]string{"result"},
)

// CheckoutDuration measures order submissions that reached the API.
// Label:
//   - result: "success" or "failed"
var CheckoutDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of order submissions, from trigger to API answer.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
