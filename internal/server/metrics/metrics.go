// Package metrics defines and registers all custom Prometheus metrics
// for the directory server. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default registry at package init; the
// admin endpoint exposes them under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory"

// ActionsTotal counts handled actions.
// Labels:
//   - action: the action tag (e.g. "add_user")
//   - result: "ok" or the wire error code (e.g. "permission_denied")
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of directory actions handled, by action and result.",
	},
	[]string{"action", "result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed" (merged over unknown-user and
//     wrong-password, matching the protocol's error merging)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsActive tracks the number of currently connected sessions.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of currently open client sessions.",
	},
)

// ActionDuration measures how long a single action takes from decoded
// request to sent result.
// Label:
//   - action: the action tag
var ActionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "action_duration_seconds",
		Help:      "Duration of action handling from decode to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"action"},
)
