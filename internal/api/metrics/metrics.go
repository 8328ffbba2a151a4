// Package metrics defines all custom Prometheus metrics for the projecthub
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "projecthub"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts. Failed logins are not broken down
// further; the service deliberately keeps unknown-email and wrong-password
// indistinguishable.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenPairsIssuedTotal counts access/refresh pairs minted on successful
// logins.
var TokenPairsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_pairs_issued_total",
		Help:      "Total number of access/refresh token pairs issued.",
	},
)

// ProjectsCreatedTotal counts successfully created projects.
var ProjectsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created.",
	},
)
