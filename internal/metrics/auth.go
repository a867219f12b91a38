package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authentication and authorization metrics
var (
	// AuthDecisions counts gate outcomes by variant and decision.
	// decision is one of: allowed, anonymous, unauthorized, forbidden, error
	AuthDecisions = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_decisions_total",
			Help:      "Access gate decisions by variant and outcome",
		},
		[]string{"variant", "decision"},
	)

	// OwnershipChecks counts ownership guard outcomes.
	// decision is one of: allowed, forbidden, not_found, invalid_id, error
	OwnershipChecks = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ownership_checks_total",
			Help:      "Resource ownership guard decisions",
		},
		[]string{"decision"},
	)
)
