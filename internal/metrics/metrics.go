// Package metrics provides Prometheus metrics for the FME tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks served requests by route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fme_tracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks request latency by route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fme_tracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	InterventionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fme_tracker",
			Subsystem: "interventions",
			Name:      "created_total",
			Help:      "Total number of interventions opened",
		},
	)

	InterventionsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fme_tracker",
			Subsystem: "interventions",
			Name:      "closed_total",
			Help:      "Total number of interventions closed",
		},
	)

	// TicketNumberCollisions counts ticket numbers that were already taken and
	// had to be regenerated
	TicketNumberCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fme_tracker",
			Subsystem: "tickets",
			Name:      "number_collisions_total",
			Help:      "Total number of ticket number collisions retried",
		},
	)
)
