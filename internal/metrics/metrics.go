// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Client-side instrumentation:
// - Backend request latency and outcome
// - Login handshake polling
// - Recommendation fetches
// - Feedback writes and rollbacks
// - Circuit breaker state

var (
	// Backend Metrics
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plexintel_backend_request_duration_seconds",
			Help:    "Duration of PlexIntel backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_backend_requests_total",
			Help: "Total number of PlexIntel backend requests",
		},
		[]string{"endpoint", "status"},
	)

	BackendRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_backend_rate_limited_total",
			Help: "Total number of HTTP 429 responses from the backend",
		},
		[]string{"endpoint"},
	)

	// Handshake Metrics
	AuthHandshakes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_auth_handshakes_total",
			Help: "Total number of login handshakes by outcome",
		},
		[]string{"outcome"}, // "authenticated", "initiation_failed", "expired", "cancelled"
	)

	AuthPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_auth_polls_total",
			Help: "Total number of login status polls",
		},
		[]string{"result"}, // "pending", "authenticated", "error"
	)

	AuthHandshakeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plexintel_auth_handshake_duration_seconds",
			Help:    "Time from PIN issue to confirmed login",
			Buckets: []float64{5, 10, 20, 30, 60, 120, 300, 600, 900},
		},
	)

	// Recommendation Metrics
	RecommendationFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_recommendation_fetches_total",
			Help: "Total number of recommendation batch fetches",
		},
		[]string{"view", "result"}, // result: "applied", "stale", "error"
	)

	RecommendationBatchSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plexintel_recommendation_batch_size",
			Help: "Number of rows in the currently applied recommendation batch",
		},
	)

	// Feedback Metrics
	FeedbackWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_feedback_writes_total",
			Help: "Total number of feedback writes",
		},
		[]string{"direction", "result"}, // result: "success", "failure"
	)

	FeedbackRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plexintel_feedback_rollbacks_total",
			Help: "Total number of optimistic feedback marks rolled back",
		},
	)

	FeedbackInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plexintel_feedback_in_flight",
			Help: "Number of feedback writes currently pending",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "plexintel_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plexintel_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordBackendRequest records one backend round trip. status is the HTTP
// status code, or 0 when the request never produced a response.
func RecordBackendRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	BackendRequestsTotal.WithLabelValues(endpoint, label).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAuthPoll records the outcome of one status poll
func RecordAuthPoll(authenticated bool, err error) {
	switch {
	case err != nil:
		AuthPolls.WithLabelValues("error").Inc()
	case authenticated:
		AuthPolls.WithLabelValues("authenticated").Inc()
	default:
		AuthPolls.WithLabelValues("pending").Inc()
	}
}

// RecordHandshake records a finished handshake. duration is only observed
// for successful logins.
func RecordHandshake(outcome string, duration time.Duration) {
	AuthHandshakes.WithLabelValues(outcome).Inc()
	if outcome == "authenticated" {
		AuthHandshakeDuration.Observe(duration.Seconds())
	}
}

// RecordFetch records a recommendation fetch
func RecordFetch(view, result string, rows int) {
	RecommendationFetches.WithLabelValues(view, result).Inc()
	if result == "applied" {
		RecommendationBatchSize.Set(float64(rows))
	}
}

// RecordFeedbackWrite records the outcome of a feedback write and, on
// failure, the rollback of its optimistic mark.
func RecordFeedbackWrite(direction string, err error) {
	if err != nil {
		FeedbackWrites.WithLabelValues(direction, "failure").Inc()
		FeedbackRollbacks.Inc()
		return
	}
	FeedbackWrites.WithLabelValues(direction, "success").Inc()
}

// TrackFeedbackInFlight tracks pending feedback writes
func TrackFeedbackInFlight(inc bool) {
	if inc {
		FeedbackInFlight.Inc()
	} else {
		FeedbackInFlight.Dec()
	}
}
