// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package metrics provides Prometheus instrumentation for the PlexIntel client.

All collectors are registered with the default registry through promauto and
are exported at /metrics by the diagnostics server when it is enabled.

# Metric Families

  - plexintel_backend_*: request latency, status codes and 429 responses
  - plexintel_auth_*: handshake outcomes, poll results, time to login
  - plexintel_recommendation_*: fetch results and current batch size
  - plexintel_feedback_*: write outcomes, rollbacks, writes in flight
  - plexintel_circuit_breaker_*: breaker state and transitions

# Example

	start := time.Now()
	resp, err := client.Do(req)
	metrics.RecordBackendRequest("recommendations", resp.StatusCode, time.Since(start))
*/
package metrics
