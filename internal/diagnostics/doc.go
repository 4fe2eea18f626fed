// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

// Package diagnostics serves a small local HTTP surface for inspecting a
// running client: health, Prometheus metrics and the current view model.
// It is started only when diagnostics.addr is configured, and is meant to
// bind to loopback.
package diagnostics
