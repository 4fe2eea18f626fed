// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

// Package session persists backend session cookies and the logged-in
// identity between CLI runs. Sessions are keyed by backend host and stored
// either in BadgerDB or in memory.
package session
