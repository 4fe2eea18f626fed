// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package services provides suture.Service wrappers for PlexIntel components.

Each wrapper implements suture's Serve(ctx) error contract and identifies
itself through fmt.Stringer:

  - HTTPServerService runs an *http.Server, shutting it down gracefully
    when the supervisor stops it.
  - RefreshService reloads the recommendation view on an interval for
    watch mode.
*/
package services
