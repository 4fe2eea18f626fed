// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

// Package logging provides centralized zerolog-based structured logging for PlexIntel.
//
// The CLI defaults to human-readable console output on stderr; set
// LOG_FORMAT=json when the client runs unattended and its output is shipped
// somewhere.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("view", "shows").Int("rows", n).Msg("Recommendations loaded")
//	logging.Ctx(ctx).Debug().Msg("Poll tick")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: console)
//	LOG_CALLER  - true, false (default: false)
//
// # Secrets
//
// PIN codes and session cookie values are logged only through MaskSecret.
// Server-supplied error details go through SanitizeError.
package logging
