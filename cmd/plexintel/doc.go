// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

// Command plexintel is a terminal client for the PlexIntel recommendation
// backend.
//
// # Commands
//
//	plexintel login [-pin id]
//	plexintel whoami
//	plexintel recs [-view mode] [-show key [-season key]] [-search text]
//	               [-min-score n] [-category type] [-theme tag]
//	               [-sort col:dir,...] [-json] [-watch interval]
//	plexintel feedback [-view mode] [-reason code] <rating_key> <up|down>
//	plexintel logout
//
// login prints a one-time code and waits until it is approved on Plex. The
// resulting backend session cookies are stored per backend host (BadgerDB by
// default) and reused by the other commands until they expire or logout
// removes them.
//
// # Configuration
//
// Settings are layered with Koanf v2 (highest priority wins):
//   - Environment variables: PLEXINTEL_<SECTION>_<KEY>, e.g.
//     PLEXINTEL_BACKEND_BASE_URL, PLEXINTEL_AUTH_POLL_INTERVAL
//   - Config file: -config, $CONFIG_PATH, ./plexintel.yaml, or the user
//     config directory
//   - Built-in defaults
//
// When diagnostics.addr is set, login and recs -watch also serve /healthz,
// /metrics and /debug/view on that address.
//
// # Exit Codes
//
// 0 on success, 1 when a command fails (the reason is printed), 2 on usage
// errors.
package main
