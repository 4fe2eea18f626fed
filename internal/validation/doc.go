// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

// Package validation provides struct validation using go-playground/validator v10.
//
// It is used at two boundaries: configuration after Koanf unmarshaling, and
// recommendation rows after they are decoded from the backend. Field names
// in error messages are taken from json (or koanf) tags.
package validation
