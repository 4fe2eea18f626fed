// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package config provides layered configuration for the PlexIntel client.

Values come from built-in defaults, an optional YAML file and environment
variables, in that order of increasing priority. The merged result is
validated with go-playground/validator struct tags.

# Environment Variables

Every key can be set as PLEXINTEL_<SECTION>_<KEY>:

	PLEXINTEL_BACKEND_BASE_URL      http://localhost:8489
	PLEXINTEL_BACKEND_TIMEOUT       30s
	PLEXINTEL_BACKEND_RATE_LIMIT    5
	PLEXINTEL_AUTH_POLL_INTERVAL    10s
	PLEXINTEL_AUTH_MAX_WAIT         15m
	PLEXINTEL_VIEW_DEFAULT_MODE     all
	PLEXINTEL_VIEW_LOCALE           en
	PLEXINTEL_FEEDBACK_REQUIRE_REASON false
	PLEXINTEL_SESSION_STORE         badger
	PLEXINTEL_SESSION_PATH          ~/.config/plexintel/session
	PLEXINTEL_DIAGNOSTICS_ADDR      127.0.0.1:9469

LOG_LEVEL, LOG_FORMAT and LOG_CALLER are honoured without the prefix.

# Example File

	backend:
	  base_url: https://intel.example.com
	auth:
	  poll_interval: 10s
	  max_wait: 15m
	view:
	  locale: de
*/
package config
