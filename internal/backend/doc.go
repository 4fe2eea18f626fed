// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package backend is the HTTP/JSON client for the PlexIntel recommendation API.

# Endpoints

	GET  /api/auth/initiate[?pin_id=]   InitiateAuth
	GET  /api/auth/status/{pin_id}      AuthStatus
	GET  /api/admin/me                  WhoAmI
	GET  /api/recommendations           ListRecommendations
	POST /api/feedback                  SubmitFeedback

# Resilience

Every call is paced by a golang.org/x/time/rate limiter and guarded by a
sony/gobreaker circuit breaker. The read calls (WhoAmI, ListRecommendations)
are retried with exponential backoff when the backend answers 429. Login and
feedback calls are sent once per call. Non-2xx responses, a final 429
included, surface as *APIError carrying the server's "detail" text.

# Sessions

The client holds a cookie jar. Cookies() and SetCookies() let callers
persist the backend session between process runs, and ClearCookies() empties
the jar on logout whatever path the backend scoped its cookies to.
*/
package backend
