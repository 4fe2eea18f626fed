// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package backend

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Config holds the settings needed to talk to the backend.
type Config struct {
	// BaseURL is the backend origin, e.g. http://localhost:8489.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RateLimit is the sustained request rate per second. 0 disables pacing.
	RateLimit float64

	// RateBurst is the limiter burst size.
	RateBurst int

	// UserAgent is sent with every request.
	UserAgent string
}

// Client talks to the PlexIntel backend over HTTP/JSON.
//
// Credentials are cookies only. The backend sets a session cookie on the
// status response that completes the login handshake, and every later call
// carries it from the jar. Cookies() and SetCookies() move that state in and
// out of the session store between runs.
//
// Every call goes through the same pipeline:
//  1. The client-side rate limiter (x/time/rate), when RateLimit > 0
//  2. The circuit breaker, which counts only transport errors and 5xx
//  3. The HTTP request itself, with the 429 handling of the call
//  4. Non-2xx responses become *APIError with the backend's detail
//
// Only the idempotent reads (WhoAmI, ListRecommendations) are re-sent on
// HTTP 429. Login initiation, status polls and feedback writes go out once
// per call, so callers can rely on one request per trigger.
//
// A Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	cookieURL  *url.URL
	httpClient *http.Client
	jar        *sessionJar
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[interface{}]
	cbName     string
	userAgent  string

	maxRetries     int
	retryBaseDelay time.Duration
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url has no host: %q", cfg.BaseURL)
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	// Every endpoint lives under /api/, so cookies are read and seeded there.
	cookieURL := *base
	cookieURL.Path = base.Path + "/api/"
	cookieURL.RawPath = ""

	cbName := "plexintel-backend"

	return &Client{
		baseURL:   base,
		cookieURL: &cookieURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		jar:            jar,
		limiter:        limiter,
		cb:             newCircuitBreaker(cbName),
		cbName:         cbName,
		userAgent:      cfg.UserAgent,
		maxRetries:     5,
		retryBaseDelay: time.Second,
	}, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Host returns the backend host, used to key persisted sessions.
func (c *Client) Host() string {
	return c.baseURL.Host
}

// Cookies returns the cookies sent with API calls, including ones the
// backend scoped to a path under /api.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.cookieURL)
}

// SetCookies seeds the jar, typically from a persisted session. Cookies
// without a Path apply to every API call.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.cookieURL, cookies)
}

// ClearCookies drops every cookie held for the backend.
func (c *Client) ClearCookies() {
	c.jar.Reset()
}

// SetRetryBaseDelay overrides the initial 429 backoff (for testing).
func (c *Client) SetRetryBaseDelay(d time.Duration) {
	c.retryBaseDelay = d
}
