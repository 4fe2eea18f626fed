// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/metrics"
)

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// requestConfig holds configuration for building HTTP requests
type requestConfig struct {
	endpoint string // metrics and error label
	method   string
	path     string
	query    url.Values
	body     interface{}

	// retry429 re-sends the request while the backend answers 429. Only
	// idempotent reads set it. Login and feedback calls are sent exactly
	// once per trigger, and a 429 there comes back as *APIError.
	retry429 bool
}

// doRequest executes a backend request and decodes a 2xx JSON response
// into result. Non-2xx responses become *APIError.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig, result interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + cfg.path
	if len(cfg.query) > 0 {
		reqURL.RawQuery = cfg.query.Encode()
	}

	var body io.Reader = http.NoBody
	if cfg.body != nil {
		payload, err := json.Marshal(cfg.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cfg.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	retries := 0
	if cfg.retry429 {
		retries = c.maxRetries
	}
	resp, err := c.doRequestWithRateLimit(req, cfg.endpoint, retries)
	if err != nil {
		metrics.RecordBackendRequest(cfg.endpoint, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	metrics.RecordBackendRequest(cfg.endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			Endpoint:   cfg.endpoint,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(raw),
		}
		logging.Debug().
			Str("endpoint", cfg.endpoint).
			Int("status", resp.StatusCode).
			Str("detail", logging.SanitizeError(apiErr.Detail)).
			Msg("Backend request failed")
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode %s response: %w", cfg.endpoint, err)
		}
	}

	return nil
}

// doRequestWithRateLimit sends req, re-sending it on HTTP 429 up to
// retries times:
//  1. Exponential backoff from retryBaseDelay: 1s, 2s, 4s, 8s, 16s
//  2. A Retry-After header (RFC 6585) in seconds overrides the backoff
//  3. The last 429 is returned as a normal response, so the caller turns it
//     into an *APIError carrying the status and detail
//
// With retries == 0 the request is sent exactly once. The caller must close
// the response body.
func (c *Client) doRequestWithRateLimit(req *http.Request, endpoint string, retries int) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute %s request: %w", endpoint, err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		metrics.BackendRateLimited.WithLabelValues(endpoint).Inc()
		if attempt >= retries {
			return resp, nil
		}
		resp.Body.Close()

		retryDelay := c.retryBaseDelay * (1 << attempt)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				retryDelay = time.Duration(seconds) * time.Second
			}
		}

		logging.Warn().
			Str("endpoint", endpoint).
			Dur("retry_delay", retryDelay).
			Int("attempt", attempt+1).
			Int("max_retries", retries).
			Msg("Backend rate limited (HTTP 429), retrying")

		timer := time.NewTimer(retryDelay)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
}
