// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package backend

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrInvalidBatch indicates a recommendation batch failed validation.
	// No part of such a batch should be shown.
	ErrInvalidBatch = errors.New("invalid recommendation batch")

	// ErrInvalidResponse indicates a response was well-formed JSON but
	// missing fields the client cannot work without.
	ErrInvalidResponse = errors.New("invalid backend response")

	// ErrRateLimited matches an *APIError with status 429, returned once any
	// retries allowed for the call are used up.
	ErrRateLimited = errors.New("backend rate limit exceeded")

	// ErrInvalidFeedback indicates a feedback direction other than up or down.
	ErrInvalidFeedback = errors.New("feedback must be 'up' or 'down'")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	// Endpoint is the logical call that failed, e.g. "feedback".
	Endpoint string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Detail is the server-supplied reason, empty when none was given.
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %s: status %d: %s", e.Endpoint, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend %s: status %d", e.Endpoint, e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrRateLimited) match a 429.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return nil
}

// IsAPIError reports whether err wraps an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseDetail extracts the reason from an error body. FastAPI sends
// {"detail": "..."} for handled errors and {"detail": [{"msg": ...}]} for
// request validation failures.
func parseDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if m := strings.TrimSpace(item.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
