// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package session

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Session-related errors
var (
	// ErrSessionNotFound is returned when no session is stored for a backend.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when the stored session has passed its lifetime.
	ErrSessionExpired = errors.New("session expired")
)

// DefaultTTL matches the backend's session cookie lifetime (two weeks).
const DefaultTTL = 14 * 24 * time.Hour

// Cookie is the persisted part of an HTTP cookie. The jar only exposes
// name and value for outgoing cookies, so that is all that survives.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is a logged-in backend session, keyed by backend host.
type Session struct {
	// Host is the backend host (host:port) the cookies belong to.
	Host string `json:"host"`

	// Username is the Plex username resolved at login.
	Username string `json:"username"`

	// UserID is the backend user id resolved at login.
	UserID string `json:"user_id,omitempty"`

	// Cookies are the backend session cookies.
	Cookies []Cookie `json:"cookies"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New builds a session from the cookies a client currently holds.
func New(host, username, userID string, cookies []*http.Cookie, now time.Time) *Session {
	s := &Session{
		Host:      host,
		Username:  username,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(DefaultTTL),
	}
	for _, c := range cookies {
		s.Cookies = append(s.Cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	return s
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// HTTPCookies converts the stored cookies for seeding a cookie jar.
func (s *Session) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	return out
}

// Store persists sessions between runs.
type Store interface {
	// Save stores or replaces the session for s.Host.
	Save(ctx context.Context, s *Session) error

	// Load returns the session for host, or ErrSessionNotFound / ErrSessionExpired.
	Load(ctx context.Context, host string) (*Session, error)

	// Delete removes the session for host. Deleting a missing session is not an error.
	Delete(ctx context.Context, host string) error

	// Close releases the store.
	Close() error
}
