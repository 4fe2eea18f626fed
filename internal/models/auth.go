// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package models

// AuthInitiation is returned by GET /api/auth/initiate.
type AuthInitiation struct {
	// PinID identifies the PIN for later status polls.
	PinID ID `json:"pin_id"`

	// Code is the short code the user enters at plex.tv/link.
	Code string `json:"code"`

	// RedirectURL is the hosted Plex login page, when the backend supplies one.
	RedirectURL string `json:"redirect_url,omitempty"`

	// VerificationURL is the older field name some backends use for the link page.
	VerificationURL string `json:"verification_url,omitempty"`
}

// AuthURL returns whichever login link the backend supplied.
func (a *AuthInitiation) AuthURL() string {
	if a.RedirectURL != "" {
		return a.RedirectURL
	}
	return a.VerificationURL
}

// AuthStatus is returned by GET /api/auth/status/{pin_id}.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	UserID        ID     `json:"user_id,omitempty"`
	Username      string `json:"username,omitempty"`
	NewUser       bool   `json:"new_user,omitempty"`
}

// Complete reports whether the external login has been confirmed.
// Some backends only send user_id once the login is done.
func (s *AuthStatus) Complete() bool {
	return s.Authenticated || !s.UserID.IsZero()
}

// Me is returned by GET /api/admin/me.
type Me struct {
	Username  string  `json:"username"`
	IsAdmin   bool    `json:"is_admin"`
	CreatedAt *string `json:"created_at,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
}
