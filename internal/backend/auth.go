// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tomtom215/plexintel/internal/models"
)

// InitiateAuth asks the backend for a Plex PIN. With a non-empty pinID the
// backend returns the code of that existing PIN instead of creating one.
func (c *Client) InitiateAuth(ctx context.Context, pinID models.ID) (*models.AuthInitiation, error) {
	var query url.Values
	if !pinID.IsZero() {
		query = url.Values{"pin_id": {pinID.String()}}
	}

	pin, err := castResult[models.AuthInitiation](c.execute(func() (interface{}, error) {
		var out models.AuthInitiation
		if err := c.doRequest(ctx, requestConfig{
			endpoint: "auth_initiate",
			method:   http.MethodGet,
			path:     "/api/auth/initiate",
			query:    query,
		}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}))
	if err != nil {
		return nil, err
	}

	if pin.PinID.IsZero() || pin.Code == "" {
		return nil, fmt.Errorf("%w: auth initiation without pin_id or code", ErrInvalidResponse)
	}
	return pin, nil
}

// AuthStatus reports whether the external login for pinID has completed.
// On completion the backend sets the session cookie on this response.
func (c *Client) AuthStatus(ctx context.Context, pinID models.ID) (*models.AuthStatus, error) {
	return castResult[models.AuthStatus](c.execute(func() (interface{}, error) {
		var out models.AuthStatus
		if err := c.doRequest(ctx, requestConfig{
			endpoint: "auth_status",
			method:   http.MethodGet,
			path:     "/api/auth/status/" + url.PathEscape(pinID.String()),
		}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}))
}

// WhoAmI returns the identity and capabilities of the session user.
func (c *Client) WhoAmI(ctx context.Context) (*models.Me, error) {
	return castResult[models.Me](c.execute(func() (interface{}, error) {
		var out models.Me
		if err := c.doRequest(ctx, requestConfig{
			endpoint: "whoami",
			method:   http.MethodGet,
			path:     "/api/admin/me",
			retry429: true,
		}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}))
}
