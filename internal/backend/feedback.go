// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/plexintel/internal/models"
)

// SubmitFeedback records a thumbs-up or thumbs-down for one item.
func (c *Client) SubmitFeedback(ctx context.Context, fb models.FeedbackRequest) error {
	if fb.Feedback != "up" && fb.Feedback != "down" {
		return fmt.Errorf("%w: got %q", ErrInvalidFeedback, fb.Feedback)
	}

	_, err := c.execute(func() (interface{}, error) {
		return nil, c.doRequest(ctx, requestConfig{
			endpoint: "feedback",
			method:   http.MethodPost,
			path:     "/api/feedback",
			body:     fb,
		}, nil)
	})
	return err
}
