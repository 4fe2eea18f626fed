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
	"strconv"

	"github.com/tomtom215/plexintel/internal/models"
	"github.com/tomtom215/plexintel/internal/validation"
)

// Query scopes a recommendation fetch. Nil keys are omitted.
type Query struct {
	View            string
	ShowRatingKey   *int
	SeasonRatingKey *int
}

// Values encodes the query string.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.View != "" {
		v.Set("view", q.View)
	}
	if q.ShowRatingKey != nil {
		v.Set("show_rating_key", strconv.Itoa(*q.ShowRatingKey))
	}
	if q.SeasonRatingKey != nil {
		v.Set("season_rating_key", strconv.Itoa(*q.SeasonRatingKey))
	}
	return v
}

// ListRecommendations fetches one recommendation batch. The batch is
// validated as a whole; any bad row fails the call with ErrInvalidBatch.
func (c *Client) ListRecommendations(ctx context.Context, q Query) (*models.RecommendationBatch, error) {
	batch, err := castResult[models.RecommendationBatch](c.execute(func() (interface{}, error) {
		var out models.RecommendationBatch
		if err := c.doRequest(ctx, requestConfig{
			endpoint: "recommendations",
			method:   http.MethodGet,
			path:     "/api/recommendations",
			query:    q.Values(),
			retry429: true,
		}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}))
	if err != nil {
		return nil, err
	}

	if err := ValidateBatch(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// ValidateBatch checks every row of a batch:
//   - field constraints (positive rating key, known media type, probability in [0,1])
//   - season_number present exactly on seasons and episodes
//   - episode_number present exactly on episodes
//   - rating keys unique within the batch
func ValidateBatch(batch *models.RecommendationBatch) error {
	seen := make(map[int]struct{}, len(batch.Recommendations))

	for i := range batch.Recommendations {
		row := &batch.Recommendations[i]

		if err := validation.ValidateStruct(row); err != nil {
			return fmt.Errorf("%w: row %d (rating_key %d): %v", ErrInvalidBatch, i, row.RatingKey, err)
		}

		if err := checkHierarchy(row); err != nil {
			return fmt.Errorf("%w: row %d (rating_key %d): %w", ErrInvalidBatch, i, row.RatingKey, err)
		}

		if _, dup := seen[row.RatingKey]; dup {
			return fmt.Errorf("%w: duplicate rating_key %d", ErrInvalidBatch, row.RatingKey)
		}
		seen[row.RatingKey] = struct{}{}
	}

	return nil
}

// checkHierarchy enforces that season and episode numbers appear exactly on
// the media types that have them.
func checkHierarchy(row *models.Recommendation) error {
	wantSeason := row.MediaType == models.MediaTypeSeason || row.MediaType == models.MediaTypeEpisode
	wantEpisode := row.MediaType == models.MediaTypeEpisode

	switch {
	case row.SeasonNumber != nil && !wantSeason:
		return fmt.Errorf("season_number on %s", row.MediaType)
	case row.SeasonNumber == nil && wantSeason:
		return fmt.Errorf("%s without season_number", row.MediaType)
	case row.EpisodeNumber != nil && !wantEpisode:
		return fmt.Errorf("episode_number on %s", row.MediaType)
	case row.EpisodeNumber == nil && wantEpisode:
		return fmt.Errorf("%s without episode_number", row.MediaType)
	}
	return nil
}
