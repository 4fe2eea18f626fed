// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package models

// MediaType is the kind of media a recommendation refers to.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeShow    MediaType = "show"
	MediaTypeSeason  MediaType = "season"
	MediaTypeEpisode MediaType = "episode"
)

// FeedbackOffered reports whether thumbs feedback can be given on this type.
func (m MediaType) FeedbackOffered() bool {
	return m == MediaTypeMovie || m == MediaTypeEpisode
}

// Recommendation is one scored row of a recommendation batch.
// Rows are read-only snapshots; the client never recomputes scores.
type Recommendation struct {
	RatingKey            int       `json:"rating_key" validate:"gt=0"`
	MediaType            MediaType `json:"media_type" validate:"oneof=movie show season episode"`
	Title                string    `json:"title"`
	FriendlyName         string    `json:"friendly_name,omitempty"`
	PredictedProbability float64   `json:"predicted_probability" validate:"gte=0,lte=1"`

	ShowTitle      *string `json:"show_title,omitempty"`
	Year           *int    `json:"year,omitempty"`
	Genres         *string `json:"genres,omitempty"`          // comma-joined
	SemanticThemes *string `json:"semantic_themes,omitempty"` // comma-joined
	ScoreBand      *string `json:"score_band,omitempty"`

	SeasonNumber    *int `json:"season_number,omitempty"`
	EpisodeNumber   *int `json:"episode_number,omitempty"`
	ShowRatingKey   *int `json:"show_rating_key,omitempty"`
	ParentRatingKey *int `json:"parent_rating_key,omitempty"`

	ScoredAt *string `json:"scored_at,omitempty"`
}

// FeedbackOption is a reason code offered for one feedback direction.
type FeedbackOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// FeedbackOptions lists reason codes per direction.
type FeedbackOptions struct {
	Up   []FeedbackOption `json:"up"`
	Down []FeedbackOption `json:"down"`
}

// For returns the options for a direction ("up" or "down").
func (o *FeedbackOptions) For(direction string) []FeedbackOption {
	if o == nil {
		return nil
	}
	switch direction {
	case "up":
		return o.Up
	case "down":
		return o.Down
	default:
		return nil
	}
}

// RecommendationBatch is returned by GET /api/recommendations.
type RecommendationBatch struct {
	Username        string           `json:"username"`
	Recommendations []Recommendation `json:"recommendations"`
	LastUpdated     *string          `json:"last_updated"`
	FeedbackKeys    []int            `json:"feedback_keys,omitempty"`
	FeedbackOptions *FeedbackOptions `json:"feedback_options,omitempty"`
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	Username   string `json:"username"`
	RatingKey  int    `json:"rating_key"`
	Feedback   string `json:"feedback"` // "up" or "down"
	ReasonCode string `json:"reason_code,omitempty"`
}
