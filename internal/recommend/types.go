// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/plexintel/internal/backend"
	"github.com/tomtom215/plexintel/internal/models"
)

// View model errors
var (
	// ErrFetchFailed indicates the recommendation batch could not be loaded.
	// Nothing from a failed fetch is shown.
	ErrFetchFailed = errors.New("failed to load recommendations")

	// ErrFeedbackWrite indicates a feedback write was rejected or never arrived.
	ErrFeedbackWrite = errors.New("feedback write failed")

	// ErrFeedbackNotOffered is returned for feedback on shows and seasons.
	ErrFeedbackNotOffered = errors.New("feedback is only offered for movies and episodes")

	// ErrSessionMissing is returned for feedback before a batch named the user.
	ErrSessionMissing = errors.New("Unable to submit feedback: user session is missing.") //nolint:staticcheck // shown verbatim to the user

	// ErrUnknownItem is returned when a rating key is not in the current batch.
	ErrUnknownItem = errors.New("item not in current recommendations")

	// ErrUnknownReason is returned for a reason code not offered for the direction.
	ErrUnknownReason = errors.New("unknown feedback reason")

	// ErrReasonRequired is returned when reasons are mandatory and none was given.
	ErrReasonRequired = errors.New("a feedback reason is required")

	// ErrClosed is returned by operations on a closed view model.
	ErrClosed = errors.New("view model closed")
)

// Item is one recommendation row.
type Item = models.Recommendation

// ViewMode selects the server-side scope of a fetch and the drill-down behaviour.
type ViewMode string

const (
	ViewAll      ViewMode = "all"
	ViewMovies   ViewMode = "movies"
	ViewShows    ViewMode = "shows"
	ViewSeasons  ViewMode = "seasons"
	ViewEpisodes ViewMode = "episodes"
)

// ParseViewMode validates a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ViewAll, ViewMovies, ViewShows, ViewSeasons, ViewEpisodes:
		return m, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}

// DrillDown is the show/season breadcrumb. It is only set in the seasons
// and episodes views.
type DrillDown struct {
	ShowKey     *int   `json:"show_key,omitempty"`
	ShowTitle   string `json:"show_title,omitempty"`
	SeasonKey   *int   `json:"season_key,omitempty"`
	SeasonTitle string `json:"season_title,omitempty"`
}

// IsZero reports whether no show or season is selected.
func (d DrillDown) IsZero() bool {
	return d.ShowKey == nil && d.SeasonKey == nil && d.ShowTitle == "" && d.SeasonTitle == ""
}

// ViewState is the navigation, filter and sort state of the view.
type ViewState struct {
	Mode      ViewMode  `json:"mode"`
	DrillDown DrillDown `json:"drill_down"`
	Filters   Filters   `json:"filters"`
	Sort      []SortKey `json:"sort"`
}

// query builds the fetch scope. Show scope only applies to the seasons and
// episodes views, season scope only to episodes.
func (s *ViewState) query() backend.Query {
	q := backend.Query{View: string(s.Mode)}
	if s.DrillDown.ShowKey != nil && (s.Mode == ViewSeasons || s.Mode == ViewEpisodes) {
		key := *s.DrillDown.ShowKey
		q.ShowRatingKey = &key
	}
	if s.DrillDown.SeasonKey != nil && s.Mode == ViewEpisodes {
		key := *s.DrillDown.SeasonKey
		q.SeasonRatingKey = &key
	}
	return q
}

// Thumb is a feedback direction.
type Thumb string

const (
	ThumbUp   Thumb = "up"
	ThumbDown Thumb = "down"
)

// ParseThumb validates a feedback direction.
func ParseThumb(s string) (Thumb, error) {
	switch t := Thumb(strings.ToLower(strings.TrimSpace(s))); t {
	case ThumbUp, ThumbDown:
		return t, nil
	default:
		return "", fmt.Errorf("feedback must be 'up' or 'down', got %q", s)
	}
}

// FeedbackStatus is the per-item feedback state.
type FeedbackStatus int

const (
	FeedbackNone FeedbackStatus = iota
	FeedbackPending
	FeedbackSubmitted
)

// String returns the status name.
func (s FeedbackStatus) String() string {
	switch s {
	case FeedbackPending:
		return "pending"
	case FeedbackSubmitted:
		return "submitted"
	default:
		return "none"
	}
}

// MarshalText renders the status by name.
func (s FeedbackStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FeedbackRecord is the feedback state of one item. A failed write leaves
// Status at FeedbackNone with Err holding the reason.
type FeedbackRecord struct {
	Status FeedbackStatus `json:"status"`
	Err    string         `json:"error,omitempty"`
}

// ShowsSubmitted reports whether the row should read as submitted. Pending
// writes are shown as submitted until they fail.
func (r FeedbackRecord) ShowsSubmitted() bool {
	return r.Status == FeedbackPending || r.Status == FeedbackSubmitted
}

// FeedbackWriteError describes a rolled-back feedback write.
type FeedbackWriteError struct {
	RatingKey int
	Reason    string
	Err       error
}

// Error returns the user-facing reason.
func (e *FeedbackWriteError) Error() string {
	return e.Reason
}

// Unwrap exposes both ErrFeedbackWrite and the transport error.
func (e *FeedbackWriteError) Unwrap() []error {
	return []error{ErrFeedbackWrite, e.Err}
}
