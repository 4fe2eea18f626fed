// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestQueryValues(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"view only", Query{View: "movies"}, "view=movies"},
		{"show scope", Query{View: "seasons", ShowRatingKey: intPtr(10)}, "show_rating_key=10&view=seasons"},
		{"season scope", Query{View: "episodes", ShowRatingKey: intPtr(10), SeasonRatingKey: intPtr(11)}, "season_rating_key=11&show_rating_key=10&view=episodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Values().Encode(); got != tt.want {
				t.Errorf("Values() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListRecommendations(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("view") != "episodes" || r.URL.Query().Get("season_rating_key") != "300" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{
			"username": "alice",
			"last_updated": "2026-10-01T08:00:00",
			"feedback_keys": [501],
			"feedback_options": {"up": [{"code": "thumb_up", "label": "Thumbs up"}], "down": []},
			"recommendations": [
				{"rating_key": 501, "media_type": "episode", "title": "Pilot", "show_title": "Lost",
				 "predicted_probability": 0.91, "season_number": 1, "episode_number": 1,
				 "show_rating_key": 100, "parent_rating_key": 300, "genres": null, "year": 2004},
				{"rating_key": 502, "media_type": "episode", "title": "Tabula Rasa", "show_title": "Lost",
				 "predicted_probability": 0.88, "season_number": 1, "episode_number": 3,
				 "show_rating_key": 100, "parent_rating_key": 300}
			]
		}`)
	}))

	batch, err := client.ListRecommendations(context.Background(), Query{View: "episodes", ShowRatingKey: intPtr(100), SeasonRatingKey: intPtr(300)})
	if err != nil {
		t.Fatalf("ListRecommendations() error = %v", err)
	}
	if batch.Username != "alice" || len(batch.Recommendations) != 2 {
		t.Fatalf("batch = %+v", batch)
	}
	first := batch.Recommendations[0]
	if first.Genres != nil {
		t.Errorf("null genres should decode to nil, got %q", *first.Genres)
	}
	if first.Year == nil || *first.Year != 2004 {
		t.Errorf("Year = %v, want 2004", first.Year)
	}
	if len(batch.FeedbackOptions.For("up")) != 1 {
		t.Errorf("FeedbackOptions = %+v", batch.FeedbackOptions)
	}
}

func TestListRecommendationsRejectsBadRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    string
		wantMsg string
	}{
		{
			name:    "unknown media type",
			rows:    `{"rating_key": 1, "media_type": "album", "title": "x", "predicted_probability": 0.5}`,
			wantMsg: "media_type",
		},
		{
			name:    "probability above one",
			rows:    `{"rating_key": 1, "media_type": "movie", "title": "x", "predicted_probability": 1.2}`,
			wantMsg: "predicted_probability",
		},
		{
			name:    "season number on movie",
			rows:    `{"rating_key": 1, "media_type": "movie", "title": "x", "predicted_probability": 0.5, "season_number": 2}`,
			wantMsg: "season_number on movie",
		},
		{
			name:    "episode number on season",
			rows:    `{"rating_key": 1, "media_type": "season", "title": "x", "predicted_probability": 0.5, "season_number": 2, "episode_number": 4}`,
			wantMsg: "episode_number on season",
		},
		{
			name:    "season without season number",
			rows:    `{"rating_key": 1, "media_type": "season", "title": "x", "predicted_probability": 0.5}`,
			wantMsg: "season without season_number",
		},
		{
			name:    "episode without episode number",
			rows:    `{"rating_key": 1, "media_type": "episode", "title": "x", "predicted_probability": 0.5, "season_number": 1}`,
			wantMsg: "episode without episode_number",
		},
		{
			name: "duplicate rating key",
			rows: `{"rating_key": 9, "media_type": "movie", "title": "a", "predicted_probability": 0.5},
			       {"rating_key": 9, "media_type": "movie", "title": "b", "predicted_probability": 0.4}`,
			wantMsg: "duplicate rating_key 9",
		},
		{
			name:    "missing rating key",
			rows:    `{"media_type": "movie", "title": "x", "predicted_probability": 0.5}`,
			wantMsg: "rating_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"username": "alice", "recommendations": [`+tt.rows+`]}`)
			}))

			_, err := client.ListRecommendations(context.Background(), Query{View: "all"})
			if !errors.Is(err, ErrInvalidBatch) {
				t.Fatalf("error = %v, want ErrInvalidBatch", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestListRecommendationsEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"username": "alice", "recommendations": [], "last_updated": null}`)
	}))

	batch, err := client.ListRecommendations(context.Background(), Query{View: "all"})
	if err != nil {
		t.Fatalf("ListRecommendations() error = %v", err)
	}
	if len(batch.Recommendations) != 0 || batch.LastUpdated != nil {
		t.Errorf("batch = %+v", batch)
	}
}
