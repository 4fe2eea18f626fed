// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"reflect"
	"testing"

	"github.com/tomtom215/plexintel/internal/models"
)

func TestFilters_Match(t *testing.T) {
	episode := Item{
		RatingKey:            1,
		MediaType:            models.MediaTypeEpisode,
		Title:                "Pilot",
		ShowTitle:            strp("Twin Peaks"),
		Genres:               strp("Drama, Mystery"),
		SemanticThemes:       strp("small town, dreams ,owls"),
		PredictedProbability: 0.75,
	}
	bare := Item{RatingKey: 2, MediaType: models.MediaTypeMovie, Title: "Heat", PredictedProbability: 0.5}

	tests := []struct {
		name string
		f    Filters
		it   Item
		want bool
	}{
		{"no filters", Filters{}, bare, true},
		{"score at threshold", Filters{MinScorePercent: 75}, episode, true},
		{"score below threshold", Filters{MinScorePercent: 76}, episode, false},
		{"category match", Filters{Category: models.MediaTypeEpisode}, episode, true},
		{"category mismatch", Filters{Category: models.MediaTypeMovie}, episode, false},
		{"search title", Filters{SearchText: "pilo"}, episode, true},
		{"search show title", Filters{SearchText: "TWIN"}, episode, true},
		{"search genres", Filters{SearchText: "myst"}, episode, true},
		{"search themes", Filters{SearchText: "owl"}, episode, true},
		{"search miss", Filters{SearchText: "western"}, episode, false},
		{"absent fields never match", Filters{SearchText: "drama"}, bare, false},
		{"theme exact", Filters{ThemeTag: "dreams"}, episode, true},
		{"theme partial is not a match", Filters{ThemeTag: "dream"}, episode, false},
		{"theme on untagged item", Filters{ThemeTag: "owls"}, bare, false},
		{"all filters", Filters{MinScorePercent: 50, Category: models.MediaTypeEpisode, SearchText: "peaks", ThemeTag: "owls"}, episode, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Match(&tt.it); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilters_MinScoreMonotonic(t *testing.T) {
	var items []Item
	for i, p := range []float64{0, 0.05, 0.333, 0.5, 0.5, 0.66, 0.999, 1} {
		items = append(items, Item{RatingKey: i + 1, MediaType: models.MediaTypeMovie, PredictedProbability: p})
	}

	prev := map[int]bool{}
	for _, it := range items {
		prev[it.RatingKey] = true
	}

	for threshold := 0; threshold <= 100; threshold++ {
		f := Filters{MinScorePercent: threshold}
		cur := map[int]bool{}
		for i := range items {
			if f.Match(&items[i]) {
				cur[items[i].RatingKey] = true
			}
		}
		for key := range cur {
			if !prev[key] {
				t.Fatalf("min=%d: item %d visible but hidden at a lower threshold", threshold, key)
			}
		}
		prev = cur
	}
}

func TestThemes(t *testing.T) {
	tests := []struct {
		in   *string
		want []string
	}{
		{nil, nil},
		{strp(""), nil},
		{strp("heist"), []string{"heist"}},
		{strp(" heist , ,revenge "), []string{"heist", "revenge"}},
	}
	for _, tt := range tests {
		if got := Themes(&Item{SemanticThemes: tt.in}); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Themes = %q, want %q", got, tt.want)
		}
	}
}
