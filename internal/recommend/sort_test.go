// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"

	"github.com/tomtom215/plexintel/internal/models"
)

func intp(v int) *int       { return &v }
func strp(s string) *string { return &s }

func keys(items []Item) []int {
	out := make([]int, len(items))
	for i := range items {
		out[i] = items[i].RatingKey
	}
	return out
}

func TestSort_MultiKey(t *testing.T) {
	items := []Item{
		{RatingKey: 1, Year: intp(2001), PredictedProbability: 0.2},
		{RatingKey: 2, Year: intp(2001), PredictedProbability: 0.1},
		{RatingKey: 3, Year: intp(1999), PredictedProbability: 0.9},
	}
	spec := []SortKey{
		{Column: ColYear, Direction: Asc},
		{Column: ColPredictedProbability, Direction: Asc},
	}

	got := keys(Sort(items, spec, language.English))
	if want := []int{3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSort_StableOnTies(t *testing.T) {
	items := []Item{
		{RatingKey: 5, Year: intp(2010)},
		{RatingKey: 3, Year: intp(2010)},
		{RatingKey: 9, Year: intp(2010)},
		{RatingKey: 1, Year: intp(2010)},
	}

	for _, dir := range []Direction{Asc, Desc} {
		got := keys(Sort(items, []SortKey{{Column: ColYear, Direction: dir}}, language.English))
		if want := []int{5, 3, 9, 1}; !reflect.DeepEqual(got, want) {
			t.Errorf("%s: order = %v, want %v", dir, got, want)
		}
	}
}

func TestSort_MissingValueSkipsKey(t *testing.T) {
	items := []Item{
		{RatingKey: 1, Title: "b", Year: nil},
		{RatingKey: 2, Title: "a", Year: intp(1990)},
	}
	spec := []SortKey{
		{Column: ColYear, Direction: Asc},
		{Column: ColTitle, Direction: Asc},
	}

	got := keys(Sort(items, spec, language.English))
	if want := []int{2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v (year skipped, title decides)", got, want)
	}
}

func TestSort_SeasonTieBreaksOnEpisode(t *testing.T) {
	items := []Item{
		{RatingKey: 12, SeasonNumber: intp(1), EpisodeNumber: intp(2)},
		{RatingKey: 11, SeasonNumber: intp(1), EpisodeNumber: intp(1)},
		{RatingKey: 21, SeasonNumber: intp(2), EpisodeNumber: intp(1)},
	}

	tests := []struct {
		dir  Direction
		want []int
	}{
		{Asc, []int{11, 12, 21}},
		{Desc, []int{21, 12, 11}},
	}
	for _, tt := range tests {
		got := keys(Sort(items, []SortKey{{Column: ColSeasonNumber, Direction: tt.dir}}, language.English))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: order = %v, want %v", tt.dir, got, tt.want)
		}
	}
}

func TestSort_LocaleCollation(t *testing.T) {
	items := []Item{
		{RatingKey: 1, Title: "banana"},
		{RatingKey: 2, Title: "Zebra"},
		{RatingKey: 3, Title: "Éclair"},
		{RatingKey: 4, Title: "apple"},
	}

	got := keys(Sort(items, []SortKey{{Column: ColTitle, Direction: Asc}}, language.English))
	if want := []int{4, 1, 3, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSort_DoesNotReorderInput(t *testing.T) {
	items := []Item{
		{RatingKey: 1, PredictedProbability: 0.1},
		{RatingKey: 2, PredictedProbability: 0.9},
	}

	sorted := Sort(items, []SortKey{{Column: ColPredictedProbability, Direction: Desc}}, language.English)
	if got := keys(sorted); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Fatalf("sorted = %v", got)
	}
	if got := keys(items); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("input reordered to %v", got)
	}
}

func TestSort_StringColumns(t *testing.T) {
	items := []Item{
		{RatingKey: 1, MediaType: models.MediaTypeShow, ShowTitle: strp("Lost"), ScoreBand: strp("high")},
		{RatingKey: 2, MediaType: models.MediaTypeEpisode, ShowTitle: strp("Dark"), ScoreBand: strp("low")},
	}

	tests := []struct {
		col  Column
		want []int
	}{
		{ColMediaType, []int{2, 1}},
		{ColShowTitle, []int{2, 1}},
		{ColScoreBand, []int{1, 2}},
	}
	for _, tt := range tests {
		got := keys(Sort(items, []SortKey{{Column: tt.col, Direction: Asc}}, language.English))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: order = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestApplyClick(t *testing.T) {
	year := SortKey{Column: ColYear, Direction: Asc}
	title := SortKey{Column: ColTitle, Direction: Asc}

	tests := []struct {
		name     string
		spec     []SortKey
		col      Column
		modifier bool
		want     []SortKey
	}{
		{
			name: "plain click on empty spec",
			col:  ColYear,
			want: []SortKey{year},
		},
		{
			name: "plain click replaces",
			spec: []SortKey{year},
			col:  ColTitle,
			want: []SortKey{title},
		},
		{
			name: "plain click on present column flips in place",
			spec: []SortKey{year, title},
			col:  ColTitle,
			want: []SortKey{year, {Column: ColTitle, Direction: Desc}},
		},
		{
			name:     "modifier click appends",
			spec:     []SortKey{year},
			col:      ColTitle,
			modifier: true,
			want:     []SortKey{year, title},
		},
		{
			name:     "modifier click on present column flips in place",
			spec:     []SortKey{{Column: ColYear, Direction: Desc}, title},
			col:      ColYear,
			modifier: true,
			want:     []SortKey{year, title},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]SortKey(nil), tt.spec...)
			got := ApplyClick(tt.spec, tt.col, tt.modifier)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ApplyClick = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(tt.spec, before) {
				t.Errorf("input spec modified to %v", tt.spec)
			}
		})
	}
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    []SortKey
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "year", want: []SortKey{{ColYear, Asc}}},
		{in: "year:desc, title", want: []SortKey{{ColYear, Desc}, {ColTitle, Asc}}},
		{in: "PREDICTED_PROBABILITY:DESC", want: []SortKey{{ColPredictedProbability, Desc}}},
		{in: "rating", wantErr: true},
		{in: "year:sideways", wantErr: true},
		{in: "year,year:desc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortSpec(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSortSpec(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSortSpec(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortSpec(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
