// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Column is a sortable column.
type Column string

const (
	ColTitle                Column = "title"
	ColShowTitle            Column = "show_title"
	ColMediaType            Column = "media_type"
	ColYear                 Column = "year"
	ColSeasonNumber         Column = "season_number"
	ColEpisodeNumber        Column = "episode_number"
	ColPredictedProbability Column = "predicted_probability"
	ColScoreBand            Column = "score_band"
	ColGenres               Column = "genres"
)

var columns = []Column{
	ColTitle, ColShowTitle, ColMediaType, ColYear, ColSeasonNumber,
	ColEpisodeNumber, ColPredictedProbability, ColScoreBand, ColGenres,
}

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(columns, c) {
		return c, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// SortKey is one entry of a sort spec. The first key is the primary.
type SortKey struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// String renders the key as column:direction.
func (k SortKey) String() string {
	return string(k.Column) + ":" + string(k.Direction)
}

// ParseSortSpec parses "col[:dir],col[:dir]". The direction defaults to asc.
// An empty string yields an empty spec, which keeps server order.
func ParseSortSpec(s string) ([]SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var spec []SortKey
	for _, part := range strings.Split(s, ",") {
		name, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		col, err := ParseColumn(name)
		if err != nil {
			return nil, err
		}

		key := SortKey{Column: col, Direction: Asc}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			key.Direction = Desc
		default:
			return nil, fmt.Errorf("unknown sort direction %q for %s", dir, col)
		}

		if slices.ContainsFunc(spec, func(k SortKey) bool { return k.Column == col }) {
			return nil, fmt.Errorf("column %s listed twice", col)
		}
		spec = append(spec, key)
	}
	return spec, nil
}

// ApplyClick returns the sort keys after a header click. A column already
// sorted on flips direction in place. Otherwise a plain click replaces the
// keys with the column ascending, and a modified click appends it.
func ApplyClick(spec []SortKey, col Column, modifier bool) []SortKey {
	if i := slices.IndexFunc(spec, func(k SortKey) bool { return k.Column == col }); i >= 0 {
		out := slices.Clone(spec)
		out[i].Direction = out[i].Direction.flip()
		return out
	}
	if modifier {
		return append(slices.Clone(spec), SortKey{Column: col, Direction: Asc})
	}
	return []SortKey{{Column: col, Direction: Asc}}
}

// Sort returns a sorted copy of items. The input is never reordered. Ties on
// every key keep their input order.
func Sort(items []Item, spec []SortKey, locale language.Tag) []Item {
	out := slices.Clone(items)
	if len(spec) == 0 || len(out) < 2 {
		return out
	}

	// A Collator keeps scratch buffers, so each sort gets its own.
	coll := collate.New(locale)
	slices.SortStableFunc(out, func(a, b Item) int {
		for _, key := range spec {
			c, ok := compareColumn(coll, &a, &b, key.Column)
			if !ok || c == 0 {
				continue
			}
			if key.Direction == Desc {
				return -c
			}
			return c
		}
		return 0
	})
	return out
}

// compareColumn reports false when either side has no value for the column.
func compareColumn(coll *collate.Collator, a, b *Item, col Column) (int, bool) {
	switch col {
	case ColTitle:
		return coll.CompareString(a.Title, b.Title), true
	case ColMediaType:
		return coll.CompareString(string(a.MediaType), string(b.MediaType)), true
	case ColShowTitle:
		return compareStrings(coll, a.ShowTitle, b.ShowTitle)
	case ColScoreBand:
		return compareStrings(coll, a.ScoreBand, b.ScoreBand)
	case ColGenres:
		return compareStrings(coll, a.Genres, b.Genres)
	case ColYear:
		return compareInts(a.Year, b.Year)
	case ColEpisodeNumber:
		return compareInts(a.EpisodeNumber, b.EpisodeNumber)
	case ColPredictedProbability:
		return compareFloats(a.PredictedProbability, b.PredictedProbability), true
	case ColSeasonNumber:
		c, ok := compareInts(a.SeasonNumber, b.SeasonNumber)
		if ok && c == 0 {
			if ec, eok := compareInts(a.EpisodeNumber, b.EpisodeNumber); eok {
				return ec, true
			}
		}
		return c, ok
	default:
		return 0, false
	}
}

func compareStrings(coll *collate.Collator, a, b *string) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return coll.CompareString(*a, *b), true
}

func compareInts(a, b *int) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return sign(*a - *b), true
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
