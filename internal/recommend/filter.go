// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"strings"

	"github.com/tomtom215/plexintel/internal/models"
)

// Filters narrow the fetched batch locally. Changing them never refetches.
type Filters struct {
	// SearchText is matched case-insensitively against title, show title,
	// genres and themes. Empty matches everything.
	SearchText string `json:"search_text,omitempty"`

	// MinScorePercent hides items scoring below it, 0..100.
	MinScorePercent int `json:"min_score_percent"`

	// Category keeps only one media type. Empty keeps all.
	Category models.MediaType `json:"category,omitempty"`

	// ThemeTag keeps only items tagged with exactly this theme.
	ThemeTag string `json:"theme_tag,omitempty"`
}

// Match reports whether it passes every active filter.
func (f *Filters) Match(it *Item) bool {
	if it.PredictedProbability*100 < float64(f.MinScorePercent) {
		return false
	}

	if f.Category != "" && it.MediaType != f.Category {
		return false
	}

	if f.SearchText != "" && !matchesSearch(it, strings.ToLower(f.SearchText)) {
		return false
	}

	if f.ThemeTag != "" && !hasTheme(it, f.ThemeTag) {
		return false
	}

	return true
}

func matchesSearch(it *Item, needle string) bool {
	if strings.Contains(strings.ToLower(it.Title), needle) {
		return true
	}
	for _, field := range []*string{it.ShowTitle, it.Genres, it.SemanticThemes} {
		if field != nil && strings.Contains(strings.ToLower(*field), needle) {
			return true
		}
	}
	return false
}

func hasTheme(it *Item, tag string) bool {
	for _, t := range Themes(it) {
		if t == tag {
			return true
		}
	}
	return false
}

// Themes splits an item's comma-joined semantic themes into trimmed tags.
func Themes(it *Item) []string {
	if it.SemanticThemes == nil || *it.SemanticThemes == "" {
		return nil
	}
	parts := strings.Split(*it.SemanticThemes, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
