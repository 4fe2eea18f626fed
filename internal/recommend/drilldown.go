// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"context"
)

const fallbackShowTitle = "Show"

// SelectView switches view mode from the selector. The drill-down is reset
// and the new scope is fetched.
func (vm *ViewModel) SelectView(ctx context.Context, mode ViewMode) error {
	mode, err := ParseViewMode(string(mode))
	if err != nil {
		return err
	}
	return vm.rescope(ctx, func(s *ViewState) bool {
		if s.Mode == mode && s.DrillDown.IsZero() {
			return false
		}
		s.Mode = mode
		s.DrillDown = DrillDown{}
		return true
	})
}

// SelectRow drills into a row. From the shows view it opens the show's
// seasons; from the seasons view it opens the season's episodes. It reports
// whether the selection navigated. Other views ignore row selection.
func (vm *ViewModel) SelectRow(ctx context.Context, ratingKey int) (bool, error) {
	var (
		navigated bool
		unknown   bool
	)

	err := vm.rescope(ctx, func(s *ViewState) bool {
		if s.Mode != ViewShows && s.Mode != ViewSeasons {
			return false
		}
		it := vm.findLocked(ratingKey)
		if it == nil {
			unknown = true
			return false
		}

		switch s.Mode {
		case ViewShows:
			showKey := it.RatingKey
			if it.ShowRatingKey != nil {
				showKey = *it.ShowRatingKey
			}
			s.DrillDown = DrillDown{ShowKey: &showKey, ShowTitle: it.Title}
			s.Mode = ViewSeasons

		case ViewSeasons:
			if s.DrillDown.ShowKey == nil {
				deriveShow(&s.DrillDown, it)
			}
			seasonKey := it.RatingKey
			s.DrillDown.SeasonKey = &seasonKey
			s.DrillDown.SeasonTitle = it.Title
			s.Mode = ViewEpisodes
		}

		navigated = true
		return true
	})
	if unknown {
		return false, ErrUnknownItem
	}
	return navigated, err
}

// deriveShow fills the show half of the breadcrumb from a season row. A row
// that names no show leaves it unset.
func deriveShow(d *DrillDown, season *Item) {
	switch {
	case season.ShowRatingKey != nil:
		key := *season.ShowRatingKey
		d.ShowKey = &key
	case season.ParentRatingKey != nil:
		key := *season.ParentRatingKey
		d.ShowKey = &key
	default:
		return
	}

	d.ShowTitle = fallbackShowTitle
	if season.ShowTitle != nil && *season.ShowTitle != "" {
		d.ShowTitle = *season.ShowTitle
	}
}

// BackToSeasons leaves an episode list for the seasons of the same show.
func (vm *ViewModel) BackToSeasons(ctx context.Context) error {
	return vm.rescope(ctx, func(s *ViewState) bool {
		if s.Mode != ViewEpisodes {
			return false
		}
		s.Mode = ViewSeasons
		s.DrillDown.SeasonKey = nil
		s.DrillDown.SeasonTitle = ""
		return true
	})
}

// BackToShows leaves the drill-down entirely.
func (vm *ViewModel) BackToShows(ctx context.Context) error {
	return vm.rescope(ctx, func(s *ViewState) bool {
		if s.Mode != ViewSeasons && s.Mode != ViewEpisodes {
			return false
		}
		s.Mode = ViewShows
		s.DrillDown = DrillDown{}
		return true
	})
}
