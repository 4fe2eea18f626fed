// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package models defines the data shapes exchanged with the PlexIntel backend.

Types mirror the backend JSON contract field for field. Nullable columns are
pointers so that an absent value can be told apart from zero; the
recommendation view relies on that distinction when sorting and filtering.

# Media Hierarchy

	show
	 └── season   (SeasonNumber, ShowRatingKey)
	      └── episode (SeasonNumber, EpisodeNumber, ParentRatingKey)

Movies stand alone. Feedback is only offered on movies and episodes.
*/
package models
