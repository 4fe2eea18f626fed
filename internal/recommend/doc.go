// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package recommend holds the recommendation view model: the fetched batch,
the view/drill-down scope it was fetched for, and the local filter and sort
projection over it, plus the optimistic feedback state machine.

# Scope and Fetching

A fetch is issued by Mount and whenever the view mode or drill-down changes:

	vm, _ := recommend.New(client, recommend.Options{Locale: "en"})
	if err := vm.Mount(ctx); err != nil {
	    return err // wraps recommend.ErrFetchFailed
	}
	vm.SelectView(ctx, recommend.ViewShows)
	vm.SelectRow(ctx, showKey)   // shows -> seasons
	vm.SelectRow(ctx, seasonKey) // seasons -> episodes
	vm.BackToShows(ctx)

Only the most recent fetch is applied. A response for a superseded scope,
or one arriving after Close, is dropped.

# Filtering and Sorting

SetSearch, SetMinScore, SetCategory, ToggleTheme, SetSortSpec and ClickSort
never refetch. Visible returns the filtered rows sorted by a stable,
multi-key comparator. Strings are compared with golang.org/x/text/collate
for the configured locale; a key is skipped when either side lacks a value;
season ties are broken by episode number.

# Feedback

	err := vm.SubmitFeedback(ctx, key, recommend.ThumbUp, "")

The row reads as submitted immediately. A second trigger for the same key
while the write is pending is ignored. A failed write rolls the mark back
and returns a *FeedbackWriteError (errors.Is ErrFeedbackWrite) whose reason
is the server's detail when it sent one. Undo only clears the local mark.
*/
package recommend
