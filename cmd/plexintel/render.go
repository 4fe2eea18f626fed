// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexintel/internal/models"
	"github.com/tomtom215/plexintel/internal/recommend"
)

func writeSnapshotJSON(w io.Writer, snap recommend.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// renderTable prints the view as an aligned table with a breadcrumb header.
func renderTable(w io.Writer, snap recommend.Snapshot) error {
	if snap.Error != "" {
		return fmt.Errorf("%s", snap.Error)
	}

	header := fmt.Sprintf("Recommendations for %s", orDash(snap.Username))
	if crumb := breadcrumb(snap.State); crumb != "" {
		header += " > " + crumb
	}
	fmt.Fprintln(w, header)
	if snap.LastUpdated != "" {
		fmt.Fprintf(w, "Last updated %s\n", snap.LastUpdated)
	}
	fmt.Fprintf(w, "Showing %d of %d\n\n", len(snap.Rows), snap.Total)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tTITLE\tSHOW\tS\tE\tYEAR\tSCORE\tBAND\tFEEDBACK")
	for _, row := range snap.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d%%\t%s\t%s\n",
			row.RatingKey,
			row.MediaType,
			displayTitle(&row.Item),
			strOrDash(row.ShowTitle),
			intOrDash(row.SeasonNumber),
			intOrDash(row.EpisodeNumber),
			intOrDash(row.Year),
			int(math.Round(row.PredictedProbability*100)),
			strOrDash(row.ScoreBand),
			feedbackCell(row),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if snap.Banner != "" {
		fmt.Fprintf(w, "\n! %s\n", snap.Banner)
	}
	return nil
}

func breadcrumb(s recommend.ViewState) string {
	parts := []string{string(s.Mode)}
	if s.DrillDown.ShowTitle != "" {
		parts = append(parts, s.DrillDown.ShowTitle)
	}
	if s.DrillDown.SeasonTitle != "" {
		parts = append(parts, s.DrillDown.SeasonTitle)
	}
	return strings.Join(parts, " > ")
}

func displayTitle(it *recommend.Item) string {
	if it.FriendlyName != "" {
		return it.FriendlyName
	}
	return it.Title
}

func feedbackCell(row recommend.Row) string {
	if !row.MediaType.FeedbackOffered() {
		return "-"
	}
	switch {
	case row.Feedback.Status == recommend.FeedbackPending:
		return "sending"
	case row.Feedback.Status == recommend.FeedbackSubmitted:
		return "given"
	case row.Feedback.Err != "":
		return "failed: " + row.Feedback.Err
	default:
		return ""
	}
}

func reasonList(opts *models.FeedbackOptions, thumb recommend.Thumb) string {
	var codes []string
	for _, o := range opts.For(string(thumb)) {
		codes = append(codes, fmt.Sprintf("%s (%s)", o.Code, o.Label))
	}
	return strings.Join(codes, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return orDash(*s)
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
