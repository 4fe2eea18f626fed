// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordBackendRequest tests backend request metric recording
func TestRecordBackendRequest(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		status    int
		wantLabel string
	}{
		{"ok", "recommendations", 200, "200"},
		{"server error", "feedback", 503, "503"},
		{"transport error", "auth_status", 0, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues(tt.endpoint, tt.wantLabel))
			RecordBackendRequest(tt.endpoint, tt.status, 15*time.Millisecond)
			after := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues(tt.endpoint, tt.wantLabel))
			if after-before != 1 {
				t.Errorf("counter delta = %v, want 1", after-before)
			}
		})
	}
}

// TestRecordAuthPoll tests poll result classification
func TestRecordAuthPoll(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		err           error
		result        string
	}{
		{"pending", false, nil, "pending"},
		{"authenticated", true, nil, "authenticated"},
		{"error wins", true, errors.New("timeout"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(AuthPolls.WithLabelValues(tt.result))
			RecordAuthPoll(tt.authenticated, tt.err)
			if got := testutil.ToFloat64(AuthPolls.WithLabelValues(tt.result)) - before; got != 1 {
				t.Errorf("AuthPolls[%s] delta = %v, want 1", tt.result, got)
			}
		})
	}
}

// TestRecordFeedbackWrite tests that failures also count a rollback
func TestRecordFeedbackWrite(t *testing.T) {
	rollbacks := testutil.ToFloat64(FeedbackRollbacks)
	failures := testutil.ToFloat64(FeedbackWrites.WithLabelValues("down", "failure"))
	successes := testutil.ToFloat64(FeedbackWrites.WithLabelValues("up", "success"))

	RecordFeedbackWrite("up", nil)
	RecordFeedbackWrite("down", errors.New("status 500"))

	if got := testutil.ToFloat64(FeedbackRollbacks) - rollbacks; got != 1 {
		t.Errorf("rollback delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FeedbackWrites.WithLabelValues("down", "failure")) - failures; got != 1 {
		t.Errorf("failure delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FeedbackWrites.WithLabelValues("up", "success")) - successes; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
}

// TestRecordFetch verifies only applied batches move the batch size gauge
func TestRecordFetch(t *testing.T) {
	RecordFetch("movies", "applied", 42)
	RecordFetch("movies", "stale", 7)

	if got := testutil.ToFloat64(RecommendationBatchSize); got != 42 {
		t.Errorf("RecommendationBatchSize = %v, want 42", got)
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	start := testutil.ToFloat64(FeedbackInFlight)

	var wg sync.WaitGroup
	numGoroutines := 50
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				TrackFeedbackInFlight(true)
				RecordBackendRequest("feedback", 200, time.Millisecond)
				TrackFeedbackInFlight(false)
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(FeedbackInFlight); got != start {
		t.Errorf("FeedbackInFlight = %v, want %v after balanced tracking", got, start)
	}
}
