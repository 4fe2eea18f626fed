// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package recommend

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tomtom215/plexintel/internal/backend"
	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/metrics"
	"github.com/tomtom215/plexintel/internal/models"
)

const genericFeedbackFailure = "Failed to submit feedback."

// SubmitFeedback records a thumb on a movie or episode.
//
// The write is optimistic:
//
//  1. Under mu, ignore the trigger (nil) if the row already has a write in
//     flight, then check the row, the session user and the reason code
//  2. Mark the row pending and submitted, so it renders as given at once
//  3. Send exactly one POST /api/feedback outside the lock
//  4. On success keep the mark and clear the banner
//  5. On failure roll the mark back and keep the reason as the row's error
//     and the banner. The reason is the backend detail, or
//     "Failed to submit feedback (<status>)" when there is none
//
// Pending is cleared whatever the outcome, so a failed row can be retried.
// Failures are returned as *FeedbackWriteError.
func (vm *ViewModel) SubmitFeedback(ctx context.Context, ratingKey int, thumb Thumb, reasonCode string) error {
	thumb, err := ParseThumb(string(thumb))
	if err != nil {
		return err
	}

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}
	if _, busy := vm.pending[ratingKey]; busy {
		vm.mu.Unlock()
		return nil
	}
	req, err := vm.prepareFeedbackLocked(ratingKey, thumb, reasonCode)
	if err != nil {
		vm.mu.Unlock()
		return err
	}

	vm.pending[ratingKey] = struct{}{}
	vm.submitted[ratingKey] = struct{}{}
	delete(vm.keyErrs, ratingKey)
	vm.banner = ""
	vm.mu.Unlock()

	ctx = logging.ContextWithNewCorrelationID(context.WithoutCancel(ctx))
	logger := logging.Ctx(ctx)
	logger.Debug().
		Int("rating_key", ratingKey).
		Str("feedback", req.Feedback).
		Str("reason_code", req.ReasonCode).
		Msg("Submitting feedback")

	metrics.TrackFeedbackInFlight(true)
	writeErr := vm.src.SubmitFeedback(ctx, req)
	metrics.TrackFeedbackInFlight(false)
	metrics.RecordFeedbackWrite(req.Feedback, writeErr)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		if writeErr != nil {
			return fmt.Errorf("%w: %w", ErrFeedbackWrite, writeErr)
		}
		return nil
	}
	delete(vm.pending, ratingKey)

	if writeErr != nil {
		reason := feedbackFailureReason(writeErr)
		delete(vm.submitted, ratingKey)
		vm.keyErrs[ratingKey] = reason
		vm.banner = reason
		logger.Warn().Err(writeErr).Int("rating_key", ratingKey).Msg("Feedback write failed, rolled back")
		return &FeedbackWriteError{RatingKey: ratingKey, Reason: reason, Err: writeErr}
	}

	logger.Info().Int("rating_key", ratingKey).Str("feedback", req.Feedback).Msg("Feedback recorded")
	return nil
}

func (vm *ViewModel) prepareFeedbackLocked(ratingKey int, thumb Thumb, reasonCode string) (models.FeedbackRequest, error) {
	it := vm.findLocked(ratingKey)
	if it == nil {
		return models.FeedbackRequest{}, fmt.Errorf("%w: %d", ErrUnknownItem, ratingKey)
	}
	if !it.MediaType.FeedbackOffered() {
		return models.FeedbackRequest{}, fmt.Errorf("%w: %s %d", ErrFeedbackNotOffered, it.MediaType, ratingKey)
	}
	if vm.username == "" {
		vm.banner = ErrSessionMissing.Error()
		return models.FeedbackRequest{}, ErrSessionMissing
	}

	options := vm.feedbackOptions.For(string(thumb))
	reasonCode = strings.TrimSpace(reasonCode)
	switch {
	case reasonCode != "":
		if !slices.ContainsFunc(options, func(o models.FeedbackOption) bool { return o.Code == reasonCode }) {
			return models.FeedbackRequest{}, fmt.Errorf("%w: %q for %s", ErrUnknownReason, reasonCode, thumb)
		}
	case vm.requireReason && len(options) > 0:
		return models.FeedbackRequest{}, ErrReasonRequired
	}

	return models.FeedbackRequest{
		Username:   vm.username,
		RatingKey:  ratingKey,
		Feedback:   string(thumb),
		ReasonCode: reasonCode,
	}, nil
}

// feedbackFailureReason prefers the server's detail, then the status code.
func feedbackFailureReason(err error) string {
	apiErr, ok := backend.IsAPIError(err)
	if !ok {
		return genericFeedbackFailure
	}
	if detail := strings.TrimSpace(apiErr.Detail); detail != "" {
		return detail
	}
	return fmt.Sprintf("Failed to submit feedback (%d)", apiErr.StatusCode)
}

// Undo clears a submitted mark locally so feedback can be given again. No
// request is sent. It reports false for rows that are pending or were never
// submitted.
func (vm *ViewModel) Undo(ratingKey int) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return false
	}
	if _, busy := vm.pending[ratingKey]; busy {
		return false
	}
	if _, ok := vm.submitted[ratingKey]; !ok {
		return false
	}
	delete(vm.submitted, ratingKey)
	return true
}

// DismissError clears the feedback banner.
func (vm *ViewModel) DismissError() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.closed {
		vm.banner = ""
	}
}

// Banner returns the dismissible feedback message, if any.
func (vm *ViewModel) Banner() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.banner
}

// FeedbackStatus returns the feedback state of one row.
func (vm *ViewModel) FeedbackStatus(ratingKey int) FeedbackRecord {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.recordLocked(ratingKey)
}

func (vm *ViewModel) recordLocked(ratingKey int) FeedbackRecord {
	if _, ok := vm.pending[ratingKey]; ok {
		return FeedbackRecord{Status: FeedbackPending}
	}
	if _, ok := vm.submitted[ratingKey]; ok {
		return FeedbackRecord{Status: FeedbackSubmitted}
	}
	return FeedbackRecord{Status: FeedbackNone, Err: vm.keyErrs[ratingKey]}
}
