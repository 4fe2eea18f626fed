// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/metrics"
)

// State is the lifecycle state of a login task.
type State int

const (
	StateInitiating State = iota
	StateAwaitingConfirmation
	StateAuthenticated
	StateFailed
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitiating:
		return "initiating"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Task is one running login attempt. It polls on its own goroutine until
// the login is confirmed, it expires, or Cancel is called.
type Task struct {
	h      *Handshake
	pin    PIN
	reqCtx context.Context // never cancelled; responses after teardown are ignored
	ticker Ticker

	startedAt time.Time
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}

	mu       sync.Mutex
	alive    bool
	state    State
	identity Identity
	err      error
}

func newTask(h *Handshake, reqCtx context.Context, pin PIN) *Task {
	return &Task{
		h:         h,
		pin:       pin,
		reqCtx:    reqCtx,
		ticker:    h.clock.NewTicker(h.cfg.PollInterval),
		startedAt: h.clock.Now(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		alive:     true,
		state:     StateAwaitingConfirmation,
	}
}

// PIN returns the code to show the user.
func (t *Task) PIN() PIN {
	return t.pin
}

// State returns the current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed when the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the identity on success, or the terminal error.
// Before the task is done it returns a zero Identity and nil error.
func (t *Task) Result() (Identity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.identity, t.err
}

// Wait blocks until the task is done or ctx ends. Ending ctx does not
// cancel the task.
func (t *Task) Wait(ctx context.Context) (Identity, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return Identity{}, ctx.Err()
	}
}

// Cancel stops polling. It is safe to call more than once and after the
// task has finished. A status request already in flight is not aborted;
// its response is discarded.
func (t *Task) Cancel() {
	t.mu.Lock()
	if !t.alive {
		t.mu.Unlock()
		return
	}
	t.alive = false
	t.state = StateCancelled
	t.err = ErrCancelled
	t.stopTimer()
	close(t.done)
	t.mu.Unlock()

	metrics.RecordHandshake("cancelled", 0)
	logging.Ctx(t.reqCtx).Debug().Str("pin_id", t.pin.ID.String()).Msg("Login cancelled")
}

func (t *Task) stopTimer() {
	t.stopOnce.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
}

func (t *Task) isAlive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alive
}

// finish moves the task to a terminal state. It reports false if the task
// was already torn down; on true the caller owns closing done.
func (t *Task) finish(state State, identity Identity, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.alive {
		return false
	}
	t.alive = false
	t.state = state
	t.identity = identity
	t.err = err
	t.stopTimer()
	return true
}

// run is the poll loop, one goroutine per task.
//
// Each tick goes through these steps:
//
//  1. Stop if Cancel was called or another path already finished the task
//  2. Fail with ErrHandshakeExpired once MaxWait has elapsed (when set)
//  3. Send exactly one status request; HTTP 429 is not retried here
//  4. Re-check liveness, since Cancel may have run during the request and
//     its response must then be ignored
//  5. Swallow errors (debug log and metric only) and wait for the next tick
//  6. On completion, move to StateAuthenticated once, stop the ticker, run
//     the OnAuthenticated hook and release Wait
//
// Ticks are handled one at a time, so a slow status call delays the next
// poll rather than overlapping it.
func (t *Task) run() {
	logger := logging.Ctx(t.reqCtx)

	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C():
		}

		if !t.isAlive() {
			return
		}

		if t.h.cfg.MaxWait > 0 && t.h.clock.Now().Sub(t.startedAt) >= t.h.cfg.MaxWait {
			if t.finish(StateFailed, Identity{}, ErrHandshakeExpired) {
				metrics.RecordHandshake("expired", 0)
				logger.Warn().Dur("max_wait", t.h.cfg.MaxWait).Msg("Login not confirmed in time")
				close(t.done)
			}
			return
		}

		status, err := t.h.client.AuthStatus(t.reqCtx, t.pin.ID)
		if !t.isAlive() {
			return
		}
		if err != nil {
			metrics.RecordAuthPoll(false, err)
			logger.Debug().Err(err).Str("pin_id", t.pin.ID.String()).Msg("Login status poll failed, will retry")
			continue
		}

		metrics.RecordAuthPoll(status.Complete(), nil)
		if !status.Complete() {
			continue
		}

		identity := Identity{Username: status.Username, UserID: status.UserID.String()}
		if !t.finish(StateAuthenticated, identity, nil) {
			return
		}

		metrics.RecordHandshake("authenticated", t.h.clock.Now().Sub(t.startedAt))
		logger.Info().Str("username", identity.Username).Msg("Login confirmed")

		if t.h.onAuthenticated != nil {
			t.h.onAuthenticated(identity)
		}
		close(t.done)
		return
	}
}
