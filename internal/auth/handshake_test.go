// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/plexintel/internal/backend"
	"github.com/tomtom215/plexintel/internal/models"
)

// manualClock is a Clock whose tickers only fire when the test says so.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	ticker *manualTicker
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticker = &manualTicker{ch: make(chan time.Time), interval: d}
	return c.ticker
}

// Advance moves time forward one poll interval and delivers a tick.
// It reports false if nothing received the tick (ticker stopped or loop gone).
func (c *manualClock) Advance() bool {
	c.mu.Lock()
	tk := c.ticker
	if tk == nil {
		c.mu.Unlock()
		return false
	}
	c.now = c.now.Add(tk.interval)
	now := c.now
	c.mu.Unlock()
	return tk.fire(now)
}

type manualTicker struct {
	ch       chan time.Time
	interval time.Duration
	stopped  atomic.Bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

func (t *manualTicker) fire(now time.Time) bool {
	if t.stopped.Load() {
		return false
	}
	select {
	case t.ch <- now:
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

// scriptedClient answers status polls from a script and records every call.
type scriptedClient struct {
	mu          sync.Mutex
	initErr     error
	initPinIDs  []models.ID
	script      []pollResult
	polls       int
	polled      chan struct{}
	blockStatus chan struct{} // if set, AuthStatus waits on it
}

type pollResult struct {
	status *models.AuthStatus
	err    error
}

func newScriptedClient(script ...pollResult) *scriptedClient {
	return &scriptedClient{script: script, polled: make(chan struct{}, 64)}
}

func (c *scriptedClient) InitiateAuth(ctx context.Context, pinID models.ID) (*models.AuthInitiation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initPinIDs = append(c.initPinIDs, pinID)
	if c.initErr != nil {
		return nil, c.initErr
	}
	id := pinID
	if id.IsZero() {
		id = "4242"
	}
	return &models.AuthInitiation{PinID: id, Code: "ABCD", RedirectURL: "https://app.plex.tv/auth#?code=ABCD"}, nil
}

func (c *scriptedClient) AuthStatus(ctx context.Context, pinID models.ID) (*models.AuthStatus, error) {
	c.mu.Lock()
	i := c.polls
	c.polls++
	block := c.blockStatus
	c.mu.Unlock()

	c.polled <- struct{}{}
	if block != nil {
		<-block
	}

	if i < len(c.script) {
		return c.script[i].status, c.script[i].err
	}
	return &models.AuthStatus{}, nil
}

func (c *scriptedClient) pollCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polls
}

func (c *scriptedClient) waitPoll(t *testing.T) {
	t.Helper()
	select {
	case <-c.polled:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a status poll")
	}
}

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the task to finish")
	}
}

var (
	pending       = pollResult{status: &models.AuthStatus{}}
	transientErr  = pollResult{err: errors.New("connection reset")}
	authenticated = pollResult{status: &models.AuthStatus{Authenticated: true, UserID: "7", Username: "alice"}}
)

func TestStartShowsPIN(t *testing.T) {
	client := newScriptedClient()
	h := NewHandshake(client, Config{PollInterval: 10 * time.Second}, WithClock(newManualClock()))

	task, err := h.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer task.Cancel()

	pin := task.PIN()
	if pin.Code != "ABCD" || pin.ID != "4242" || pin.AuthURL == "" {
		t.Errorf("PIN() = %+v", pin)
	}
	if task.State() != StateAwaitingConfirmation {
		t.Errorf("State() = %s, want awaiting_confirmation", task.State())
	}
}

func TestHandshakeAuthenticatesOnce(t *testing.T) {
	client := newScriptedClient(pending, transientErr, authenticated)
	clock := newManualClock()

	var hookCalls atomic.Int32
	var hookIdentity Identity
	h := NewHandshake(client, Config{PollInterval: 10 * time.Second, MaxWait: time.Hour},
		WithClock(clock),
		OnAuthenticated(func(id Identity) {
			hookCalls.Add(1)
			hookIdentity = id
		}),
	)

	task, err := h.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if !clock.Advance() {
			t.Fatalf("tick %d not delivered", i+1)
		}
		client.waitPoll(t)
	}
	waitDone(t, task)

	if task.State() != StateAuthenticated {
		t.Fatalf("State() = %s, want authenticated", task.State())
	}
	id, err := task.Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if id.Username != "alice" || id.UserID != "7" {
		t.Errorf("Result() = %+v", id)
	}
	if hookCalls.Load() != 1 || hookIdentity != id {
		t.Errorf("hook calls = %d identity = %+v", hookCalls.Load(), hookIdentity)
	}

	// No further polls once authenticated.
	if clock.Advance() {
		t.Error("tick delivered after authentication")
	}
	if client.pollCount() != 3 {
		t.Errorf("polls = %d, want 3", client.pollCount())
	}
	task.Cancel()
	if task.State() != StateAuthenticated {
		t.Errorf("Cancel() after success changed state to %s", task.State())
	}
}

func TestHandshakeCompletesOnUserIDOnly(t *testing.T) {
	client := newScriptedClient(pollResult{status: &models.AuthStatus{UserID: "99"}})
	clock := newManualClock()
	h := NewHandshake(client, Config{PollInterval: 3 * time.Second}, WithClock(clock))

	task, err := h.Resume(context.Background(), "555")
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	clock.Advance()
	waitDone(t, task)

	if id, err := task.Result(); err != nil || id.UserID != "99" {
		t.Errorf("Result() = %+v, %v", id, err)
	}
}

func TestResumeSendsPinID(t *testing.T) {
	client := newScriptedClient()
	h := NewHandshake(client, Config{}, WithClock(newManualClock()))

	task, err := h.Resume(context.Background(), "555")
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	defer task.Cancel()

	if len(client.initPinIDs) != 1 || client.initPinIDs[0] != "555" {
		t.Errorf("InitiateAuth pin ids = %v, want [555]", client.initPinIDs)
	}
	if task.PIN().ID != "555" {
		t.Errorf("PIN().ID = %q, want 555", task.PIN().ID)
	}

	if _, err := h.Resume(context.Background(), ""); !errors.Is(err, ErrInitiationFailed) {
		t.Errorf("Resume(\"\") error = %v, want ErrInitiationFailed", err)
	}
}

func TestInitiationFailureIsNotRetried(t *testing.T) {
	client := newScriptedClient()
	client.initErr = errors.New("status 503")
	clock := newManualClock()
	h := NewHandshake(client, Config{PollInterval: time.Second}, WithClock(clock))

	task, err := h.Start(context.Background())
	if !errors.Is(err, ErrInitiationFailed) {
		t.Fatalf("Start() error = %v, want ErrInitiationFailed", err)
	}
	if task != nil {
		t.Error("Start() should not return a task on failure")
	}
	if len(client.initPinIDs) != 1 {
		t.Errorf("initiation requests = %d, want 1", len(client.initPinIDs))
	}
	if clock.Advance() {
		t.Error("no poll timer should be armed after initiation failure")
	}
	if client.pollCount() != 0 {
		t.Errorf("polls = %d, want 0", client.pollCount())
	}
}

func TestRateLimitedInitiationIsSentOnce(t *testing.T) {
	var initiates atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/initiate" {
			initiates.Add(1)
		}
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := backend.New(backend.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("backend.New() error = %v", err)
	}
	client.SetRetryBaseDelay(time.Millisecond)

	task, err := NewHandshake(client, Config{}).Start(context.Background())
	if !errors.Is(err, ErrInitiationFailed) {
		t.Fatalf("Start() error = %v, want ErrInitiationFailed", err)
	}
	if task != nil {
		t.Error("Start() should not return a task on failure")
	}
	if initiates.Load() != 1 {
		t.Errorf("initiation requests = %d, want 1", initiates.Load())
	}
}

func TestCancelStopsPolling(t *testing.T) {
	client := newScriptedClient()
	clock := newManualClock()
	h := NewHandshake(client, Config{PollInterval: 10 * time.Second}, WithClock(clock))

	task, err := h.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clock.Advance()
	client.waitPoll(t)

	task.Cancel()
	task.Cancel() // idempotent
	waitDone(t, task)

	if task.State() != StateCancelled {
		t.Errorf("State() = %s, want cancelled", task.State())
	}
	if _, err := task.Result(); !errors.Is(err, ErrCancelled) {
		t.Errorf("Result() error = %v, want ErrCancelled", err)
	}
	if clock.Advance() {
		t.Error("tick delivered after cancel")
	}
	if client.pollCount() != 1 {
		t.Errorf("polls = %d, want 1", client.pollCount())
	}
}

func TestCancelIgnoresInFlightResponse(t *testing.T) {
	client := newScriptedClient(authenticated)
	client.blockStatus = make(chan struct{})
	clock := newManualClock()

	var hookCalls atomic.Int32
	h := NewHandshake(client, Config{PollInterval: 10 * time.Second}, WithClock(clock),
		OnAuthenticated(func(Identity) { hookCalls.Add(1) }))

	task, err := h.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clock.Advance()
	client.waitPoll(t) // request now in flight

	task.Cancel()
	close(client.blockStatus) // response arrives after teardown

	waitDone(t, task)
	// Give the poll goroutine a moment to observe the late response.
	time.Sleep(20 * time.Millisecond)

	if task.State() != StateCancelled {
		t.Errorf("State() = %s, want cancelled", task.State())
	}
	if hookCalls.Load() != 0 {
		t.Error("OnAuthenticated must not run for a response received after cancel")
	}
}

func TestHandshakeExpires(t *testing.T) {
	client := newScriptedClient()
	clock := newManualClock()
	h := NewHandshake(client, Config{PollInterval: 10 * time.Second, MaxWait: 30 * time.Second}, WithClock(clock))

	task, err := h.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clock.Advance() // t=10s poll
	client.waitPoll(t)
	clock.Advance() // t=20s poll
	client.waitPoll(t)
	clock.Advance() // t=30s expired
	waitDone(t, task)

	if task.State() != StateFailed {
		t.Errorf("State() = %s, want failed", task.State())
	}
	if _, err := task.Result(); !errors.Is(err, ErrHandshakeExpired) {
		t.Errorf("Result() error = %v, want ErrHandshakeExpired", err)
	}
	if client.pollCount() != 2 {
		t.Errorf("polls = %d, want 2", client.pollCount())
	}
}

func TestWaitRespectsContext(t *testing.T) {
	client := newScriptedClient()
	h := NewHandshake(client, Config{}, WithClock(newManualClock()))

	task, err := h.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer task.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want DeadlineExceeded", err)
	}
	if task.State() != StateAwaitingConfirmation {
		t.Errorf("Wait() timeout must not end the task, state = %s", task.State())
	}
}

func TestNewHandshakeDefaults(t *testing.T) {
	h := NewHandshake(newScriptedClient(), Config{MaxWait: -time.Second})
	if h.cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", h.cfg.PollInterval, DefaultPollInterval)
	}
	if h.cfg.MaxWait != 0 {
		t.Errorf("MaxWait = %v, want 0", h.cfg.MaxWait)
	}
}
