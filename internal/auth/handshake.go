// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/metrics"
	"github.com/tomtom215/plexintel/internal/models"
)

// Handshake errors
var (
	// ErrInitiationFailed indicates the backend could not issue a PIN.
	// Initiation is never retried automatically.
	ErrInitiationFailed = errors.New("login initiation failed")

	// ErrHandshakeExpired indicates the login was not confirmed within MaxWait.
	ErrHandshakeExpired = errors.New("login was not confirmed in time")

	// ErrCancelled indicates the handshake was cancelled before it finished.
	ErrCancelled = errors.New("login cancelled")
)

// Defaults
const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxWait      = 15 * time.Minute
)

// StatusClient is the part of the backend the handshake needs.
type StatusClient interface {
	InitiateAuth(ctx context.Context, pinID models.ID) (*models.AuthInitiation, error)
	AuthStatus(ctx context.Context, pinID models.ID) (*models.AuthStatus, error)
}

// Config holds handshake timing.
type Config struct {
	// PollInterval is the gap between status polls. Default: 10s
	PollInterval time.Duration

	// MaxWait abandons polling after this long. 0 polls until cancelled.
	MaxWait time.Duration
}

// Identity is the user resolved by a completed login.
type Identity struct {
	Username string
	UserID   string
}

// PIN is the one-time code shown to the user.
type PIN struct {
	ID      models.ID
	Code    string
	AuthURL string
}

// Option configures a Handshake.
type Option func(*Handshake)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(h *Handshake) { h.clock = c }
}

// OnAuthenticated registers a hook called once when a task completes
// successfully. It runs on the poll goroutine.
func OnAuthenticated(fn func(Identity)) Option {
	return func(h *Handshake) { h.onAuthenticated = fn }
}

// Handshake runs the PIN login flow against the backend:
// obtain a code, show it, poll until the backend reports the login done.
type Handshake struct {
	client          StatusClient
	cfg             Config
	clock           Clock
	onAuthenticated func(Identity)
}

// NewHandshake creates a handshake runner.
func NewHandshake(client StatusClient, cfg Config, opts ...Option) *Handshake {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxWait < 0 {
		cfg.MaxWait = 0
	}

	h := &Handshake{
		client: client,
		cfg:    cfg,
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start requests a new PIN and begins polling for its confirmation.
// Exactly one initiation request is made.
func (h *Handshake) Start(ctx context.Context) (*Task, error) {
	return h.begin(ctx, "")
}

// Resume fetches the code of an existing PIN and polls for it. This is
// the path taken after the hosted Plex login page redirects back.
func (h *Handshake) Resume(ctx context.Context, pinID models.ID) (*Task, error) {
	if pinID.IsZero() {
		return nil, fmt.Errorf("%w: empty pin id", ErrInitiationFailed)
	}
	return h.begin(ctx, pinID)
}

func (h *Handshake) begin(ctx context.Context, pinID models.ID) (*Task, error) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.Ctx(ctx)

	init, err := h.client.InitiateAuth(ctx, pinID)
	if err != nil {
		metrics.RecordHandshake("initiation_failed", 0)
		logger.Warn().Err(err).Msg("Login initiation failed")
		return nil, fmt.Errorf("%w: %w", ErrInitiationFailed, err)
	}

	pin := PIN{ID: init.PinID, Code: init.Code, AuthURL: init.AuthURL()}
	logger.Info().
		Str("pin_id", pin.ID.String()).
		Str("code", logging.MaskSecret(pin.Code)).
		Dur("poll_interval", h.cfg.PollInterval).
		Msg("Awaiting Plex login confirmation")

	t := newTask(h, context.WithoutCancel(ctx), pin)
	go t.run()
	return t, nil
}
