// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher reloads a recommendation view.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshServiceConfig holds configuration for the refresh service.
type RefreshServiceConfig struct {
	// Interval is the gap between refreshes. Default: 5m
	Interval time.Duration

	// OnRefresh runs after every refresh attempt with its result,
	// e.g. to redraw the table.
	OnRefresh func(err error)
}

// RefreshService refreshes a view on a fixed interval until stopped.
// Failed refreshes are logged and retried on the next tick.
type RefreshService struct {
	view   Refresher
	config RefreshServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRefreshService creates a refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(view Refresher, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &RefreshService{
		view:   view,
		config: cfg,
		logger: logger.With().Str("service", "refresh").Logger(),
		name:   "refresh-service",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.config.Interval).Msg("refresh service running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			err := s.view.Refresh(ctx)
			if err != nil {
				s.logger.Warn().Err(err).Msg("scheduled refresh failed")
			}
			if s.config.OnRefresh != nil {
				s.config.OnRefresh(err)
			}
		}
	}
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
