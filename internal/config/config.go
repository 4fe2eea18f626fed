// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package config

import "time"

// Config holds all client configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH or the default search paths)
//  3. Environment Variables: PLEXINTEL_<SECTION>_<KEY>, plus LOG_LEVEL/LOG_FORMAT/LOG_CALLER
//
// Example:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client, err := backend.New(cfg.Backend.ClientConfig())
type Config struct {
	Backend     BackendConfig     `koanf:"backend"`
	Auth        AuthConfig        `koanf:"auth"`
	View        ViewConfig        `koanf:"view"`
	Feedback    FeedbackConfig    `koanf:"feedback"`
	Session     SessionConfig     `koanf:"session"`
	Logging     LoggingConfig     `koanf:"logging"`
	Diagnostics DiagnosticsConfig `koanf:"diagnostics"`
}

// BackendConfig describes how to reach the PlexIntel API.
type BackendConfig struct {
	// BaseURL is the origin serving /api/* (e.g. http://localhost:8489).
	BaseURL string `koanf:"base_url" validate:"required,http_url"`

	// Timeout bounds every HTTP request. This is the only bound on
	// in-flight calls; the view model never aborts a request itself.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimit is the sustained request rate in requests per second.
	// 0 disables client-side pacing.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`

	// RateBurst is the burst size allowed by the limiter.
	RateBurst int `koanf:"rate_burst" validate:"gte=1"`

	// UserAgent is sent on every request.
	UserAgent string `koanf:"user_agent"`
}

// AuthConfig controls the PIN login handshake.
type AuthConfig struct {
	// PollInterval is how often the status endpoint is queried.
	// Default: 10s
	PollInterval time.Duration `koanf:"poll_interval" validate:"gt=0"`

	// MaxWait abandons the handshake after this long without confirmation.
	// 0 polls until cancelled.
	// Default: 15m
	MaxWait time.Duration `koanf:"max_wait" validate:"gte=0"`
}

// ViewConfig holds defaults for the recommendation view.
type ViewConfig struct {
	// DefaultMode is the view mode used when none is given.
	DefaultMode string `koanf:"default_mode" validate:"oneof=all movies shows seasons episodes"`

	// Locale is the BCP 47 tag used for string collation when sorting.
	Locale string `koanf:"locale" validate:"required"`
}

// FeedbackConfig controls thumbs-up/down submission.
type FeedbackConfig struct {
	// RequireReason makes a reason code from feedback_options mandatory.
	RequireReason bool `koanf:"require_reason"`
}

// SessionConfig controls where session cookies are persisted between runs.
type SessionConfig struct {
	// Store is "badger" (persistent) or "memory" (login every run).
	Store string `koanf:"store" validate:"oneof=badger memory"`

	// Path is the BadgerDB directory.
	Path string `koanf:"path" validate:"required_if=Store badger"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is the output format: json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// DiagnosticsConfig controls the optional local diagnostics listener.
type DiagnosticsConfig struct {
	// Addr is the listen address for /healthz, /metrics and /debug/view.
	// Empty disables the listener.
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}
