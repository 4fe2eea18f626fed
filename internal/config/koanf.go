// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/plexintel/internal/validation"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"plexintel.yaml",
	"plexintel.yml",
	filepath.Join(userConfigDir(), "plexintel", "config.yaml"),
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix is stripped from environment variables before mapping them to config paths.
const envPrefix = "PLEXINTEL_"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8489",
			Timeout:   30 * time.Second,
			RateLimit: 5,
			RateBurst: 10,
			UserAgent: "plexintel-cli/1.0",
		},
		Auth: AuthConfig{
			PollInterval: 10 * time.Second,
			MaxWait:      15 * time.Minute,
		},
		View: ViewConfig{
			DefaultMode: "all",
			Locale:      "en",
		},
		Feedback: FeedbackConfig{
			RequireReason: false,
		},
		Session: SessionConfig{
			Store: "badger",
			Path:  filepath.Join(userConfigDir(), "plexintel", "session"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config file: path if non-empty, else CONFIG_PATH, else DefaultConfigPaths
//  3. Environment variables (highest priority)
//
// An explicit path that does not exist is an error; a missing default file is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c)
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// legacyEnvMappings maps unprefixed environment variables shared with the
// rest of the tooling to config paths.
var legacyEnvMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Variables that do not belong to this client map to "" and are skipped.
//
// Examples:
//   - PLEXINTEL_BACKEND_BASE_URL -> backend.base_url
//   - PLEXINTEL_AUTH_POLL_INTERVAL -> auth.poll_interval
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	lower := strings.ToLower(key)
	if mapped, ok := legacyEnvMappings[lower]; ok {
		return mapped
	}

	if !strings.HasPrefix(key, envPrefix) {
		return ""
	}

	rest := strings.ToLower(strings.TrimPrefix(key, envPrefix))
	section, field, ok := strings.Cut(rest, "_")
	if !ok || field == "" {
		return ""
	}
	return section + "." + field
}

// userConfigDir returns the per-user configuration directory, falling back
// to the working directory when the platform has none.
func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return dir
}
