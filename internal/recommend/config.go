// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response cache parameters.
	Cache CacheConfig `json:"cache"`

	// SingleFlight collapses concurrent misses on the same fingerprint into
	// one scoring pass.
	// Default: true.
	SingleFlight bool `json:"single_flight"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// HistoryWindow is how many of the most recent history ids feed scoring.
	// Default: 20.
	HistoryWindow int `json:"history_window"`

	// CandidateMultiplier scales how many candidates each scorer produces
	// relative to the requested count before merging.
	// Default: 2.
	CandidateMultiplier int `json:"candidate_multiplier"`

	// MaxRecommendations is the largest n a request may ask for.
	// Default: 100.
	MaxRecommendations int `json:"max_recommendations"`

	// FallbackPool is the id range used for substitute lists when no model
	// is loaded.
	// Default: 1000.
	FallbackPool int `json:"fallback_pool"`
}

// CacheConfig contains response cache parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// Capacity is the maximum number of cached results.
	// Default: 100.
	Capacity int `json:"capacity"`

	// TTL is the cache entry time-to-live. Zero disables expiry.
	// Default: 0.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			HistoryWindow:       DefaultHistoryWindow,
			CandidateMultiplier: 2,
			MaxRecommendations:  100,
			FallbackPool:        1000,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 100,
			TTL:      0,
		},
		SingleFlight: true,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.HistoryWindow < 1 {
		return fmt.Errorf("limits.history_window must be positive, got %d", c.Limits.HistoryWindow)
	}
	if c.Limits.CandidateMultiplier < 1 {
		return fmt.Errorf("limits.candidate_multiplier must be positive, got %d", c.Limits.CandidateMultiplier)
	}
	if c.Limits.MaxRecommendations < 1 {
		return fmt.Errorf("limits.max_recommendations must be positive, got %d", c.Limits.MaxRecommendations)
	}
	if c.Limits.FallbackPool < 1 {
		return fmt.Errorf("limits.fallback_pool must be positive, got %d", c.Limits.FallbackPool)
	}

	if c.Cache.Enabled && c.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be positive, got %d", c.Cache.Capacity)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Cache struct {
			Enabled  bool   `json:"enabled"`
			Capacity int    `json:"capacity"`
			TTL      string `json:"ttl"`
		} `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Cache: struct {
			Enabled  bool   `json:"enabled"`
			Capacity int    `json:"capacity"`
			TTL      string `json:"ttl"`
		}{
			Enabled:  c.Cache.Enabled,
			Capacity: c.Cache.Capacity,
			TTL:      c.Cache.TTL.String(),
		},
	})
}
