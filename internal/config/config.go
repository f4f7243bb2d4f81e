// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Loading order (see Load):
//  1. Built-in defaults
//  2. Optional YAML file
//  3. Environment variables
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Models     ModelsConfig     `koanf:"models"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RequestTimeout bounds handler execution. Zero disables it.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// ShutdownTimeout bounds graceful shutdown of the listener.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP on the
	// recommendation routes.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	CacheEnabled  bool          `koanf:"cache_enabled"`
	CacheCapacity int           `koanf:"cache_capacity"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`

	// HistoryWindow is how many recent history ids feed scoring.
	HistoryWindow int `koanf:"history_window"`

	// CandidateMultiplier scales per-scorer candidate depth relative to n.
	CandidateMultiplier int `koanf:"candidate_multiplier"`

	MaxRecommendations int `koanf:"max_recommendations"`

	// FallbackPool is the id range for substitute lists without a model.
	FallbackPool int `koanf:"fallback_pool"`

	// Collaborative selects the collaborative scorer: seeded or factors.
	Collaborative string `koanf:"collaborative"`

	// CollaborativePool is the id range the seeded scorer draws from.
	CollaborativePool int `koanf:"collaborative_pool"`

	SingleFlight bool `koanf:"singleflight"`
}

// Collaborative scorer names.
const (
	CollaborativeSeeded  = "seeded"
	CollaborativeFactors = "factors"
)

// ModelsConfig holds model snapshot storage and loading settings.
type ModelsConfig struct {
	// Backend is the blob store: file, badger or redis.
	Backend string `koanf:"backend"`

	// Path is the directory for the file and badger backends.
	Path string `koanf:"path"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	CatalogKey  string `koanf:"catalog_key"`
	FactorsKey  string `koanf:"factors_key"`
	MetadataKey string `koanf:"metadata_key"`

	// PopularitySource is metadata or duckdb.
	PopularitySource string `koanf:"popularity_source"`
	InteractionsPath string `koanf:"interactions_path"`
	ItemColumn       string `koanf:"item_column"`

	// RetryInterval paces load attempts while no bundle is available.
	RetryInterval time.Duration `koanf:"retry_interval"`

	// LoadTimeout bounds a single load attempt.
	LoadTimeout time.Duration `koanf:"load_timeout"`

	// BreakerFailures consecutive failures open the load circuit breaker
	// for BreakerTimeout.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// Model storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// SupervisorConfig holds suture tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateRecommend,
		c.validateModels,
		c.validateSupervisor,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 || s.RequestTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitRequests < 1 {
			return fmt.Errorf("server.rate_limit_requests must be positive, got %d", s.RateLimitRequests)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %v", s.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.CacheEnabled && r.CacheCapacity < 1 {
		return fmt.Errorf("recommend.cache_capacity must be positive, got %d", r.CacheCapacity)
	}
	if r.CacheTTL < 0 {
		return fmt.Errorf("recommend.cache_ttl must be non-negative, got %v", r.CacheTTL)
	}
	if r.HistoryWindow < 1 {
		return fmt.Errorf("recommend.history_window must be positive, got %d", r.HistoryWindow)
	}
	if r.CandidateMultiplier < 1 {
		return fmt.Errorf("recommend.candidate_multiplier must be positive, got %d", r.CandidateMultiplier)
	}
	if r.MaxRecommendations < 1 {
		return fmt.Errorf("recommend.max_recommendations must be positive, got %d", r.MaxRecommendations)
	}
	if r.FallbackPool < 1 {
		return fmt.Errorf("recommend.fallback_pool must be positive, got %d", r.FallbackPool)
	}
	if r.CollaborativePool < 1 {
		return fmt.Errorf("recommend.collaborative_pool must be positive, got %d", r.CollaborativePool)
	}
	switch r.Collaborative {
	case CollaborativeSeeded, CollaborativeFactors:
	default:
		return fmt.Errorf("recommend.collaborative must be %s or %s, got %q", CollaborativeSeeded, CollaborativeFactors, r.Collaborative)
	}
	return nil
}

func (c *Config) validateModels() error {
	m := c.Models
	switch m.Backend {
	case BackendFile:
		if m.Path == "" {
			return fmt.Errorf("models.path is required for the file backend")
		}
	case BackendBadger:
		// An empty path runs badger in memory.
	case BackendRedis:
		if m.RedisAddr == "" {
			return fmt.Errorf("models.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("models.backend must be file, badger or redis, got %q", m.Backend)
	}

	if m.CatalogKey == "" {
		return fmt.Errorf("models.catalog_key is required")
	}
	switch m.PopularitySource {
	case "metadata":
	case "duckdb":
		if m.InteractionsPath == "" {
			return fmt.Errorf("models.interactions_path is required when popularity_source is duckdb")
		}
	default:
		return fmt.Errorf("models.popularity_source must be metadata or duckdb, got %q", m.PopularitySource)
	}

	if m.RetryInterval <= 0 {
		return fmt.Errorf("models.retry_interval must be positive, got %v", m.RetryInterval)
	}
	if m.LoadTimeout <= 0 {
		return fmt.Errorf("models.load_timeout must be positive, got %v", m.LoadTimeout)
	}
	if m.BreakerFailures < 1 {
		return fmt.Errorf("models.breaker_failures must be positive")
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	s := c.Supervisor
	if s.FailureThreshold <= 0 {
		return fmt.Errorf("supervisor.failure_threshold must be positive, got %v", s.FailureThreshold)
	}
	if s.FailureDecay <= 0 {
		return fmt.Errorf("supervisor.failure_decay must be positive, got %v", s.FailureDecay)
	}
	if s.FailureBackoff < 0 || s.ShutdownTimeout < 0 {
		return fmt.Errorf("supervisor durations must be non-negative")
	}
	return nil
}
