// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hybridrec/config.yaml",
	"/etc/hybridrec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			RequestTimeout:    15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			CacheEnabled:        true,
			CacheCapacity:       100,
			HistoryWindow:       20,
			CandidateMultiplier: 2,
			MaxRecommendations:  100,
			FallbackPool:        1000,
			Collaborative:       CollaborativeFactors,
			CollaborativePool:   1000,
			SingleFlight:        true,
		},
		Models: ModelsConfig{
			Backend:          BackendFile,
			Path:             "/data/models",
			RedisPrefix:      "hybridrec:",
			CatalogKey:       "models/cb_pca50",
			FactorsKey:       "models/cf_svd",
			MetadataKey:      "config/metadata",
			PopularitySource: "metadata",
			ItemColumn:       "click_article_id",
			RetryInterval:    30 * time.Second,
			LoadTimeout:      2 * time.Minute,
			BreakerFailures:  3,
			BreakerTimeout:   time.Minute,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// Default returns the built-in configuration without consulting any file
// or the environment.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from three layers, lowest priority first:
//
//  1. Defaults
//  2. YAML file (CONFIG_PATH, else the first of DefaultConfigPaths that exists)
//  3. Environment variables listed in envMappings
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := findConfigFile()
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
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

// findConfigFile returns the config file to load, or "" when none exists.
// An explicit CONFIG_PATH that does not exist is an error.
func findConfigFile() (string, error) {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", envPath, err)
		}
		return envPath, nil
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_request_timeout":  "server.request_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"recommend_cache_enabled":        "recommend.cache_enabled",
	"recommend_cache_capacity":       "recommend.cache_capacity",
	"recommend_cache_ttl":            "recommend.cache_ttl",
	"recommend_history_window":       "recommend.history_window",
	"recommend_candidate_multiplier": "recommend.candidate_multiplier",
	"recommend_max_recommendations":  "recommend.max_recommendations",
	"recommend_fallback_pool":        "recommend.fallback_pool",
	"recommend_collaborative":        "recommend.collaborative",
	"recommend_collaborative_pool":   "recommend.collaborative_pool",
	"recommend_singleflight":         "recommend.singleflight",

	"model_backend":          "models.backend",
	"model_path":             "models.path",
	"redis_addr":             "models.redis_addr",
	"redis_password":         "models.redis_password",
	"redis_db":               "models.redis_db",
	"redis_prefix":           "models.redis_prefix",
	"model_catalog_key":      "models.catalog_key",
	"model_factors_key":      "models.factors_key",
	"model_metadata_key":     "models.metadata_key",
	"popularity_source":      "models.popularity_source",
	"interactions_path":      "models.interactions_path",
	"interactions_item_col":  "models.item_column",
	"model_retry_interval":   "models.retry_interval",
	"model_load_timeout":     "models.load_timeout",
	"model_breaker_failures": "models.breaker_failures",
	"model_breaker_timeout":  "models.breaker_timeout",

	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc maps an environment variable name to a koanf path, or ""
// to skip it.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - MODEL_BACKEND -> models.backend
//   - RECOMMEND_CACHE_TTL -> recommend.cache_ttl
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
