// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package config loads and validates hybridrec configuration with koanf.

# Sources

Configuration is layered, lowest priority first:

 1. Built-in defaults
 2. An optional YAML file: CONFIG_PATH, else config.yaml in the working
    directory, else /etc/hybridrec/config.yaml
 3. Environment variables from a fixed mapping table

Environment variables that are not in the table are ignored.

# Sections

  - server: listen address, timeouts, CORS origins, rate limiting
  - logging: level, format, caller
  - recommend: response cache, history window, candidate depth, scorer choice
  - models: blob store backend, snapshot keys, popularity source, load retry
  - supervisor: suture failure threshold, decay and backoff

# Example

	models:
	  backend: badger
	  path: /var/lib/hybridrec/models
	recommend:
	  cache_capacity: 500
	  cache_ttl: 10m

Common environment overrides:

	HTTP_PORT=9090
	LOG_LEVEL=debug
	MODEL_BACKEND=redis REDIS_ADDR=redis:6379
	CORS_ORIGINS=https://a.example,https://b.example
*/
package config
