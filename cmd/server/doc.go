// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package main is the entry point for the hybridrec server.

hybridrec serves item recommendations that blend a content-based signal
(cosine similarity over item embeddings) with a collaborative signal (latent
factors, or a seeded placeholder). The blend weights depend on how much
history the user has.

# Application Architecture

	RootSupervisor ("hybridrec")
	├── ModelsSupervisor ("models-layer")
	│   └── ModelLoaderService (blob store -> model.Provider)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (chi router)

Initialization order:

 1. Configuration: koanf v2 with defaults, an optional YAML file and environment variables
 2. Logging: zerolog with JSON or console output
 3. Model storage: file, badger or redis blob backend
 4. Engine: content and collaborative scorers over an empty provider
 5. Supervisor tree: model loader and HTTP server

The HTTP server starts before the model is loaded. Until the loader publishes
a bundle the engine answers with deterministic fallback lists and
/api/v1/health/ready returns 503.

# Configuration

	# Server
	HTTP_PORT=8080
	HTTP_REQUEST_TIMEOUT=10s
	CORS_ORIGINS=https://app.example.com
	RATE_LIMIT_REQUESTS=100
	LOG_LEVEL=info
	LOG_FORMAT=json

	# Models
	MODEL_BACKEND=file           # file, badger or redis
	MODEL_PATH=/data/models
	REDIS_ADDR=localhost:6379
	POPULARITY_SOURCE=metadata   # metadata or duckdb
	INTERACTIONS_PATH=/data/clicks.parquet

	# Engine
	RECOMMEND_CACHE_CAPACITY=100
	RECOMMEND_COLLABORATIVE=factors   # factors or seeded

A YAML file is read from CONFIG_PATH, ./config.yaml or
/etc/hybridrec/config.yaml.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to HTTP_SHUTDOWN_TIMEOUT before the process exits.

# Example Usage

	go run ./cmd/seedmodels -items 2000 -users 500
	MODEL_PATH=./data/models go run ./cmd/server
	curl -s localhost:8080/api/v1/recommendations \
	    -d '{"user_id": 7, "history": [12, 40, 41], "n_recommendations": 5}'
*/
package main
