// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultRedisImage is the image used for model store tests.
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the port Redis listens on inside the container.
	DefaultRedisPort = "6379"
)

// RedisContainer is a running Redis server.
type RedisContainer struct {
	testcontainers.Container

	// Addr is host:port reachable from the test process.
	Addr string
}

// RedisOption configures the Redis container.
type RedisOption func(*redisConfig)

type redisConfig struct {
	image        string
	password     string
	startTimeout time.Duration
}

// WithRedisImage sets a custom Redis image.
func WithRedisImage(image string) RedisOption {
	return func(c *redisConfig) {
		c.image = image
	}
}

// WithRedisPassword starts the server with requirepass.
func WithRedisPassword(password string) RedisOption {
	return func(c *redisConfig) {
		c.password = password
	}
}

// WithStartTimeout sets the timeout for waiting for the container to start.
func WithStartTimeout(timeout time.Duration) RedisOption {
	return func(c *redisConfig) {
		c.startTimeout = timeout
	}
}

// NewRedisContainer starts a Redis container and waits until it accepts
// connections.
//
//	redis, err := testinfra.NewRedisContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, redis)
func NewRedisContainer(ctx context.Context, opts ...RedisOption) (*RedisContainer, error) {
	cfg := &redisConfig{
		image:        DefaultRedisImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultRedisPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultRedisPort+"/tcp"),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(cfg.startTimeout),
	}
	if cfg.password != "" {
		req.Cmd = []string{"redis-server", "--requirepass", cfg.password}
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultRedisPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &RedisContainer{
		Container: container,
		Addr:      fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}
