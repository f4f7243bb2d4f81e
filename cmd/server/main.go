// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/hybridrec/internal/api"
	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/supervisor"
	"github.com/tomtom215/hybridrec/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires the components and blocks until a shutdown signal arrives.
func run(cfg *config.Config) error {
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("model_backend", cfg.Models.Backend).
		Str("collaborative", cfg.Recommend.Collaborative).
		Msg("Starting hybridrec")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog needs slog; the adapter routes it back into zerolog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	rec, err := initRecommend(cfg, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model storage")
		}
	}()
	tree.AddModelService(rec.Loader)

	router := api.NewRouter(rec.Engine, api.RouterConfig{
		Middleware:     buildMiddlewareConfig(cfg),
		Logger:         logging.WithComponent("http"),
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = fmt.Errorf("supervisor tree: %w", err)
		}
	}
	cancel()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best effort after shutdown
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	return serveErr
}

// buildMiddlewareConfig maps server settings onto the HTTP middleware.
func buildMiddlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mw.RateLimitRequests = cfg.Server.RateLimitRequests
	mw.RateLimitWindow = cfg.Server.RateLimitWindow
	mw.RateLimitDisabled = cfg.Server.RateLimitDisabled
	return mw
}
