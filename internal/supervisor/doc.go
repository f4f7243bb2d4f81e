// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package supervisor runs the long-lived parts of hybridrec under a suture v4
supervision tree.

# Layout

	RootSupervisor ("hybridrec")
	├── ModelsSupervisor ("models-layer")
	│   └── ModelLoaderService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The model loader retries until a bundle is published and then removes itself
by returning suture.ErrDoNotRestart. The HTTP server starts immediately and
serves fallback lists until the engine reports ready.

# Logging

Supervisor events (restarts, backoff, timeouts) go through sutureslog. The
slog logger handed to NewSupervisorTree is normally built with
logging.NewSlogLogger so the events land in the same zerolog stream as the
rest of the process.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    FailureThreshold: cfg.Supervisor.FailureThreshold,
	    ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	tree.AddModelService(services.NewModelLoaderService(provider, loader.Load, loaderCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor tree stopped")
	}
*/
package supervisor
