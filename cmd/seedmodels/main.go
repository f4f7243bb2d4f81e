// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Command seedmodels writes deterministic demo model snapshots into the
// configured blob store so the server can run without a training pipeline.
//
//	go run ./cmd/seedmodels -path ./data/models -items 2000 -users 500
//	go run ./cmd/seedmodels -backend redis -interactions ./data/clicks.csv
//
// Storage settings come from the same configuration as the server (file,
// environment) and can be overridden with -backend and -path.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend/storage"
)

func main() {
	opts := defaultSeedOptions()

	fs := flag.NewFlagSet("seedmodels", flag.ExitOnError)
	backend := fs.String("backend", "", "Blob backend: file, badger or redis (default from config)")
	path := fs.String("path", "", "Directory for the file and badger backends (default from config)")
	interactions := fs.String("interactions", "", "Also write the click log as CSV to this path")
	skipFactors := fs.Bool("no-factors", false, "Do not write the latent factor snapshot")
	fs.IntVar(&opts.Items, "items", opts.Items, "Number of catalog items")
	fs.IntVar(&opts.Dim, "dim", opts.Dim, "Embedding dimension")
	fs.IntVar(&opts.Users, "users", opts.Users, "Number of users with factor rows")
	fs.IntVar(&opts.Factors, "factors", opts.Factors, "Latent factor dimension")
	fs.IntVar(&opts.Clicks, "clicks", opts.Clicks, "Number of generated clicks")
	fs.Uint64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	fs.IntVar(&opts.Version, "version", opts.Version, "Snapshot version")
	_ = fs.Parse(os.Args[1:]) //nolint:errcheck // ExitOnError

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	if *backend != "" {
		cfg.Models.Backend = *backend
	}
	if *path != "" {
		cfg.Models.Path = *path
	}
	if err := opts.validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid options")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, opts, *interactions, *skipFactors); err != nil {
		cancel()
		logging.Fatal().Err(err).Msg("Seeding failed")
	}
}

//nolint:gocritic // hugeParam: options are read once
func run(ctx context.Context, cfg *config.Config, opts seedOptions, interactionsPath string, skipFactors bool) error {
	blobs, err := storage.OpenBlobs(storage.BackendConfig{
		Backend: cfg.Models.Backend,
		Path:    cfg.Models.Path,
		Redis: storage.RedisConfig{
			Addr:     cfg.Models.RedisAddr,
			Password: cfg.Models.RedisPassword,
			DB:       cfg.Models.RedisDB,
			Prefix:   cfg.Models.RedisPrefix,
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing blob store")
		}
	}()

	keys := seedKeys{
		Catalog:  cfg.Models.CatalogKey,
		Factors:  cfg.Models.FactorsKey,
		Metadata: cfg.Models.MetadataKey,
	}
	if skipFactors {
		keys.Factors = ""
	}

	models := generate(opts)
	if err := seedModels(ctx, storage.NewSnapshotStore(blobs), keys, opts, models); err != nil {
		return err
	}

	logging.Info().
		Str("backend", cfg.Models.Backend).
		Str("path", cfg.Models.Path).
		Int("items", opts.Items).
		Int("dim", opts.Dim).
		Int("users", opts.Users).
		Bool("factors", keys.Factors != "").
		Int("clicks", len(models.Clicks)).
		Msg("Demo model snapshots written")

	if interactionsPath != "" {
		if err := writeInteractions(interactionsPath, cfg.Models.ItemColumn, models.Clicks); err != nil {
			return err
		}
		logging.Info().Str("path", interactionsPath).Msg("Interaction log written")
	}
	return nil
}
