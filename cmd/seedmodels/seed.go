// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend/model"
	"github.com/tomtom215/hybridrec/internal/recommend/storage"
)

// seedOptions sizes the generated demo models.
type seedOptions struct {
	Items   int
	Dim     int
	Users   int
	Factors int
	Clicks  int
	Seed    uint64
	Version int
}

func defaultSeedOptions() seedOptions {
	return seedOptions{
		Items:   1000,
		Dim:     50,
		Users:   200,
		Factors: 16,
		Clicks:  20000,
		Seed:    42,
		Version: 1,
	}
}

func (o seedOptions) validate() error {
	switch {
	case o.Items < 1:
		return fmt.Errorf("items must be positive, got %d", o.Items)
	case o.Dim < 1:
		return fmt.Errorf("dim must be positive, got %d", o.Dim)
	case o.Users < 0:
		return fmt.Errorf("users must not be negative, got %d", o.Users)
	case o.Factors < 1:
		return fmt.Errorf("factors must be positive, got %d", o.Factors)
	case o.Clicks < 0:
		return fmt.Errorf("clicks must not be negative, got %d", o.Clicks)
	}
	return nil
}

// seedKeys are the snapshot keys written by seedModels.
type seedKeys struct {
	Catalog  string
	Factors  string
	Metadata string
}

// demoModels is one generated model set.
type demoModels struct {
	Embeddings [][]float64
	Users      map[int][]float64
	Items      [][]float64
	Clicks     []click
}

type click struct {
	UserID int
	ItemID int
}

// generate builds embeddings clustered around a few topic centroids, latent
// factors and a Zipf-distributed click log. The same options always produce
// the same models.
func generate(o seedOptions) demoModels {
	// #nosec G404 -- reproducible demo data, not security sensitive
	rng := rand.New(rand.NewPCG(o.Seed, uint64(o.Items)))

	topics := max(1, o.Items/50)
	centroids := make([][]float64, topics)
	for i := range centroids {
		centroids[i] = gaussianVector(rng, o.Dim, 1.0)
	}

	m := demoModels{
		Embeddings: make([][]float64, o.Items),
		Users:      make(map[int][]float64, o.Users),
		Items:      make([][]float64, o.Items),
	}
	for i := range m.Embeddings {
		c := centroids[i%topics]
		row := gaussianVector(rng, o.Dim, 0.3)
		for j := range row {
			row[j] += c[j]
		}
		m.Embeddings[i] = row
		m.Items[i] = gaussianVector(rng, o.Factors, 0.5)
	}
	for u := 0; u < o.Users; u++ {
		m.Users[u] = gaussianVector(rng, o.Factors, 0.5)
	}

	if o.Clicks > 0 && o.Users > 0 {
		zipf := rand.NewZipf(rng, 1.2, 1, uint64(o.Items-1))
		m.Clicks = make([]click, o.Clicks)
		for i := range m.Clicks {
			m.Clicks[i] = click{UserID: rng.IntN(o.Users), ItemID: int(zipf.Uint64())}
		}
	}
	return m
}

func gaussianVector(rng *rand.Rand, n int, scale float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64() * scale
	}
	return v
}

// popularity counts clicks per item.
func (m demoModels) popularity() []model.ItemCount {
	counts := make(map[int]int64)
	for _, c := range m.Clicks {
		counts[c.ItemID]++
	}
	return model.NewPopularityFromMap(counts).Top(len(counts))
}

// seedModels writes the catalog, factor and metadata snapshots.
//
//nolint:gocritic // hugeParam: options are read once
func seedModels(ctx context.Context, store *storage.SnapshotStore, keys seedKeys, o seedOptions, m demoModels) error {
	if err := store.Save(ctx, keys.Catalog, storage.CatalogSnapshot{Embeddings: m.Embeddings}, storage.SnapshotInfo{
		Version: o.Version,
		Rows:    o.Items,
		Dim:     o.Dim,
	}); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	if keys.Factors != "" {
		if err := store.Save(ctx, keys.Factors, storage.FactorsSnapshot{Users: m.Users, Items: m.Items}, storage.SnapshotInfo{
			Version: o.Version,
			Rows:    o.Items,
			Dim:     o.Factors,
		}); err != nil {
			return fmt.Errorf("save factors: %w", err)
		}
	}

	meta := &storage.MetadataSnapshot{
		ModelVersion: fmt.Sprintf("demo-v%d", o.Version),
		CreatedAt:    time.Now().UTC(),
		Popularity:   m.popularity(),
		Params: map[string]string{
			"items":   strconv.Itoa(o.Items),
			"dim":     strconv.Itoa(o.Dim),
			"users":   strconv.Itoa(o.Users),
			"factors": strconv.Itoa(o.Factors),
			"seed":    strconv.FormatUint(o.Seed, 10),
		},
	}
	if err := store.SaveMetadata(ctx, keys.Metadata, meta); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

// writeInteractions writes the click log as CSV with the given item column,
// the input format of the duckdb popularity source.
func writeInteractions(path, itemColumn string, clicks []click) (err error) {
	f, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("create interactions file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", itemColumn}); err != nil {
		return err
	}
	for _, c := range clicks {
		if err := w.Write([]string{strconv.Itoa(c.UserID), strconv.Itoa(c.ItemID)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
