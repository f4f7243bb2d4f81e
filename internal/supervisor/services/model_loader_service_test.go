// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/hybridrec/internal/recommend/model"
	"github.com/tomtom215/hybridrec/internal/recommend/storage"
)

var errStorageDown = errors.New("storage unavailable")

func testBundle(t *testing.T) *model.Bundle {
	t.Helper()
	catalog, err := model.NewCatalog([][]float64{{1, 0}, {0, 1}, {1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := model.NewBundle(catalog, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// scriptedLoad fails with errs in order, then returns bundle.
func scriptedLoad(bundle *model.Bundle, calls *atomic.Int32, errs ...error) model.LoadFunc {
	return func(context.Context) (*model.Bundle, error) {
		n := int(calls.Add(1))
		if n <= len(errs) {
			return nil, errs[n-1]
		}
		return bundle, nil
	}
}

func fastConfig() ModelLoaderConfig {
	return ModelLoaderConfig{
		RetryInterval:   time.Millisecond,
		LoadTimeout:     time.Second,
		BreakerFailures: 10,
		BreakerTimeout:  time.Hour,
	}
}

func serveWithTimeout(t *testing.T, svc *ModelLoaderService, timeout time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svc.Serve(ctx)
}

func TestModelLoaderService_ImplementsService(t *testing.T) {
	t.Parallel()
	var _ suture.Service = (*ModelLoaderService)(nil)
}

func TestNewModelLoaderService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewModelLoaderService(model.NewProvider(), nil, ModelLoaderConfig{}, zerolog.Nop())
	if svc.config != DefaultModelLoaderConfig() {
		t.Errorf("config = %+v, want %+v", svc.config, DefaultModelLoaderConfig())
	}
	if svc.String() != "model-loader" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestModelLoaderService_Serve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		errs      []error
		wantCalls int32
		wantReady bool
	}{
		{name: "first attempt succeeds", wantCalls: 1, wantReady: true},
		{name: "transient failures are retried", errs: []error{errStorageDown, errStorageDown}, wantCalls: 3, wantReady: true},
		{name: "missing blob is retried", errs: []error{fmt.Errorf("catalog: %w", storage.ErrBlobNotFound)}, wantCalls: 2, wantReady: true},
		{name: "checksum mismatch stops", errs: []error{fmt.Errorf("catalog: %w", storage.ErrChecksumMismatch)}, wantCalls: 1},
		{name: "dimension mismatch stops", errs: []error{model.ErrDimensionMismatch}, wantCalls: 1},
		{name: "empty catalog stops", errs: []error{model.ErrEmptyCatalog}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			provider := model.NewProvider()
			svc := NewModelLoaderService(provider, scriptedLoad(testBundle(t), &calls, tt.errs...), fastConfig(), zerolog.Nop())

			err := serveWithTimeout(t, svc, 2*time.Second)
			if !errors.Is(err, suture.ErrDoNotRestart) {
				t.Fatalf("Serve returned %v, want ErrDoNotRestart", err)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("load calls = %d, want %d", got, tt.wantCalls)
			}
			if provider.Ready() != tt.wantReady {
				t.Errorf("provider ready = %v, want %v", provider.Ready(), tt.wantReady)
			}
		})
	}
}

func TestModelLoaderService_AlreadyLoaded(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	provider := model.NewProviderWithBundle(testBundle(t))
	svc := NewModelLoaderService(provider, scriptedLoad(nil, &calls), fastConfig(), zerolog.Nop())

	if err := serveWithTimeout(t, svc, time.Second); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("Serve returned %v, want ErrDoNotRestart", err)
	}
	if calls.Load() != 0 {
		t.Errorf("load called %d times for a loaded provider", calls.Load())
	}
}

func TestModelLoaderService_StopsOnCancel(t *testing.T) {
	t.Parallel()

	load := func(context.Context) (*model.Bundle, error) { return nil, errStorageDown }
	provider := model.NewProvider()
	svc := NewModelLoaderService(provider, load, fastConfig(), zerolog.Nop())

	err := serveWithTimeout(t, svc, 50*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve returned %v, want context.DeadlineExceeded", err)
	}
	if provider.Ready() {
		t.Error("provider ready after failing loads")
	}
}

func TestModelLoaderService_BreakerStopsCalls(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	load := func(context.Context) (*model.Bundle, error) {
		calls.Add(1)
		return nil, errStorageDown
	}

	cfg := fastConfig()
	cfg.BreakerFailures = 2
	svc := NewModelLoaderService(model.NewProvider(), load, cfg, zerolog.Nop())

	_ = serveWithTimeout(t, svc, 100*time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("load calls = %d, want 2 before the breaker opened", got)
	}
}

func TestIsPermanentLoadError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{model.ErrDimensionMismatch, true},
		{fmt.Errorf("wrap: %w", model.ErrEmptyCatalog), true},
		{fmt.Errorf("wrap: %w", storage.ErrChecksumMismatch), true},
		{storage.ErrBlobNotFound, false},
		{errStorageDown, false},
		{context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		if got := IsPermanentLoadError(tt.err); got != tt.want {
			t.Errorf("IsPermanentLoadError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
