// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package logging provides the zerolog-based structured logging used across
// hybridrec.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Error().Err(err).Msg("Model load failed")
//
// Components receive a zerolog.Logger and derive their own child:
//
//	logger := logging.WithComponent("recommend")
//
// # Request Context
//
// The HTTP middleware stores a request id and a short correlation id in the
// request context. Ctx attaches both to every message:
//
//	logging.Ctx(ctx).Info().Int("user_id", id).Msg("Recommendation served")
//
// # slog Bridge
//
// SlogHandler adapts zerolog to log/slog so the supervisor's sutureslog
// event hook writes to the same stream.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
