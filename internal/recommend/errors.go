// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import "errors"

// Per-request failure conditions. Engine.Recommend never returns these
// directly; each one maps onto a Result status.
var (
	// ErrModelUnavailable means no model bundle has been loaded yet.
	// Surfaced as StatusFallback.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidInput means the request was rejected before scoring.
	// Surfaced as StatusError with ReasonInvalidInput.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateProfile means no usable user vector could be built
	// (every history id out of range, or a zero-norm mean). The content
	// score is treated as empty.
	ErrDegenerateProfile = errors.New("degenerate user profile")

	// ErrEmptyCandidateSet means both scorers returned nothing.
	// Surfaced as StatusColdStart.
	ErrEmptyCandidateSet = errors.New("empty candidate set")
)
