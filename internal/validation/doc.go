// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package validation provides struct validation for API requests using
// go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use.
//
//	type recommendRequest struct {
//	    UserID  *int  `json:"user_id" validate:"required,gte=0"`
//	    History []int `json:"history" validate:"max=10000,dive,gte=0"`
//	    N       int   `json:"n" validate:"gte=1,lte=100"`
//	}
//
// Failures are reported per field using the json (or query) tag name, and
// render into the API error envelope under the VALIDATION_FAILED code.
package validation
