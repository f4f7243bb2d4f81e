// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/logging"
)

// AccessLog writes one structured line per request. Server errors log at
// error level, client errors at warn, everything else at debug.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			l := logging.Ctx(ctx)
			var event *zerolog.Event
			switch {
			case status >= http.StatusInternalServerError:
				event = l.Error()
			case status >= http.StatusBadRequest:
				event = l.Warn()
			default:
				event = l.Debug()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}
