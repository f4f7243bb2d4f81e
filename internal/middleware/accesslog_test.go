// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/logging"
)

func TestAccessLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "error"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "warn"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLevel: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := RequestID(AccessLog(logging.NewTestLogger(&buf))(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("body")) //nolint:errcheck // test handler
				}),
			))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", http.NoBody)
			req.Header.Set(RequestIDHeader, "req-42")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var line map[string]any
			if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
				t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
			}
			if line["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", line["level"], tt.wantLevel)
			}
			if line["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", line["status"], tt.status)
			}
			if line["request_id"] != "req-42" {
				t.Errorf("request_id = %v, want req-42", line["request_id"])
			}
			if line["bytes"] != float64(4) || line["path"] != "/api/v1/recommendations" {
				t.Errorf("bytes/path = %v/%v", line["bytes"], line["path"])
			}
		})
	}
}
