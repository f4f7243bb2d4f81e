// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// fakeEngine records requests and answers with a canned result.
type fakeEngine struct {
	mu       sync.Mutex
	requests []recommend.Request
	result   func(recommend.Request) recommend.Result
	ready    bool
	stats    recommend.Stats
}

func (f *fakeEngine) Recommend(_ context.Context, req recommend.Request) recommend.Result {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.result != nil {
		return f.result(req)
	}
	return recommend.Result{
		Status: recommend.StatusSuccess,
		UserID: req.UserID,
		Recommendations: []recommend.Entry{
			{Rank: 1, ItemID: 42, Score: 0.9, Source: recommend.SourceHybrid},
		},
	}
}

func (f *fakeEngine) Stats() recommend.Stats { return f.stats }

func (f *fakeEngine) Ready() bool { return f.ready }

func (f *fakeEngine) lastRequest(t *testing.T) recommend.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("engine was not called")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeEngine) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// envelope is the decoded APIResponse with raw data.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}
