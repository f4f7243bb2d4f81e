// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package api exposes the recommendation engine over HTTP with a chi router.

# Endpoints

	POST /api/v1/recommendations            {"user_id":1,"history":[3,8],"n_recommendations":5}
	GET  /api/v1/recommendations/{userID}   ?history=3,8&n=5&exclude_seen=true
	GET  /api/v1/recommendations/stats
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /metrics

# Response Envelope

Every JSON response is wrapped in APIResponse:

	{"success":true,"data":{...},"meta":{"request_id":"...","timestamp":"...","duration_ms":3}}
	{"success":false,"error":{"code":"VALIDATION_FAILED","message":"..."},"meta":{...}}

Engine results with status success, cold_start or fallback are returned with
200; the status field inside data tells them apart. An invalid_input error
maps to 400 VALIDATION_FAILED and any other engine error to 500
INTERNAL_ERROR.

# Middleware

Request ids, access logging, panic recovery, CORS (go-chi/cors) and
Prometheus instrumentation apply globally. The recommendation routes are
rate limited per client IP with go-chi/httprate.
*/
package api
