// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package services adapts hybridrec components to the suture.Service interface.

# Services

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine and
context cancellation triggers Shutdown with a bounded timeout.

ModelLoaderService publishes the model bundle into a model.Provider:

  - attempts are paced by a rate.Limiter at RetryInterval
  - a gobreaker circuit breaker stops hammering storage after repeated failures
  - checksum and shape errors end the service, as do successful loads
  - every attempt is recorded in the model_load_* Prometheus metrics

Both services return suture.ErrDoNotRestart or ctx.Err() when they are done,
so the supervisor never restarts a completed load.
*/
package services
