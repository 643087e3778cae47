// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package api provides the HTTP interface of the recommendation service using
the Chi router.

Endpoints (all JSON, all wrapped in models.APIResponse):

	POST   /api/v1/recommendations           rank listings for a session
	POST   /api/v1/feedback                  record a like or reject
	GET    /api/v1/sessions/{sessionID}/profile
	DELETE /api/v1/sessions/{sessionID}      reset profile and cached descriptions
	POST   /api/v1/notes/analyze             preview constraints inferred from notes
	GET    /api/v1/stats                     engine counters and route latency
	GET    /api/v1/health/live
	GET    /api/v1/health/ready              503 until the catalog is loaded
	GET    /metrics                          Prometheus exposition

Error Mapping:

Engine errors are classified with errors.Is/errors.As:

  - recommend.ErrValidation: 400 VALIDATION_ERROR
  - recommend.ErrListingNotFound: 404 LISTING_NOT_FOUND
  - recommend.ErrProfileNotFound: 404 NOT_FOUND
  - anything else: 500 INTERNAL_ERROR (logged with request id)

Request bodies are decoded with goccy/go-json and checked with the shared
validator before they reach the engine.

Middleware:

Request ids, Prometheus metrics and the performance monitor come from
internal/middleware. CORS (go-chi/cors), rate limiting (go-chi/httprate),
panic recovery and gzip compression (chi middleware) are configured here.
*/
package api
