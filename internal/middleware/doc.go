// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package middleware provides chi-compatible HTTP middleware for the API.

Key Components:

  - RequestID: reuses or generates X-Request-ID, attaches request and
    correlation ids plus a request-scoped zerolog logger to the context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - PerformanceMonitor: sliding window of recent requests with per-route
    percentiles and slow request logging

Middleware Stack:

The router installs them in this order:

	r.Use(middleware.RequestID(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.Use(chiMiddleware.CORS())
	r.Use(chiMiddleware.RateLimit())

Route patterns are read after the handler returns, because chi fills the
route context while routing. Requests that match no route are labelled
"unmatched".

Response compression uses chi's Compress middleware directly.
*/
package middleware
