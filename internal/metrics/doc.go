// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by promhttp.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Recommendation volume, latency and hard-filter fallbacks
  - Feedback events by kind
  - Description sources (cache, generated, fallback template)
  - Catalog size and reload outcomes
  - Text generation latency, rate limiter waits and circuit breaker state

# Engine Integration

EngineObserver implements recommend.Observer and is installed with
Engine.SetObserver:

	engine.SetObserver(metrics.EngineObserver{})

# Example Queries

	# Share of requests where the hard filter matched nothing
	sum(rate(recommendations_total{fallback="true"}[5m]))
	  / sum(rate(recommendations_total[5m]))

	# Description cache hit ratio
	rate(cache_hits_total{cache_type="description"}[5m])
	  / (rate(cache_hits_total{cache_type="description"}[5m])
	     + rate(cache_misses_total{cache_type="description"}[5m]))

	# p95 recommendation latency
	histogram_quantile(0.95, rate(recommendation_duration_seconds_bucket[5m]))

# Alerting

	- alert: TextGenCircuitOpen
	  expr: circuit_breaker_state{name="textgen"} == 2
	  for: 5m
	  annotations:
	    summary: "Generated descriptions disabled, serving template text"

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/textgen: circuit breaker and rate limiter metrics
  - internal/catalog: reload hook feeding the catalog gauges
*/
package metrics
