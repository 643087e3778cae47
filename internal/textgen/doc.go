// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package textgen generates listing highlight text through a hosted
generateContent API.

Client sends one user turn per prompt and returns the joined text of the
first candidate. Guarded wraps any generator with:

  - a golang.org/x/time/rate token bucket, waited on per call
  - a sony/gobreaker circuit breaker that fails fast after repeated errors

Breaker transitions are logged and exported through internal/metrics. Callers
treat every error as a signal to fall back to template text, so nothing in
this package retries.

	client, err := textgen.NewClient(textgen.ClientConfig{APIKey: key})
	if err != nil {
		return err
	}
	engine.SetTextGenerator(textgen.NewGuarded(client, textgen.DefaultGuardConfig(), logger))
*/
package textgen
