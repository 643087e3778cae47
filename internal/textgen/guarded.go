// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package textgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/carmatch/internal/metrics"
	"github.com/tomtom215/carmatch/internal/recommend"
)

// GuardConfig configures rate limiting and circuit breaking around a generator.
type GuardConfig struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// RatePerSecond and Burst bound outbound calls. A zero rate disables limiting.
	RatePerSecond float64
	Burst         int

	// ConsecutiveFailures opens the circuit after this many failures in a row.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the circuit stays open before a half-open probe.
	OpenTimeout time.Duration
}

// DefaultGuardConfig returns the production guard settings.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Name:                "textgen",
		RatePerSecond:       2,
		Burst:               4,
		ConsecutiveFailures: 5,
		OpenTimeout:         time.Minute,
	}
}

// Guarded wraps a generator with a token bucket limiter and a circuit breaker.
// While the circuit is open calls fail fast and the decorator serves template text.
type Guarded struct {
	next    recommend.TextGenerator
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[string]
	name    string
	logger  zerolog.Logger
}

// NewGuarded wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGuarded(next recommend.TextGenerator, cfg GuardConfig, logger zerolog.Logger) *Guarded {
	defaults := DefaultGuardConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = defaults.ConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	g := &Guarded{
		next:    next,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		name:    cfg.Name,
		logger:  logger.With().Str("component", "textgen").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	threshold := cfg.ConsecutiveFailures
	g.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= threshold {
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		// A caller giving up is not a fault of the upstream API.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			g.logger.Warn().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return g
}

// Generate implements recommend.TextGenerator.
func (g *Guarded) Generate(ctx context.Context, prompt string) (string, error) {
	waitStart := time.Now()
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("text generation rate limit: %w", err)
	}
	metrics.TextGenRateLimitWait.Observe(time.Since(waitStart).Seconds())

	text, err := g.cb.Execute(func() (string, error) {
		start := time.Now()
		out, genErr := g.next.Generate(ctx, prompt)
		metrics.RecordTextGeneration(time.Since(start), genErr)
		return out, genErr
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(g.cb.Counts().ConsecutiveFailures))
		}
		return "", err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)
	return text, nil
}

// State reports the breaker state for health output.
func (g *Guarded) State() string {
	return stateToString(g.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var (
	_ recommend.TextGenerator = (*Client)(nil)
	_ recommend.TextGenerator = (*Guarded)(nil)
)
