// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package services

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/carmatch/internal/metrics"
	"github.com/tomtom215/carmatch/internal/recommend"
)

// DefaultStatsInterval is how often the reporter publishes when unset.
const DefaultStatsInterval = time.Minute

// StatsSource provides engine counters. Implemented by *recommend.Engine.
type StatsSource interface {
	Stats() recommend.Stats
}

// StatsReporterConfig holds configuration for the stats reporter.
type StatsReporterConfig struct {
	// Interval between reports.
	Interval time.Duration

	// Version is exported through the app_info gauge.
	Version string
}

// StatsReporter publishes process uptime and logs engine activity on a
// fixed interval.
type StatsReporter struct {
	source  StatsSource
	config  StatsReporterConfig
	logger  zerolog.Logger
	name    string
	started time.Time
	last    recommend.Stats
}

// NewStatsReporter creates a new stats reporter.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStatsReporter(source StatsSource, cfg StatsReporterConfig, logger zerolog.Logger) *StatsReporter {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultStatsInterval
	}
	return &StatsReporter{
		source:  source,
		config:  cfg,
		logger:  logger.With().Str("service", "stats-reporter").Logger(),
		name:    "stats-reporter",
		started: time.Now(),
	}
}

// Serve implements the suture.Service interface.
func (s *StatsReporter) Serve(ctx context.Context) error {
	metrics.AppInfo.WithLabelValues(s.config.Version, runtime.Version()).Set(1)
	s.report()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.report()
			return ctx.Err()
		case <-ticker.C:
			s.report()
		}
	}
}

// report updates the uptime gauge and logs activity since the previous report.
// Quiet intervals are logged at debug level.
func (s *StatsReporter) report() {
	metrics.AppUptime.Set(time.Since(s.started).Seconds())

	stats := s.source.Stats()
	recommendations := stats.Recommendations - s.last.Recommendations
	feedback := stats.FeedbackEvents - s.last.FeedbackEvents
	s.last = stats

	event := s.logger.Debug()
	if recommendations > 0 || feedback > 0 {
		event = s.logger.Info()
	}
	event.
		Int64("recommendations", recommendations).
		Int64("feedback_events", feedback).
		Int64("catalog_fallbacks_total", stats.CatalogFallbacks).
		Int64("validation_errors_total", stats.ValidationErrors).
		Msg("engine activity")
}

// String returns the service name for logging.
func (s *StatsReporter) String() string {
	return s.name
}
