// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/carmatch/internal/middleware"
	"github.com/tomtom215/carmatch/internal/recommend"
)

// recentRequestWindow is how many requests the performance monitor keeps.
const recentRequestWindow = 1000

// Recommender is the engine surface used by the handlers.
// Implemented by *recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.RecommendRequest) (*recommend.RecommendResponse, error)
	Feedback(ctx context.Context, req recommend.FeedbackRequest) (*recommend.FeedbackResponse, error)
	Profile(ctx context.Context, sessionID string) (recommend.ProfileSummary, error)
	ResetProfile(ctx context.Context, sessionID string) error
	Stats() recommend.Stats
	Extractor() *recommend.Extractor
}

// CatalogStatus reports how many listings are loaded.
// Implemented by *catalog.Catalog.
type CatalogStatus interface {
	Len() int
}

// Handler serves the HTTP API.
type Handler struct {
	engine    Recommender
	catalog   CatalogStatus
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates the API handler.
//
// The handler owns a performance monitor tracking the last 1000 requests,
// which the router installs as middleware and the stats endpoint reports.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Recommender, catalog CatalogStatus, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		catalog:   catalog,
		perfMon:   middleware.NewPerformanceMonitor(recentRequestWindow, middleware.DefaultSlowRequestThreshold),
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// PerformanceMonitor returns the handler's request monitor.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
