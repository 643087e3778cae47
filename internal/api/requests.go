// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package api

import (
	"math"

	"github.com/tomtom215/carmatch/internal/middleware"
	"github.com/tomtom215/carmatch/internal/recommend"
)

// RecommendRequest is the body of POST /api/v1/recommendations.
//
// Limit accepts a number or numeric string. Missing or unparsable values use
// the configured default. Explicit values are clamped into [1, max], so an
// explicit 0 returns one result.
type RecommendRequest struct {
	SessionID  string               `json:"sessionId" validate:"required,sessionid"`
	UserFilter *recommend.RawFilter `json:"userFilter" validate:"required"`
	Limit      any                  `json:"limit,omitempty"`
}

// limit converts Limit to an int, returning 0 (the default) when absent.
func (r *RecommendRequest) limit() int {
	n := recommend.ToNumber(r.Limit)
	if n == nil {
		return 0
	}
	// The engine reads 0 as "use the default", so explicit values start at 1.
	return int(math.Max(math.Min(math.Trunc(*n), math.MaxInt32), 1))
}

// FeedbackRequest is the body of POST /api/v1/feedback.
//
// ListingID and Feedback are checked by the engine so that rejected input is
// counted in its statistics.
type FeedbackRequest struct {
	SessionID string `json:"sessionId" validate:"required,sessionid"`
	ListingID any    `json:"listingId"`
	Feedback  string `json:"feedback"`
}

// NotesRequest is the body of POST /api/v1/notes/analyze.
type NotesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// SessionPathParams holds the {sessionID} URL parameter.
type SessionPathParams struct {
	SessionID string `json:"sessionID" validate:"required,sessionid"`
}

// NotesAnalysis is the response data of POST /api/v1/notes/analyze.
type NotesAnalysis struct {
	Constraints recommend.NoteConstraints `json:"constraints"`
	Description string                    `json:"description"`
}

// ServiceStats is the response data of GET /api/v1/stats.
type ServiceStats struct {
	Engine        recommend.Stats            `json:"engine"`
	CatalogSize   int                        `json:"catalog_size"`
	UptimeSeconds float64                    `json:"uptime_seconds"`
	Endpoints     []middleware.EndpointStats `json:"endpoints"`
}
