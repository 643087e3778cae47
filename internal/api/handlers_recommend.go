// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/carmatch/internal/models"
	"github.com/tomtom215/carmatch/internal/recommend"
)

// Recommend handles POST /api/v1/recommendations.
//
// Body: {"sessionId": "...", "userFilter": {...}, "limit": 10}
// Returns the top listings for the session with scores and descriptions.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.RecommendRequest{
		SessionID: req.SessionID,
		Filter:    *req.UserFilter,
		Limit:     req.limit(),
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.NewSuccessResponse(resp, start))
}

// Feedback handles POST /api/v1/feedback.
//
// Body: {"sessionId": "...", "listingId": 42, "feedback": "like"}
// listingId may be a number or a numeric string.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req FeedbackRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	// An unparsable id is passed as 0 and rejected by the engine.
	listingID, _ := recommend.ParseListingID(req.ListingID)

	resp, err := h.engine.Feedback(r.Context(), recommend.FeedbackRequest{
		SessionID: req.SessionID,
		ListingID: listingID,
		Feedback:  req.Feedback,
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.NewSuccessResponse(resp, start))
}

// SessionProfile handles GET /api/v1/sessions/{sessionID}/profile.
func (h *Handler) SessionProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := SessionPathParams{SessionID: chi.URLParam(r, "sessionID")}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	summary, err := h.engine.Profile(r.Context(), params.SessionID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.NewSuccessResponse(summary, start))
}

// ResetSession handles DELETE /api/v1/sessions/{sessionID}.
// It drops the profile and cached descriptions; unknown sessions succeed.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	params := SessionPathParams{SessionID: chi.URLParam(r, "sessionID")}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	if err := h.engine.ResetProfile(r.Context(), params.SessionID); err != nil {
		respondEngineError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AnalyzeNotes handles POST /api/v1/notes/analyze.
//
// Body: {"notes": "need a third row and good mpg"}
// Returns the inferred constraints and their human-readable summary.
func (h *Handler) AnalyzeNotes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req NotesRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	constraints := h.engine.Extractor().Extract(req.Notes)
	respondJSON(w, http.StatusOK, models.NewSuccessResponse(NotesAnalysis{
		Constraints: constraints,
		Description: recommend.Describe(constraints),
	}, start))
}

// Stats handles GET /api/v1/stats.
// Reports engine counters, catalog size and per-route latency.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	respondJSON(w, http.StatusOK, models.NewSuccessResponse(ServiceStats{
		Engine:        h.engine.Stats(),
		CatalogSize:   h.catalog.Len(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Endpoints:     h.perfMon.GetStats(),
	}, start))
}
