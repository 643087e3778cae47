// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/carmatch/internal/models"
	"github.com/tomtom215/carmatch/internal/recommend"
)

// Error codes returned in the envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeListingNotFound    = "LISTING_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// classifyError maps an engine error onto a status code and API error.
// Unclassified errors become INTERNAL_ERROR with a generic message.
func classifyError(err error) (int, *models.APIError) {
	var ve *recommend.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, &models.APIError{
			Code:    CodeValidation,
			Message: ve.Message,
			Details: map[string]interface{}{"field": ve.Field},
		}
	case errors.Is(err, recommend.ErrValidation):
		return http.StatusBadRequest, &models.APIError{Code: CodeValidation, Message: err.Error()}
	case errors.Is(err, recommend.ErrListingNotFound):
		return http.StatusNotFound, &models.APIError{Code: CodeListingNotFound, Message: "Listing not found"}
	case errors.Is(err, recommend.ErrProfileNotFound):
		return http.StatusNotFound, &models.APIError{Code: CodeNotFound, Message: "No profile for this session"}
	default:
		return http.StatusInternalServerError, &models.APIError{Code: CodeInternal, Message: "Internal server error"}
	}
}
