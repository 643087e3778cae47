// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package validation wraps go-playground/validator v10 for API request bodies.

A single validator instance is created with WithRequiredStructEnabled and
reused; it caches struct metadata across requests. Field errors are reported
under their JSON names so that clients see "sessionId", not "SessionID".

Custom tags:

  - sessionid: non-blank, printable, at most 128 characters, no leading or
    trailing whitespace

Errors convert to the API's VALIDATION_ERROR shape with ToAPIError:

	type feedbackBody struct {
	    SessionID string `json:"sessionId" validate:"sessionid"`
	    Feedback  string `json:"feedback"  validate:"required,oneof=like reject"`
	}

	if verr := validation.ValidateStruct(&body); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
	}

Loosely typed fields such as listingId and the numeric filter values are not
validated here; they are coerced by the recommend package, which turns
malformed numbers into absent constraints.
*/
package validation
