// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package models defines the HTTP response envelope shared by the API and its
clients.

Domain types (listings, filters, profiles) live in internal/recommend; this
package only holds the wire wrapper:

  - APIResponse: {status, data, metadata, error}
  - Metadata: timestamp and query time
  - APIError: code, message and optional details

Usage:

	respondJSON(w, http.StatusOK, models.NewSuccessResponse(result, start))
*/
package models
