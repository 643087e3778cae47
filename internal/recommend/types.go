// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"context"
	"time"
)

// Listing is a single vehicle offered by a dealer.
// Listings are immutable once loaded; the engine only annotates copies.
// JSON keys follow the source dataset.
type Listing struct {
	// ID is the catalog-assigned identifier (1-based).
	ID int `json:"Id"`

	// Model is the full model name, e.g. "RAV4 XLE Hybrid".
	Model string `json:"Model"`

	// Price is the asking price in dollars.
	Price float64 `json:"Price"`

	// Used is false only for new vehicles.
	Used bool `json:"Used"`

	// Location is a display label for the selling dealer.
	Location string `json:"Location,omitempty"`

	// FuelType is the fuel category (Hybrid, EV, Fuel, Other).
	FuelType string `json:"Fuel Type,omitempty"`

	// Condition is a quality label such as Excellent, Good or Fair.
	Condition string `json:"Condition,omitempty"`

	// Year is the model year; zero when unknown.
	Year int `json:"Year"`

	// Type is a coarse body type used when VehicleCategory is empty.
	Type string `json:"Type,omitempty"`

	// VehicleCategory is the catalog category (Cars, SUVs, Trucks, Minivan, Crossovers).
	VehicleCategory string `json:"VehicleCategory,omitempty"`

	Mileage       *int     `json:"Mileage,omitempty"`
	Engine        string   `json:"Engine,omitempty"`
	Transmission  string   `json:"Transmission,omitempty"`
	Drivetrain    string   `json:"Drivetrain,omitempty"`
	MPG           string   `json:"MPG,omitempty"`
	ExteriorColor string   `json:"ExteriorColor,omitempty"`
	InteriorColor string   `json:"InteriorColor,omitempty"`
	Seating       *int     `json:"Seating,omitempty"`
	Doors         *int     `json:"Doors,omitempty"`
	Dealer        string   `json:"Dealer,omitempty"`
	DealerCity    string   `json:"DealerCity,omitempty"`
	DealerState   string   `json:"DealerState,omitempty"`
	DealerZip     string   `json:"DealerZip,omitempty"`
	DistanceMiles *float64 `json:"DistanceMiles,omitempty"`
}

// CategoryLabel returns the vehicle category, falling back to the body type.
func (l *Listing) CategoryLabel() string {
	if l.VehicleCategory != "" {
		return l.VehicleCategory
	}
	return l.Type
}

// ScoredResult is a listing annotated for a single recommendation response.
type ScoredResult struct {
	Listing

	// Score is the blended relevance score in [0, 1].
	Score float64 `json:"score"`

	// GeneratedDescription explains why the listing fits.
	GeneratedDescription string `json:"generated_description"`
}

// Feedback is a user's reaction to a listing.
type Feedback string

const (
	// FeedbackLike records a positive reaction.
	FeedbackLike Feedback = "like"
	// FeedbackReject records a negative reaction.
	FeedbackReject Feedback = "reject"
)

// ParseFeedback validates a raw feedback value.
func ParseFeedback(s string) (Feedback, error) {
	switch Feedback(s) {
	case FeedbackLike, FeedbackReject:
		return Feedback(s), nil
	default:
		return "", newValidationError("feedback", `feedback must be "like" or "reject"`)
	}
}

// RecommendRequest is the input to Engine.Recommend.
type RecommendRequest struct {
	// SessionID identifies the profile to score against.
	SessionID string

	// Filter is the unsanitized user filter.
	Filter RawFilter

	// Limit is the requested number of results; zero means the default.
	Limit int
}

// RecommendResponse is the output of Engine.Recommend.
type RecommendResponse struct {
	SessionID string         `json:"sessionId"`
	Results   []ScoredResult `json:"results"`
}

// FeedbackRequest is the input to Engine.Feedback.
type FeedbackRequest struct {
	SessionID string
	ListingID int
	Feedback  string
}

// FeedbackTotals are the cumulative reaction counts for a session.
type FeedbackTotals struct {
	Likes   int `json:"likes"`
	Rejects int `json:"rejects"`
}

// FeedbackResponse is the output of Engine.Feedback.
type FeedbackResponse struct {
	Success   bool           `json:"success"`
	SessionID string         `json:"sessionId"`
	Totals    FeedbackTotals `json:"totals"`
}

// Catalog provides read access to the current listing snapshot.
// Implemented by the catalog package.
type Catalog interface {
	// Listings returns the current snapshot. Callers must not mutate it.
	Listings() []Listing

	// Lookup returns the listing with the given id.
	Lookup(id int) (Listing, bool)
}

// Reranker reorders score-sorted candidates after scoring.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank returns at most k results drawn from the sorted input.
	Rerank(ctx context.Context, results []ScoredResult, k int) []ScoredResult
}

// Stats is a point-in-time view of engine activity.
type Stats struct {
	Recommendations   int64     `json:"recommendations"`
	FeedbackEvents    int64     `json:"feedback_events"`
	CatalogFallbacks  int64     `json:"catalog_fallbacks"`
	ValidationErrors  int64     `json:"validation_errors"`
	LastRecommendedAt time.Time `json:"last_recommended_at"`
}
