// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"maps"
	"math"
	"sort"
	"time"
)

// AnonymousSession is used for requests without a session id.
const AnonymousSession = "anonymous"

// AttributeCounts tallies feedback per normalized attribute value.
type AttributeCounts struct {
	Model         map[string]int `json:"model"`
	Category      map[string]int `json:"category"`
	Drivetrain    map[string]int `json:"drivetrain"`
	FuelType      map[string]int `json:"fuel_type"`
	ExteriorColor map[string]int `json:"exterior_color"`
	InteriorColor map[string]int `json:"interior_color"`
	Doors         map[int]int    `json:"doors"`
	Seating       map[int]int    `json:"seating"`
}

func newAttributeCounts() AttributeCounts {
	return AttributeCounts{
		Model:         map[string]int{},
		Category:      map[string]int{},
		Drivetrain:    map[string]int{},
		FuelType:      map[string]int{},
		ExteriorColor: map[string]int{},
		InteriorColor: map[string]int{},
		Doors:         map[int]int{},
		Seating:       map[int]int{},
	}
}

func (c *AttributeCounts) add(l *Listing) {
	bumpKey(&c.Model, l.Model)
	bumpKey(&c.Category, l.CategoryLabel())
	bumpKey(&c.Drivetrain, l.Drivetrain)
	bumpKey(&c.FuelType, l.FuelType)
	bumpKey(&c.ExteriorColor, l.ExteriorColor)
	bumpKey(&c.InteriorColor, l.InteriorColor)
	bumpNumber(&c.Doors, l.Doors)
	bumpNumber(&c.Seating, l.Seating)
}

func (c *AttributeCounts) clone() AttributeCounts {
	return AttributeCounts{
		Model:         maps.Clone(c.Model),
		Category:      maps.Clone(c.Category),
		Drivetrain:    maps.Clone(c.Drivetrain),
		FuelType:      maps.Clone(c.FuelType),
		ExteriorColor: maps.Clone(c.ExteriorColor),
		InteriorColor: maps.Clone(c.InteriorColor),
		Doors:         maps.Clone(c.Doors),
		Seating:       maps.Clone(c.Seating),
	}
}

func bumpKey(counter *map[string]int, value string) {
	key := normalizeKey(value)
	if key == "" {
		return
	}
	if *counter == nil {
		*counter = map[string]int{}
	}
	(*counter)[key]++
}

func bumpNumber(counter *map[int]int, value *int) {
	if value == nil {
		return
	}
	if *counter == nil {
		*counter = map[int]int{}
	}
	(*counter)[*value]++
}

// UserProfile is the learned taste of one session.
// Counters only grow; there is no decay.
type UserProfile struct {
	SessionID string `json:"session_id"`

	Liked    AttributeCounts `json:"liked"`
	Rejected AttributeCounts `json:"rejected"`

	TotalLikes   int `json:"total_likes"`
	TotalRejects int `json:"total_rejects"`

	// Welford accumulators over liked listing prices.
	BudgetMean        float64 `json:"budget_mean"`
	BudgetM2          float64 `json:"budget_m2"`
	BudgetSampleCount int     `json:"budget_sample_count"`

	LastUpdated time.Time `json:"last_updated"`
}

// NewUserProfile returns an empty profile for sessionID.
func NewUserProfile(sessionID string, now time.Time) *UserProfile {
	return &UserProfile{
		SessionID:   sessionID,
		Liked:       newAttributeCounts(),
		Rejected:    newAttributeCounts(),
		LastUpdated: now,
	}
}

// BudgetStdDev returns the sample standard deviation of liked prices.
// ok is false with fewer than two samples: the profile has no spread opinion yet.
func (p *UserProfile) BudgetStdDev() (stddev float64, ok bool) {
	if p.BudgetSampleCount <= 1 {
		return 0, false
	}
	return math.Sqrt(math.Max(p.BudgetM2/float64(p.BudgetSampleCount-1), 0)), true
}

// HasBudget reports whether at least one liked price has been recorded.
func (p *UserProfile) HasBudget() bool {
	return p.BudgetSampleCount > 0
}

// Clone returns a deep copy.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Liked = p.Liked.clone()
	cp.Rejected = p.Rejected.clone()
	return &cp
}

// Totals returns the cumulative feedback counts.
func (p *UserProfile) Totals() FeedbackTotals {
	return FeedbackTotals{Likes: p.TotalLikes, Rejects: p.TotalRejects}
}

// ApplyFeedback records one reaction to listing on profile.
// A like also folds the listing price into the running budget statistics.
func ApplyFeedback(profile *UserProfile, listing *Listing, fb Feedback, now time.Time) {
	switch fb {
	case FeedbackLike:
		profile.Liked.add(listing)
		profile.TotalLikes++
		profile.addBudgetSample(listing.Price)
	case FeedbackReject:
		profile.Rejected.add(listing)
		profile.TotalRejects++
	default:
		return
	}
	profile.LastUpdated = now
}

// addBudgetSample is one step of Welford's online algorithm.
func (p *UserProfile) addBudgetSample(price float64) {
	p.BudgetSampleCount++
	delta := price - p.BudgetMean
	p.BudgetMean += delta / float64(p.BudgetSampleCount)
	p.BudgetM2 += delta * (price - p.BudgetMean)
}

// ProfileSummary is a compact view of a profile for prompts and the API.
type ProfileSummary struct {
	SessionID     string    `json:"sessionId"`
	Likes         int       `json:"likes"`
	Rejects       int       `json:"rejects"`
	BudgetMean    *float64  `json:"budgetMean"`
	BudgetStdDev  *float64  `json:"budgetStdDev"`
	TopModels     []string  `json:"topModels"`
	TopCategories []string  `json:"topCategories"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Summary condenses the profile. Budget fields are nil when undefined.
func (p *UserProfile) Summary() ProfileSummary {
	s := ProfileSummary{
		SessionID:     p.SessionID,
		Likes:         p.TotalLikes,
		Rejects:       p.TotalRejects,
		TopModels:     topKeys(p.Liked.Model, 3),
		TopCategories: topKeys(p.Liked.Category, 3),
		LastUpdated:   p.LastUpdated,
	}
	if p.HasBudget() {
		s.BudgetMean = ptr(p.BudgetMean)
	}
	if sd, ok := p.BudgetStdDev(); ok {
		s.BudgetStdDev = &sd
	}
	return s
}

// topKeys returns up to limit keys by descending count, ties by key.
func topKeys(counter map[string]int, limit int) []string {
	keys := make([]string, 0, len(counter))
	for k := range counter {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counter[keys[i]] != counter[keys[j]] {
			return counter[keys[i]] > counter[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
