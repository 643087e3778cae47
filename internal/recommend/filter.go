// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"regexp"
	"strconv"
)

// awdDrivetrainTerms identify an all-wheel or four-wheel drivetrain label.
var awdDrivetrainTerms = []string{"awd", "4wd", "4x4", "all-wheel", "all wheel", "four-wheel", "four wheel"}

// fuelAliases maps a preferred fuel to the catalog fuel labels that satisfy it.
var fuelAliases = map[string][]string{
	"hybrid":   {"hybrid"},
	"electric": {"electric", "ev"},
	"gas":      {"gas", "fuel", "petrol", "diesel"},
}

var mpgNumberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// HardFilter returns the listings that satisfy every explicit bound in f and
// every note-derived constraint. The result may be empty; callers decide
// whether to fall back to the full catalog. Nil arguments mean no constraint.
func HardFilter(listings []Listing, f *UserFilter, notes *NoteConstraints) []Listing {
	if f == nil {
		f = &UserFilter{}
	}
	if notes == nil {
		notes = &NoteConstraints{}
	}

	p := newFilterPlan(f)
	out := make([]Listing, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		if p.matches(l) && matchesNotes(l, notes) {
			out = append(out, *l)
		}
	}
	return out
}

// filterPlan is a UserFilter resolved into the bounds HardFilter checks.
type filterPlan struct {
	minPrice, maxPrice     *float64
	yearMin, yearMax       *float64
	mileageMin, mileageMax *float64
	seatingMin, doorsMin   *float64
	categories             []string
	conditions             []string
}

func newFilterPlan(f *UserFilter) filterPlan {
	p := filterPlan{
		minPrice:   firstSet(f.PriceMin, f.BudgetMin),
		maxPrice:   maxBudget(f),
		yearMin:    f.YearMin,
		yearMax:    f.YearMax,
		mileageMin: f.MileageMin,
		mileageMax: f.MileageMax,
		seatingMin: f.Seating,
		doorsMin:   f.Doors,
	}
	for _, c := range f.Categories {
		if n := normalizeCategory(c); n != "" {
			p.categories = append(p.categories, n)
		}
	}
	for _, c := range f.Conditions {
		if n := normalizeKey(c); n != "" {
			p.conditions = append(p.conditions, n)
		}
	}
	return p
}

func (p *filterPlan) matches(l *Listing) bool {
	if p.minPrice != nil && l.Price < *p.minPrice {
		return false
	}
	if p.maxPrice != nil && l.Price > *p.maxPrice {
		return false
	}
	if l.Year != 0 {
		if p.yearMin != nil && float64(l.Year) < *p.yearMin {
			return false
		}
		if p.yearMax != nil && float64(l.Year) > *p.yearMax {
			return false
		}
	}
	if l.Mileage != nil {
		if p.mileageMin != nil && float64(*l.Mileage) < *p.mileageMin {
			return false
		}
		if p.mileageMax != nil && float64(*l.Mileage) > *p.mileageMax {
			return false
		}
	}
	if p.seatingMin != nil && !seatingSatisfies(l.Seating, *p.seatingMin) {
		return false
	}
	if p.doorsMin != nil && l.Doors != nil && float64(*l.Doors) < *p.doorsMin {
		return false
	}
	if len(p.categories) > 0 && !containsAnyKey(normalizeCategory(l.CategoryLabel()), p.categories) {
		return false
	}
	if len(p.conditions) > 0 {
		cond := normalizeKey(l.Condition)
		usedLabel := "new"
		if l.Used {
			usedLabel = "used"
		}
		if !containsAnyKey(cond, p.conditions) && !containsAnyKey(usedLabel, p.conditions) {
			return false
		}
	}
	return true
}

func matchesNotes(l *Listing, n *NoteConstraints) bool {
	if n.MinMPG != nil {
		if best, ok := bestMPG(l.MPG); ok && best < *n.MinMPG {
			return false
		}
	}
	if n.RequireAWD {
		dt := normalizeKey(l.Drivetrain)
		if dt == "" || !containsAnyKey(dt, awdDrivetrainTerms) {
			return false
		}
	}
	if n.MinSeating != nil && !seatingSatisfies(l.Seating, float64(*n.MinSeating)) {
		return false
	}
	if n.MaxMileage != nil && l.Mileage != nil && float64(*l.Mileage) > *n.MaxMileage {
		return false
	}
	if len(n.PreferredCategories) > 0 {
		cat := normalizeCategory(l.CategoryLabel())
		if cat == "" || !containsAnyKey(cat, n.PreferredCategories) {
			return false
		}
	}
	if n.PreferredFuel != "" {
		fuel := normalizeKey(l.FuelType)
		aliases, ok := fuelAliases[n.PreferredFuel]
		if !ok {
			aliases = []string{n.PreferredFuel}
		}
		if fuel == "" || !containsAnyKey(fuel, aliases) {
			return false
		}
	}
	return true
}

// seatingSatisfies applies one seat of slack: a listing passes when
// seating+1 >= minimum. Unknown seating passes.
func seatingSatisfies(seating *int, minimum float64) bool {
	if seating == nil {
		return true
	}
	return float64(*seating)+1 >= minimum
}

// bestMPG returns the largest number in an MPG label such as "41 city / 38 hwy".
func bestMPG(label string) (float64, bool) {
	found := false
	best := 0.0
	for _, m := range mpgNumberPattern.FindAllString(label, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// maxBudget resolves the price ceiling: budget_max, then price_max, then
// 120% of the budget. Non-positive values do not constrain.
func maxBudget(f *UserFilter) *float64 {
	if v := positive(f.BudgetMax); v != nil {
		return v
	}
	if v := positive(f.PriceMax); v != nil {
		return v
	}
	if v := positive(f.Budget); v != nil {
		return ptr(*v * 1.2)
	}
	return nil
}

func firstSet(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
