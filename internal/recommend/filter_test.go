// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"slices"
	"testing"
)

func TestHardFilter_EmptyFilterKeepsEverything(t *testing.T) {
	t.Parallel()

	listings := sampleListings()
	for _, l := range listings {
		got := HardFilter([]Listing{l}, &UserFilter{}, &NoteConstraints{})
		if len(got) != 1 || got[0].ID != l.ID {
			t.Errorf("HardFilter([%d], empty) = %v", l.ID, listingIDs(got))
		}
	}

	if got := HardFilter(listings, nil, nil); len(got) != len(listings) {
		t.Errorf("nil filter kept %d of %d listings", len(got), len(listings))
	}
}

func TestHardFilter_ExplicitBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter UserFilter
		want   []int
	}{
		{
			name:   "price window",
			filter: UserFilter{PriceMin: ptr(25000.0), PriceMax: ptr(40000.0)},
			want:   []int{1, 2, 4},
		},
		{
			name:   "budget_max wins over price_max",
			filter: UserFilter{BudgetMax: ptr(30000.0), PriceMax: ptr(60000.0)},
			want:   []int{2, 6},
		},
		{
			name:   "budget allows twenty percent headroom",
			filter: UserFilter{Budget: ptr(25000.0)},
			want:   []int{2, 6},
		},
		{
			name:   "year range",
			filter: UserFilter{YearMin: ptr(2021.0), YearMax: ptr(2023.0)},
			want:   []int{1, 2, 3},
		},
		{
			name:   "unknown mileage passes",
			filter: UserFilter{MileageMax: ptr(20000.0)},
			want:   []int{2, 3, 5},
		},
		{
			name:   "seating has one seat of slack",
			filter: UserFilter{Seating: ptr(6.0)},
			want:   []int{1, 2, 3, 4, 5, 6},
		},
		{
			name:   "seating slack is only one seat",
			filter: UserFilter{Seating: ptr(7.0)},
			want:   []int{3, 5},
		},
		{
			name:   "doors",
			filter: UserFilter{Doors: ptr(5.0)},
			want:   nil,
		},
		{
			name:   "category vocabulary",
			filter: UserFilter{Categories: []string{"SUV"}},
			want:   []int{1, 5, 6},
		},
		{
			name:   "multiple categories",
			filter: UserFilter{Categories: []string{"truck", "minivan"}},
			want:   []int{3, 4},
		},
		{
			name:   "condition label",
			filter: UserFilter{Conditions: []string{"Excellent"}},
			want:   []int{2, 3, 5},
		},
		{
			name:   "used state",
			filter: UserFilter{Conditions: []string{"new"}},
			want:   []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := listingIDs(HardFilter(sampleListings(), &tt.filter, nil))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("HardFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHardFilter_YearZeroAndUnknownSeatingPass(t *testing.T) {
	t.Parallel()

	l := Listing{ID: 9, Model: "Mystery", Price: 20000}
	f := UserFilter{YearMin: ptr(2020.0), Seating: ptr(8.0), Doors: ptr(4.0), MileageMax: ptr(1.0)}
	if got := HardFilter([]Listing{l}, &f, nil); len(got) != 1 {
		t.Errorf("listing with unknown fields should pass, got %v", listingIDs(got))
	}
}

func TestHardFilter_NoteConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		notes NoteConstraints
		want  []int
	}{
		{
			name:  "mpg floor uses best number",
			notes: NoteConstraints{MinMPG: ptr(36.0)},
			want:  []int{1, 2, 3},
		},
		{
			name:  "awd requirement",
			notes: NoteConstraints{RequireAWD: true},
			want:  []int{1, 3, 4, 5},
		},
		{
			name:  "seating floor keeps the slack",
			notes: NoteConstraints{MinSeating: ptr(7)},
			want:  []int{3, 5},
		},
		{
			name:  "mileage ceiling",
			notes: NoteConstraints{MaxMileage: ptr(30000.0)},
			want:  []int{1, 2, 3, 5},
		},
		{
			name:  "preferred categories",
			notes: NoteConstraints{PreferredCategories: []string{"van", "truck"}},
			want:  []int{3, 4},
		},
		{
			name:  "preferred fuel",
			notes: NoteConstraints{PreferredFuel: "hybrid"},
			want:  []int{1, 3},
		},
		{
			name:  "gas fuel alias",
			notes: NoteConstraints{PreferredFuel: "gas"},
			want:  []int{2, 4, 5, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := listingIDs(HardFilter(sampleListings(), nil, &tt.notes))
			if !slices.Equal(got, tt.want) {
				t.Errorf("HardFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHardFilter_NotePredicatesOnMissingValues(t *testing.T) {
	t.Parallel()

	bare := Listing{ID: 1, Model: "Unknown", Price: 10000}

	if got := HardFilter([]Listing{bare}, nil, &NoteConstraints{MinMPG: ptr(50.0)}); len(got) != 1 {
		t.Error("unparseable MPG should pass the MPG floor")
	}
	for name, n := range map[string]NoteConstraints{
		"awd":      {RequireAWD: true},
		"category": {PreferredCategories: []string{"suv"}},
		"fuel":     {PreferredFuel: "electric"},
	} {
		if got := HardFilter([]Listing{bare}, nil, &n); len(got) != 0 {
			t.Errorf("%s requirement should reject a listing without that field", name)
		}
	}

	ev := Listing{ID: 2, Model: "bZ4X", Price: 40000, FuelType: "EV"}
	if got := HardFilter([]Listing{ev}, nil, &NoteConstraints{PreferredFuel: "electric"}); len(got) != 1 {
		t.Error("EV fuel label should satisfy an electric preference")
	}
}

func TestHardFilter_FamilyCarNotes(t *testing.T) {
	t.Parallel()

	notes := Extract("need a large family car for roadtrips, under 60k miles")
	got := listingIDs(HardFilter(sampleListings(), &UserFilter{}, &notes))
	if want := []int{1, 2, 3, 4, 5}; !slices.Equal(got, want) {
		t.Errorf("HardFilter() = %v, want %v", got, want)
	}
}

func TestHardFilter_CanReturnEmpty(t *testing.T) {
	t.Parallel()

	f := UserFilter{PriceMax: ptr(1000.0)}
	got := HardFilter(sampleListings(), &f, nil)
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", listingIDs(got))
	}
}

func TestBestMPG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label  string
		want   float64
		wantOK bool
	}{
		{"41/38", 41, true},
		{"28 city / 39 hwy", 39, true},
		{"121 MPGe", 121, true},
		{"", 0, false},
		{"N/A", 0, false},
	}
	for _, tt := range tests {
		got, ok := bestMPG(tt.label)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("bestMPG(%q) = %v, %v; want %v, %v", tt.label, got, ok, tt.want, tt.wantOK)
		}
	}
}
