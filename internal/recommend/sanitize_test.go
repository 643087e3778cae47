// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/goccy/go-json"
)

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  *float64
	}{
		{"float64", 42.5, ptr(42.5)},
		{"int", 7, ptr(7.0)},
		{"int64", int64(30000), ptr(30000.0)},
		{"json number", json.Number("12"), ptr(12.0)},
		{"plain string", "40000", ptr(40000.0)},
		{"padded string", "  12.5 ", ptr(12.5)},
		{"thousands separators", "42,000", ptr(42000.0)},
		{"dollar and k suffix", "$35k", ptr(35000.0)},
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"garbage", "about forty", nil},
		{"NaN", math.NaN(), nil},
		{"positive infinity", math.Inf(1), nil},
		{"NaN string", "NaN", nil},
		{"infinity string", "Infinity", nil},
		{"bool", true, nil},
		{"slice", []any{1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ToNumber(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ToNumber(%v) = %v, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ToNumber(%v) = nil, want %v", tt.input, *tt.want)
			case tt.want != nil && !approxEqual(*got, *tt.want):
				t.Errorf("ToNumber(%v) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestSanitize_BudgetAliases(t *testing.T) {
	t.Parallel()

	f := Sanitize(RawFilter{PriceMin: "30000", PriceMax: 50000.0})
	if f.BudgetMin == nil || *f.BudgetMin != 30000 {
		t.Errorf("BudgetMin = %v, want 30000 from price_min", f.BudgetMin)
	}
	if f.BudgetMax == nil || *f.BudgetMax != 50000 {
		t.Errorf("BudgetMax = %v, want 50000 from price_max", f.BudgetMax)
	}

	f = Sanitize(RawFilter{BudgetMin: 20000.0, PriceMin: 30000.0})
	if *f.BudgetMin != 20000 {
		t.Errorf("explicit budget_min should win, got %v", *f.BudgetMin)
	}
	if *f.PriceMin != 30000 {
		t.Errorf("price_min should be kept, got %v", *f.PriceMin)
	}
}

func TestSanitize_MalformedNumbersBecomeNoConstraint(t *testing.T) {
	t.Parallel()

	f := Sanitize(RawFilter{
		Budget:     "lots",
		YearMin:    math.NaN(),
		MileageMax: math.Inf(-1),
		Doors:      false,
	})
	if f.Budget != nil || f.YearMin != nil || f.MileageMax != nil || f.Doors != nil {
		t.Errorf("expected malformed numbers to become nil, got %+v", f)
	}
	if !f.IsEmpty() {
		t.Error("filter with only malformed numbers should be empty")
	}
}

func TestSanitize_DedupesCategoricalValues(t *testing.T) {
	t.Parallel()

	f := Sanitize(RawFilter{
		VehicleCategory: StringList{"SUV", " SUV ", "", "Trucks", "suv"},
		Model:           StringList{"RAV4", "RAV4"},
		Notes:           "  need awd  ",
	})

	if want := []string{"SUV", "Trucks", "suv"}; !slices.Equal(f.Categories, want) {
		t.Errorf("Categories = %v, want %v", f.Categories, want)
	}
	if want := []string{"RAV4"}; !slices.Equal(f.Models, want) {
		t.Errorf("Models = %v, want %v", f.Models, want)
	}
	if f.Notes != "need awd" {
		t.Errorf("Notes = %q, want trimmed", f.Notes)
	}
}

func TestRawFilter_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	body := `{
		"budget": "40,000",
		"price_min": 30000,
		"model": "RAV4",
		"vehicle_category": ["SUVs", "Trucks"],
		"drivetrain": 4,
		"fuel_type": null,
		"notes": "low mileage hybrid"
	}`

	var raw RawFilter
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	f := Sanitize(raw)
	if f.Budget == nil || *f.Budget != 40000 {
		t.Errorf("Budget = %v, want 40000", f.Budget)
	}
	if f.BudgetMin == nil || *f.BudgetMin != 30000 {
		t.Errorf("BudgetMin = %v, want 30000", f.BudgetMin)
	}
	if !slices.Equal(f.Models, []string{"RAV4"}) {
		t.Errorf("single string model should become a list, got %v", f.Models)
	}
	if !slices.Equal(f.Categories, []string{"SUVs", "Trucks"}) {
		t.Errorf("Categories = %v", f.Categories)
	}
	if len(f.Drivetrains) != 0 || len(f.FuelTypes) != 0 {
		t.Errorf("non-string categorical values should be dropped, got %v %v", f.Drivetrains, f.FuelTypes)
	}
	if f.Notes != "low mileage hybrid" {
		t.Errorf("Notes = %q", f.Notes)
	}
}

func TestParseListingID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  any
		want   int
		wantOK bool
	}{
		{"number", 12.0, 12, true},
		{"numeric string", "7", 7, true},
		{"zero", 0.0, 0, false},
		{"negative", -3.0, 0, false},
		{"fraction", 1.5, 0, false},
		{"garbage", "abc", 0, false},
		{"missing", nil, 0, false},
		{"infinite", math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseListingID(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseListingID(%v) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseFeedback(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"like", "reject"} {
		fb, err := ParseFeedback(valid)
		if err != nil || string(fb) != valid {
			t.Errorf("ParseFeedback(%q) = %q, %v", valid, fb, err)
		}
	}

	for _, invalid := range []string{"maybe", "", "LIKE"} {
		_, err := ParseFeedback(invalid)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ParseFeedback(%q) error = %v, want ErrValidation", invalid, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "feedback" {
			t.Errorf("ParseFeedback(%q) should report the feedback field, got %v", invalid, err)
		}
	}
}
