// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// RawFilter is the filter exactly as a client sent it.
// Numeric fields hold whatever the decoder produced (float64, string, nil)
// and are only interpreted by Sanitize.
type RawFilter struct {
	Budget           any        `json:"budget,omitempty"`
	BudgetMin        any        `json:"budget_min,omitempty"`
	BudgetMax        any        `json:"budget_max,omitempty"`
	PriceMin         any        `json:"price_min,omitempty"`
	PriceMax         any        `json:"price_max,omitempty"`
	MileageMin       any        `json:"mileage_min,omitempty"`
	MileageMax       any        `json:"mileage_max,omitempty"`
	YearMin          any        `json:"year_min,omitempty"`
	YearMax          any        `json:"year_max,omitempty"`
	AvailableSeating any        `json:"available_seating,omitempty"`
	Doors            any        `json:"doors,omitempty"`
	Model            StringList `json:"model,omitempty"`
	ModelKeywords    StringList `json:"model_keywords,omitempty"`
	VehicleCategory  StringList `json:"vehicle_category,omitempty"`
	Drivetrain       StringList `json:"drivetrain,omitempty"`
	FuelType         StringList `json:"fuel_type,omitempty"`
	Transmission     StringList `json:"transmission,omitempty"`
	ExteriorColor    StringList `json:"exterior_color,omitempty"`
	InteriorColor    StringList `json:"interior_color,omitempty"`
	Condition        StringList `json:"condition,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// StringList accepts either a single string or an array on the wire.
// Values of any other JSON type decode to an empty list instead of failing.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = nil
		return nil //nolint:nilerr // malformed categorical input means "no constraint"
	}
	switch v := raw.(type) {
	case string:
		*s = StringList{v}
	case []any:
		out := make(StringList, 0, len(v))
		for _, item := range v {
			switch iv := item.(type) {
			case string:
				out = append(out, iv)
			case float64:
				out = append(out, strconv.FormatFloat(iv, 'f', -1, 64))
			}
		}
		*s = out
	default:
		*s = nil
	}
	return nil
}

// UserFilter is a sanitized filter. A nil bound or empty list means no constraint.
type UserFilter struct {
	Budget         *float64 `json:"budget,omitempty"`
	BudgetMin      *float64 `json:"budget_min,omitempty"`
	BudgetMax      *float64 `json:"budget_max,omitempty"`
	PriceMin       *float64 `json:"price_min,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	MileageMin     *float64 `json:"mileage_min,omitempty"`
	MileageMax     *float64 `json:"mileage_max,omitempty"`
	YearMin        *float64 `json:"year_min,omitempty"`
	YearMax        *float64 `json:"year_max,omitempty"`
	Seating        *float64 `json:"available_seating,omitempty"`
	Doors          *float64 `json:"doors,omitempty"`
	Models         []string `json:"model,omitempty"`
	ModelKeywords  []string `json:"model_keywords,omitempty"`
	Categories     []string `json:"vehicle_category,omitempty"`
	Drivetrains    []string `json:"drivetrain,omitempty"`
	FuelTypes      []string `json:"fuel_type,omitempty"`
	Transmissions  []string `json:"transmission,omitempty"`
	ExteriorColors []string `json:"exterior_color,omitempty"`
	InteriorColors []string `json:"interior_color,omitempty"`
	Conditions     []string `json:"condition,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// Sanitize coerces a raw filter into numeric-safe, deduplicated fields.
// It never fails: anything that is not a finite number becomes "no constraint".
// The budget window falls back to the price window when not given directly.
func Sanitize(raw RawFilter) UserFilter {
	budgetMin := raw.BudgetMin
	if budgetMin == nil {
		budgetMin = raw.PriceMin
	}
	budgetMax := raw.BudgetMax
	if budgetMax == nil {
		budgetMax = raw.PriceMax
	}

	return UserFilter{
		Budget:         ToNumber(raw.Budget),
		BudgetMin:      ToNumber(budgetMin),
		BudgetMax:      ToNumber(budgetMax),
		PriceMin:       ToNumber(raw.PriceMin),
		PriceMax:       ToNumber(raw.PriceMax),
		MileageMin:     ToNumber(raw.MileageMin),
		MileageMax:     ToNumber(raw.MileageMax),
		YearMin:        ToNumber(raw.YearMin),
		YearMax:        ToNumber(raw.YearMax),
		Seating:        ToNumber(raw.AvailableSeating),
		Doors:          ToNumber(raw.Doors),
		Models:         dedupe(raw.Model),
		ModelKeywords:  dedupe(raw.ModelKeywords),
		Categories:     dedupe(raw.VehicleCategory),
		Drivetrains:    dedupe(raw.Drivetrain),
		FuelTypes:      dedupe(raw.FuelType),
		Transmissions:  dedupe(raw.Transmission),
		ExteriorColors: dedupe(raw.ExteriorColor),
		InteriorColors: dedupe(raw.InteriorColor),
		Conditions:     dedupe(raw.Condition),
		Notes:          strings.TrimSpace(raw.Notes),
	}
}

// IsEmpty reports whether no field of the filter constrains anything.
func (f *UserFilter) IsEmpty() bool {
	bounds := []*float64{
		f.Budget, f.BudgetMin, f.BudgetMax, f.PriceMin, f.PriceMax,
		f.MileageMin, f.MileageMax, f.YearMin, f.YearMax, f.Seating, f.Doors,
	}
	for _, b := range bounds {
		if b != nil {
			return false
		}
	}
	lists := [][]string{
		f.Models, f.ModelKeywords, f.Categories, f.Drivetrains, f.FuelTypes,
		f.Transmissions, f.ExteriorColors, f.InteriorColors, f.Conditions,
	}
	for _, l := range lists {
		if len(l) > 0 {
			return false
		}
	}
	return f.Notes == ""
}

// numericNoise matches characters users type around numbers ("$42,000", "30 k").
var numericNoise = regexp.MustCompile(`[\s$,_]`)

// ToNumber converts a decoded JSON value or Go number into a finite float.
// It returns nil for anything else, including NaN and infinities.
func ToNumber(value any) *float64 {
	var f float64
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint64:
		f = float64(v)
	case *float64:
		if v == nil {
			return nil
		}
		f = *v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, ok := parseNumericString(v)
		if !ok {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseNumericString parses lenient user input such as " 42,000 ", "$35k" or "12.5".
func parseNumericString(s string) (float64, bool) {
	cleaned := strings.ToLower(numericNoise.ReplaceAllString(s, ""))
	if cleaned == "" {
		return 0, false
	}
	multiplier := 1.0
	if strings.HasSuffix(cleaned, "k") {
		multiplier = 1000
		cleaned = strings.TrimSuffix(cleaned, "k")
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f * multiplier, true
}

// dedupe trims values, drops empties and removes exact duplicates in first-seen order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseListingID accepts a listing id as a JSON number or numeric string.
// Zero, negative, fractional and non-finite values are rejected.
func ParseListingID(value any) (int, bool) {
	n := ToNumber(value)
	if n == nil || *n <= 0 || *n != math.Trunc(*n) || *n > math.MaxInt32 {
		return 0, false
	}
	return int(*n), true
}

func ptr[T any](v T) *T {
	return &v
}
