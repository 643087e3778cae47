// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/carmatch/internal/recommend"
)

// CSV column names.
const (
	colPrice           = "price"
	colMileage         = "mileage"
	colYear            = "year"
	colCondition       = "condition"
	colModel           = "model"
	colFuelType        = "fuel_type"
	colVehicleCategory = "vehicle_category"
	colSeating         = "available_seating"
	colDoors           = "doors"
	colEngine          = "engine"
	colTransmission    = "transmission"
	colDrivetrain      = "drivetrain"
	colMPG             = "mpg"
	colExteriorColor   = "exterior_color"
	colInteriorColor   = "interior_color"
	colDealer          = "dealership_name"
	colDealerCity      = "dealer_city"
	colDealerState     = "dealer_state"
	colDealerZip       = "dealer_zip"
	colDistance        = "distance_from_richardson_mi"
)

// recordToListing maps one CSV row to a Listing. Rows without a usable
// price are skipped.
func recordToListing(record map[string]string, id int) (recommend.Listing, bool) {
	field := func(name string) string { return strings.TrimSpace(record[name]) }

	price := recommend.ToNumber(field(colPrice))
	if price == nil {
		return recommend.Listing{}, false
	}

	mileage := recommend.ToNumber(field(colMileage))
	distance := recommend.ToNumber(field(colDistance))
	dealer := field(colDealer)
	conditionRaw := strings.ToLower(field(colCondition))
	model := field(colModel)
	category := formatVehicleCategory(field(colVehicleCategory), model)

	l := recommend.Listing{
		ID:              id,
		Model:           orDefault(model, "Toyota"),
		Price:           math.Round(*price),
		Used:            conditionRaw != "new",
		Location:        buildLocation(dealer, distance),
		FuelType:        formatFuelCategory(field(colFuelType)),
		Condition:       deriveCondition(conditionRaw, mileage),
		Type:            orDefault(category, inferType(model)),
		VehicleCategory: category,
		Engine:          field(colEngine),
		Transmission:    field(colTransmission),
		Drivetrain:      field(colDrivetrain),
		MPG:             field(colMPG),
		ExteriorColor:   field(colExteriorColor),
		InteriorColor:   field(colInteriorColor),
		Dealer:          dealer,
		DealerCity:      field(colDealerCity),
		DealerState:     field(colDealerState),
		DealerZip:       field(colDealerZip),
	}

	if year := recommend.ToNumber(field(colYear)); year != nil {
		l.Year = int(*year)
	}
	if mileage != nil {
		m := int(math.Round(*mileage))
		l.Mileage = &m
	}
	if distance != nil {
		d := math.Round(*distance*10) / 10
		l.DistanceMiles = &d
	}
	if seats := recommend.ToNumber(field(colSeating)); seats != nil {
		s := int(*seats)
		l.Seating = &s
	} else {
		s := deriveSeating(model, category)
		l.Seating = &s
	}
	if doors := recommend.ToNumber(field(colDoors)); doors != nil && *doors > 0 {
		d := int(*doors)
		l.Doors = &d
	}
	return l, true
}

func buildLocation(dealer string, distance *float64) string {
	switch {
	case dealer != "" && distance != nil:
		return fmt.Sprintf("%s (%.1f mi from Richardson)", dealer, *distance)
	case dealer != "":
		return dealer
	case distance != nil:
		return fmt.Sprintf("%.1f mi away", *distance)
	default:
		return "Unknown dealer"
	}
}

// formatFuelCategory collapses the raw fuel column to Hybrid, EV, Fuel or Other.
func formatFuelCategory(raw string) string {
	v := strings.ToLower(raw)
	switch {
	case v == "":
		return "Fuel"
	case strings.Contains(v, "hybrid"):
		return "Hybrid"
	case strings.Contains(v, "electric"), strings.Contains(v, "ev"):
		return "EV"
	case strings.Contains(v, "hydrogen"):
		return "Other"
	case strings.Contains(v, "gas"), strings.Contains(v, "fuel"),
		strings.Contains(v, "petrol"), strings.Contains(v, "diesel"):
		return "Fuel"
	default:
		return "Other"
	}
}

// deriveCondition grades a listing by mileage; new vehicles are Excellent.
func deriveCondition(rawCondition string, mileage *float64) string {
	switch {
	case rawCondition == "new":
		return "Excellent"
	case mileage == nil:
		return "Good"
	case *mileage < 20000:
		return "Excellent"
	case *mileage < 90000:
		return "Good"
	default:
		return "Fair"
	}
}

func formatVehicleCategory(raw, model string) string {
	if raw != "" {
		return normalizeCategoryLabel(raw)
	}
	return normalizeCategoryLabel(inferType(model))
}

func normalizeCategoryLabel(value string) string {
	v := strings.ToLower(value)
	switch {
	case strings.Contains(v, "truck"):
		return "Trucks"
	case strings.Contains(v, "van"):
		return "Minivan"
	case strings.Contains(v, "suv"):
		return "SUVs"
	case strings.Contains(v, "cross"):
		return "Crossovers"
	case strings.Contains(v, "sedan"), strings.Contains(v, "car"),
		strings.Contains(v, "coupe"), strings.Contains(v, "hatch"):
		return "Cars"
	default:
		return strings.TrimSpace(value)
	}
}

// deriveSeating fills in capacity when the column is blank.
func deriveSeating(model, category string) int {
	v := strings.ToLower(model)
	switch {
	case containsAny(v, "sienna"):
		return 8
	case containsAny(v, "sequoia", "grand highlander", "land cruiser"):
		return 8
	case containsAny(v, "highlander", "4runner"):
		return 7
	case containsAny(v, "supra"):
		return 2
	case containsAny(v, "gr86", "gr 86"):
		return 4
	case containsAny(v, "tundra", "tacoma"):
		return 5
	}
	switch category {
	case "Minivan":
		return 8
	case "SUVs":
		return 7
	default:
		return 5
	}
}

func inferType(model string) string {
	v := strings.ToLower(model)
	switch {
	case containsAny(v, "tacoma", "tundra"):
		return "Truck"
	case containsAny(v, "sienna"):
		return "Van"
	case containsAny(v, "rav4", "ravo", "4runner", "highlander", "land cruiser", "sequoia",
		"corolla cross", "grand highlander", "venza", "c-hr"):
		return "SUV"
	case containsAny(v, "prius", "corolla", "camry", "avalon", "crown", "mirai", "yaris"):
		return "Sedan"
	default:
		return "Other"
	}
}

func containsAny(value string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(value, w) {
			return true
		}
	}
	return false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
