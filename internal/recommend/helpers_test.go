// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"math"

	"github.com/rs/zerolog"
)

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// fakeCatalog implements Catalog over a fixed slice.
type fakeCatalog struct {
	listings []Listing
}

func (c *fakeCatalog) Listings() []Listing {
	return c.listings
}

func (c *fakeCatalog) Lookup(id int) (Listing, bool) {
	for _, l := range c.listings {
		if l.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

// sampleListings returns a small catalog covering each body style.
func sampleListings() []Listing {
	return []Listing{
		{
			ID: 1, Model: "RAV4 XLE Hybrid", Year: 2021, Price: 31000, Used: true,
			VehicleCategory: "SUVs", Mileage: ptr(24500), Drivetrain: "AWD", FuelType: "Hybrid",
			ExteriorColor: "Magnetic Gray Metallic", InteriorColor: "Black SofTex",
			Seating: ptr(5), Doors: ptr(4), Condition: "Good", MPG: "41/38", Transmission: "CVT",
			Dealer: "Toyota of Dallas",
		},
		{
			ID: 2, Model: "Camry SE", Year: 2022, Price: 27000, Used: true,
			VehicleCategory: "Cars", Mileage: ptr(18000), Drivetrain: "FWD", FuelType: "Fuel",
			ExteriorColor: "Super White", InteriorColor: "Black",
			Seating: ptr(5), Doors: ptr(4), Condition: "Excellent", MPG: "28/39", Transmission: "Automatic",
			Dealer: "Toyota of Plano",
		},
		{
			ID: 3, Model: "Sienna XLE", Year: 2023, Price: 45000, Used: true,
			VehicleCategory: "Minivan", Mileage: ptr(9000), Drivetrain: "AWD", FuelType: "Hybrid",
			ExteriorColor: "Blueprint", InteriorColor: "Gray",
			Seating: ptr(8), Doors: ptr(4), Condition: "Excellent", MPG: "36/36", Transmission: "CVT",
			Dealer: "Toyota of Richardson",
		},
		{
			ID: 4, Model: "Tacoma TRD Off-Road", Year: 2020, Price: 36000, Used: true,
			VehicleCategory: "Trucks", Mileage: ptr(52000), Drivetrain: "4WD", FuelType: "Fuel",
			ExteriorColor: "Barcelona Red", InteriorColor: "Black",
			Seating: ptr(5), Doors: ptr(4), Condition: "Good", MPG: "18/22", Transmission: "Automatic",
			Dealer: "Toyota of Garland",
		},
		{
			ID: 5, Model: "Highlander Limited", Year: 2024, Price: 52000, Used: false,
			VehicleCategory: "SUVs", Drivetrain: "AWD", FuelType: "Fuel",
			ExteriorColor: "Midnight Black Metallic", InteriorColor: "Tan",
			Seating: ptr(7), Doors: ptr(4), Condition: "Excellent", MPG: "21/28", Transmission: "Automatic",
			Dealer: "Toyota of Dallas",
		},
		{
			ID: 6, Model: "RAV4 LE", Year: 2019, Price: 22000, Used: true,
			VehicleCategory: "SUVs", Mileage: ptr(70000), Drivetrain: "FWD", FuelType: "Fuel",
			ExteriorColor: "Silver Sky", InteriorColor: "Gray",
			Seating: ptr(5), Doors: ptr(4), Condition: "Fair", MPG: "27/35", Transmission: "Automatic",
			Dealer: "Toyota of Plano",
		},
	}
}

func listingIDs(listings []Listing) []int {
	ids := make([]int, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return ids
}

func resultIDs(results []ScoredResult) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}
