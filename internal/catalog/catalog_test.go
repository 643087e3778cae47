// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/carmatch/internal/recommend"
)

const csvHeader = "price,mileage,year,condition,model,fuel_type,vehicle_category,available_seating,doors," +
	"engine,transmission,drivetrain,mpg,exterior_color,interior_color,dealership_name,dealer_city," +
	"dealer_state,dealer_zip,distance_from_richardson_mi\n"

const sampleCSV = csvHeader +
	"\"$31,250\",\"12,400\",2023,Used,RAV4 XLE Hybrid,Hybrid,SUV,,4,2.5L I4,CVT,AWD,41/38,Blueprint,Black,Toyota of Richardson,Richardson,TX,75080,2.3\n" +
	",,2020,Used,Camry LE,Gasoline,Sedan,5,4,,,FWD,,,,,,,,\n" +
	"44900,,2024,New,Sienna XLE,Hybrid,,,,,,FWD,36/36,Silver,Gray,\"Toyota, Plano\",Plano,TX,75024,11.84\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cars.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestCatalog_LookupAndReplace(t *testing.T) {
	t.Parallel()

	c := New([]recommend.Listing{{ID: 1, Model: "Camry"}, {ID: 2, Model: "RAV4"}})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if l, ok := c.Lookup(2); !ok || l.Model != "RAV4" {
		t.Errorf("Lookup(2) = %+v, %v", l, ok)
	}
	if _, ok := c.Lookup(3); ok {
		t.Error("Lookup(3) should miss")
	}

	before := c.Listings()
	c.Replace([]recommend.Listing{{ID: 9, Model: "Tundra"}})

	if len(before) != 2 {
		t.Errorf("old snapshot changed length to %d", len(before))
	}
	if _, ok := c.Lookup(1); ok {
		t.Error("Lookup(1) should miss after Replace")
	}
	if l, ok := c.Lookup(9); !ok || l.Model != "Tundra" {
		t.Errorf("Lookup(9) = %+v, %v", l, ok)
	}
}

func TestCatalog_EmptyAndConcurrentReaders(t *testing.T) {
	t.Parallel()

	c := New(nil)
	if c.Len() != 0 || len(c.Listings()) != 0 {
		t.Fatal("empty catalog should have no listings")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n%2 == 0 {
					c.Replace([]recommend.Listing{{ID: j + 1}})
				} else {
					snap := c.Listings()
					for _, l := range snap {
						_ = l.ID
					}
					c.Lookup(j)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	listings, err := LoadCSV(context.Background(), writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("len(listings) = %d, want 2 (unpriced row skipped)", len(listings))
	}

	rav4, sienna := listings[0], listings[1]
	if rav4.ID != 1 || sienna.ID != 2 {
		t.Errorf("ids = %d,%d; want sequential 1,2 after skipped row", rav4.ID, sienna.ID)
	}
	if rav4.Price != 31250 || rav4.Mileage == nil || *rav4.Mileage != 12400 || rav4.Condition != "Excellent" {
		t.Errorf("rav4 = %+v", rav4)
	}
	if rav4.FuelType != "Hybrid" || rav4.VehicleCategory != "SUVs" || *rav4.Seating != 7 {
		t.Errorf("rav4 derived fields = %q %q %d", rav4.FuelType, rav4.VehicleCategory, *rav4.Seating)
	}
	if sienna.Used || sienna.VehicleCategory != "Minivan" || *sienna.Seating != 8 {
		t.Errorf("sienna = used:%v %q %d", sienna.Used, sienna.VehicleCategory, *sienna.Seating)
	}
	if want := "Toyota, Plano (11.8 mi from Richardson)"; sienna.Location != want {
		t.Errorf("sienna.Location = %q, want %q", sienna.Location, want)
	}
}

func TestLoadCSV_HeaderCaseAndQuotesInPath(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "dealer's lot")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	path := filepath.Join(dir, "cars.csv")
	content := "Price,Model,Condition\n27000,Corolla LE,used\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	listings, err := LoadCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(listings) != 1 || listings[0].Model != "Corolla LE" || listings[0].VehicleCategory != "Cars" {
		t.Errorf("listings = %+v", listings)
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := LoadCSV(ctx, ""); err == nil {
		t.Error("empty path should fail")
	}
	if _, err := LoadCSV(ctx, filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("missing file should fail")
	}

	unpriced := writeCSV(t, csvHeader+",,2020,Used,Camry LE,,,,,,,,,,,,,,,\n")
	if _, err := LoadCSV(ctx, unpriced); !errors.Is(err, ErrNoListings) {
		t.Errorf("unpriced catalog error = %v, want ErrNoListings", err)
	}
}

func TestService_RefreshOnModification(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeCSV(t, sampleCSV)
	listings, err := LoadCSV(ctx, path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	c := New(listings)

	svc := NewService(c, path, time.Hour, zerolog.Nop())
	var reloaded int
	svc.OnReload = func(n int, _ error) { reloaded = n }

	changed, err := svc.Refresh(ctx)
	if err != nil || changed {
		t.Fatalf("Refresh() unchanged file = %v, %v; want false, nil", changed, err)
	}

	extra := sampleCSV + "21000,88000,2016,Used,Corolla S,Gasoline,Sedan,5,4,,,FWD,,,,,,,,\n"
	if err := os.WriteFile(path, []byte(extra), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	changed, err = svc.Refresh(ctx)
	if err != nil || !changed {
		t.Fatalf("Refresh() modified file = %v, %v; want true, nil", changed, err)
	}
	if c.Len() != 3 || reloaded != 3 {
		t.Errorf("Len() = %d, OnReload = %d; want 3", c.Len(), reloaded)
	}
	if l, ok := c.Lookup(3); !ok || !strings.HasPrefix(l.Model, "Corolla") || l.Condition != "Good" {
		t.Errorf("Lookup(3) = %+v, %v", l, ok)
	}
}

func TestService_FailedReloadKeepsSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeCSV(t, sampleCSV)
	c := New([]recommend.Listing{{ID: 1, Model: "Camry"}})
	svc := NewService(c, path, time.Hour, zerolog.Nop())

	if err := os.WriteFile(path, []byte(csvHeader), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if _, err := svc.Refresh(ctx); err == nil {
		t.Fatal("Refresh() of a header-only file should fail")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want previous snapshot of 1", c.Len())
	}
}

func TestService_InitialLoadRetriesUntilValid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeCSV(t, csvHeader)
	c := New(nil)
	svc := NewService(c, path, time.Hour, zerolog.Nop())

	var failures, loaded int
	svc.OnReload = func(n int, err error) {
		if err != nil {
			failures++
			return
		}
		loaded = n
	}

	if _, err := svc.Refresh(ctx); err == nil {
		t.Fatal("Refresh() of a header-only file should fail")
	}

	// The failed attempt did not record the modification time.
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	changed, err := svc.Refresh(ctx)
	if err != nil || !changed {
		t.Fatalf("Refresh() = %v, %v; want true, nil", changed, err)
	}
	if failures != 1 || loaded != 3 || c.Len() != 3 {
		t.Errorf("failures = %d, loaded = %d, Len() = %d", failures, loaded, c.Len())
	}
}

func TestService_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	for _, interval := range []time.Duration{0, 5 * time.Millisecond} {
		svc := NewService(New(nil), writeCSV(t, sampleCSV), interval, zerolog.Nop())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve(interval=%v) error = %v, want context.Canceled", interval, err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Serve(interval=%v) did not return after cancel", interval)
		}
		if svc.String() != "catalog-refresh" {
			t.Errorf("String() = %q", svc.String())
		}
	}
}
